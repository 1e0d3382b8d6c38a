package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// ValidateSnapshot checks the snapshot for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSnapshot(s *Snapshot) []error {
	var errs []error

	dayTypes := make(map[string]bool)
	errs = append(errs, validateDayTypes(s.DayTypes, dayTypes)...)
	errs = append(errs, validateProfile(s.Profile, dayTypes)...)
	for i, g := range s.Goals {
		errs = append(errs, validateGoal(fmt.Sprintf("goals[%d]", i), g)...)
	}
	for i, h := range s.Habits {
		errs = append(errs, validateHabit(fmt.Sprintf("habits[%d]", i), h)...)
	}
	errs = append(errs, validateAssignments(s.Assignments, dayTypes)...)
	return errs
}

func validateProfile(p *ProfileImport, dayTypes map[string]bool) []error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("profile.timezone: unknown zone %q", p.Timezone))
		}
	}
	if p.DefaultDayType != "" && !dayTypes[strings.ToLower(p.DefaultDayType)] {
		errs = append(errs, fmt.Errorf("profile.default_day_type %q is not declared in day_types", p.DefaultDayType))
	}
	if p.SleepStart != "" {
		if _, ok := scheduler.ParseClock(p.SleepStart); !ok {
			errs = append(errs, fmt.Errorf("profile.sleep_start: invalid time %q (expected HH:MM)", p.SleepStart))
		}
	}
	return errs
}

func validateGoal(prefix string, g GoalImport) []error {
	var errs []error
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	errs = append(errs, validatePriority(prefix, g.Priority)...)
	errs = append(errs, validateDate(prefix+".due_date", g.DueDate)...)
	if g.Status != "" && domain.ParseGoalStatus(g.Status) != domain.GoalStatus(strings.ToUpper(strings.TrimSpace(g.Status))) {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, g.Status))
	}
	for i, p := range g.Projects {
		errs = append(errs, validateProject(fmt.Sprintf("%s.projects[%d]", prefix, i), p)...)
	}
	return errs
}

func validateProject(prefix string, p ProjectImport) []error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	errs = append(errs, validatePriority(prefix, p.Priority)...)
	errs = append(errs, validateDate(prefix+".due_date", p.DueDate)...)
	errs = append(errs, validateEnergy(prefix, p.Energy)...)
	if p.Stage != "" && domain.ParseProjectStage(p.Stage) != domain.ProjectStage(strings.ToUpper(strings.TrimSpace(p.Stage))) {
		errs = append(errs, fmt.Errorf("%s.stage: invalid value %q", prefix, p.Stage))
	}
	if p.DurationMin != nil && *p.DurationMin <= 0 {
		errs = append(errs, fmt.Errorf("%s.duration_min must be positive", prefix))
	}
	if p.Progress < 0 || p.Progress > 100 {
		errs = append(errs, fmt.Errorf("%s.progress must be in [0, 100]", prefix))
	}
	for i, t := range p.Tasks {
		errs = append(errs, validateTask(fmt.Sprintf("%s.tasks[%d]", prefix, i), t)...)
	}
	return errs
}

func validateTask(prefix string, t TaskImport) []error {
	var errs []error
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	errs = append(errs, validatePriority(prefix, t.Priority)...)
	errs = append(errs, validateEnergy(prefix, t.Energy)...)
	if t.Stage != "" && domain.ParseTaskStage(t.Stage) != domain.TaskStage(strings.ToUpper(strings.TrimSpace(t.Stage))) {
		errs = append(errs, fmt.Errorf("%s.stage: invalid value %q", prefix, t.Stage))
	}
	if t.DurationMin != nil && *t.DurationMin <= 0 {
		errs = append(errs, fmt.Errorf("%s.duration_min must be positive", prefix))
	}
	return errs
}

func validateHabit(prefix string, h HabitImport) []error {
	var errs []error
	if strings.TrimSpace(h.Name) == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if h.DurationMin <= 0 {
		errs = append(errs, fmt.Errorf("%s.duration_min must be positive", prefix))
	}
	errs = append(errs, validatePriority(prefix, h.Priority)...)
	errs = append(errs, validateEnergy(prefix, h.Energy)...)
	if _, err := domain.ParseWeekdays(h.Days); err != nil {
		errs = append(errs, fmt.Errorf("%s.days: %v", prefix, err))
	}
	return errs
}

func validateDayTypes(dayTypes []DayTypeImport, seen map[string]bool) []error {
	var errs []error
	for i, d := range dayTypes {
		prefix := fmt.Sprintf("day_types[%d]", i)
		name := strings.TrimSpace(d.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if seen[strings.ToLower(name)] {
			errs = append(errs, fmt.Errorf("%s.name %q is duplicated", prefix, name))
		} else {
			seen[strings.ToLower(name)] = true
		}
		for j, b := range d.Blocks {
			errs = append(errs, validateBlock(fmt.Sprintf("%s.blocks[%d]", prefix, j), b)...)
		}
	}
	return errs
}

func validateBlock(prefix string, b BlockImport) []error {
	var errs []error
	if strings.TrimSpace(b.Label) == "" {
		errs = append(errs, fmt.Errorf("%s.label is required", prefix))
	}
	start, okStart := scheduler.ParseClock(b.Start)
	if !okStart {
		errs = append(errs, fmt.Errorf("%s.start: invalid time %q (expected HH:MM)", prefix, b.Start))
	}
	end, okEnd := scheduler.ParseClock(b.End)
	if !okEnd {
		errs = append(errs, fmt.Errorf("%s.end: invalid time %q (expected HH:MM)", prefix, b.End))
	}
	if okStart && okEnd && start%domain.MinutesPerDay == end%domain.MinutesPerDay {
		errs = append(errs, fmt.Errorf("%s: start and end must differ", prefix))
	}
	if _, ok := domain.ParseBlockType(b.BlockType); !ok {
		errs = append(errs, fmt.Errorf("%s.block_type: invalid value %q", prefix, b.BlockType))
	}
	errs = append(errs, validateEnergy(prefix, b.Energy)...)
	if _, err := domain.ParseWeekdays(b.Days); err != nil {
		errs = append(errs, fmt.Errorf("%s.days: %v", prefix, err))
	}
	return errs
}

func validateAssignments(list []AssignmentImport, dayTypes map[string]bool) []error {
	var errs []error
	dates := make(map[string]bool)
	for i, a := range list {
		prefix := fmt.Sprintf("assignments[%d]", i)
		if _, err := time.Parse(domain.DateLayout, a.Date); err != nil {
			errs = append(errs, fmt.Errorf("%s.date: invalid date format %q (expected YYYY-MM-DD)", prefix, a.Date))
		} else if dates[a.Date] {
			errs = append(errs, fmt.Errorf("%s.date %q is assigned twice", prefix, a.Date))
		}
		dates[a.Date] = true
		if !dayTypes[strings.ToLower(strings.TrimSpace(a.DayType))] {
			errs = append(errs, fmt.Errorf("%s.day_type %q is not declared in day_types", prefix, a.DayType))
		}
	}
	return errs
}

func validatePriority(prefix, p string) []error {
	if _, ok := domain.LookupPriority(p); p == "" || ok {
		return nil
	}
	return []error{fmt.Errorf("%s.priority: invalid value %q", prefix, p)}
}

func validateEnergy(prefix, e string) []error {
	if e == "" || domain.Energy(strings.ToUpper(strings.TrimSpace(e))).Valid() {
		return nil
	}
	return []error{fmt.Errorf("%s.energy: invalid value %q", prefix, e)}
}

func validateDate(field string, s *string) []error {
	if s == nil {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, *s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}
