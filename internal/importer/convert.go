package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/google/uuid"
)

// Converted is a validated snapshot turned into domain objects ready for
// persistence. Projects hang off their goal, tasks off their project and
// blocks off their day type.
type Converted struct {
	Profile     *domain.SchedulerProfile
	Goals       []*domain.Goal
	Habits      []*domain.Habit
	DayTypes    []*domain.DayType
	Assignments []domain.DayTypeAssignment
}

// Counts reports how many rows of each kind the conversion produced.
func (c *Converted) Counts() (goals, projects, tasks, habits, dayTypes, blocks int) {
	for _, g := range c.Goals {
		goals++
		for _, p := range g.Projects {
			projects++
			tasks += len(p.Tasks)
		}
	}
	for _, d := range c.DayTypes {
		dayTypes++
		blocks += len(d.Blocks)
	}
	return goals, projects, tasks, len(c.Habits), dayTypes, blocks
}

// Convert transforms a validated Snapshot into domain objects.
// Call ValidateSnapshot first; Convert assumes the snapshot is valid.
func Convert(s *Snapshot, now time.Time) (*Converted, error) {
	now = now.UTC().Truncate(time.Second)
	out := &Converted{}

	if s.Profile != nil {
		out.Profile = &domain.SchedulerProfile{
			ID:              "default",
			Timezone:        s.Profile.Timezone,
			DefaultDayType:  s.Profile.DefaultDayType,
			SleepStartLocal: s.Profile.SleepStart,
		}
	}

	for _, gi := range s.Goals {
		g := &domain.Goal{
			ID:          uuid.New().String(),
			Name:        strings.TrimSpace(gi.Name),
			Priority:    domain.ParsePriority(gi.Priority),
			DueDate:     parseOptionalDate(gi.DueDate),
			WeightBoost: gi.WeightBoost,
			Status:      domain.ParseGoalStatus(gi.Status),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, pi := range gi.Projects {
			g.Projects = append(g.Projects, convertProject(pi, g.ID, now))
		}
		out.Goals = append(out.Goals, g)
	}

	for _, hi := range s.Habits {
		days, err := domain.ParseWeekdays(hi.Days)
		if err != nil {
			return nil, fmt.Errorf("habit %q: %w", hi.Name, err)
		}
		out.Habits = append(out.Habits, &domain.Habit{
			ID:          uuid.New().String(),
			Name:        strings.TrimSpace(hi.Name),
			Priority:    domain.ParsePriority(hi.Priority),
			DurationMin: hi.DurationMin,
			Energy:      domain.ParseEnergy(hi.Energy),
			Location:    hi.Location,
			Days:        days,
			Active:      true,
			CreatedAt:   now,
		})
	}

	byName := make(map[string]*domain.DayType)
	for _, di := range s.DayTypes {
		d := &domain.DayType{
			ID:        uuid.New().String(),
			Name:      strings.TrimSpace(di.Name),
			CreatedAt: now,
		}
		for _, bi := range di.Blocks {
			b, err := convertBlock(bi, d.ID, now)
			if err != nil {
				return nil, fmt.Errorf("day type %q: %w", d.Name, err)
			}
			d.Blocks = append(d.Blocks, b)
		}
		byName[strings.ToLower(d.Name)] = d
		out.DayTypes = append(out.DayTypes, d)
	}

	for _, ai := range s.Assignments {
		d, ok := byName[strings.ToLower(strings.TrimSpace(ai.DayType))]
		if !ok {
			return nil, fmt.Errorf("assignment %s: day type %q not found", ai.Date, ai.DayType)
		}
		out.Assignments = append(out.Assignments, domain.DayTypeAssignment{
			Date:        ai.Date,
			DayTypeID:   d.ID,
			DayTypeName: d.Name,
		})
	}
	return out, nil
}

func convertProject(pi ProjectImport, goalID string, now time.Time) domain.Project {
	p := domain.Project{
		ID:          uuid.New().String(),
		GoalID:      goalID,
		Name:        strings.TrimSpace(pi.Name),
		Priority:    domain.ParsePriority(pi.Priority),
		Stage:       domain.ParseProjectStage(pi.Stage),
		DueDate:     parseOptionalDate(pi.DueDate),
		DurationMin: domain.Deref(pi.DurationMin, 0),
		Progress:    pi.Progress,
		Energy:      domain.ParseEnergy(pi.Energy),
		Location:    pi.Location,
		SkillIDs:    pi.Skills,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, ti := range pi.Tasks {
		t := domain.Task{
			ID:          uuid.New().String(),
			ProjectID:   p.ID,
			Name:        strings.TrimSpace(ti.Name),
			Stage:       domain.ParseTaskStage(ti.Stage),
			Priority:    domain.ParsePriority(ti.Priority),
			SkillID:     ti.Skill,
			DurationMin: domain.Deref(ti.DurationMin, 0),
			Energy:      domain.ParseEnergy(ti.Energy),
			Location:    ti.Location,
			CreatedAt:   now,
		}
		if ti.Completed {
			at := now
			t.CompletedAt = &at
		}
		p.Tasks = append(p.Tasks, t)
	}
	return p
}

func convertBlock(bi BlockImport, dayTypeID string, now time.Time) (domain.TimeBlock, error) {
	bt, ok := domain.ParseBlockType(bi.BlockType)
	if !ok {
		return domain.TimeBlock{}, fmt.Errorf("block %q: invalid block type %q", bi.Label, bi.BlockType)
	}
	days, err := domain.ParseWeekdays(bi.Days)
	if err != nil {
		return domain.TimeBlock{}, fmt.Errorf("block %q: %w", bi.Label, err)
	}
	return domain.TimeBlock{
		ID:         uuid.New().String(),
		DayTypeID:  dayTypeID,
		Label:      strings.TrimSpace(bi.Label),
		StartLocal: strings.TrimSpace(bi.Start),
		EndLocal:   strings.TrimSpace(bi.End),
		BlockType:  bt,
		Energy:     domain.ParseEnergy(bi.Energy),
		Location:   bi.Location,
		Days:       days,
		CreatedAt:  now,
	}, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
