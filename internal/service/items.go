package service

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
)

// itemBuilder turns the stored hierarchy into placement items. A task's item
// weight stacks its goal, project and own weight so goals order first and
// tasks break ties inside a project.
type itemBuilder struct {
	now                   time.Time
	loc                   *time.Location
	params                scheduler.WeightParams
	defaultTaskMinutes    int
	defaultProjectMinutes int
	display               map[string]string

	// Filled from the kept instances by build.
	bookedMinutes map[string]int
	bookedHabits  map[string]bool
}

// build emits the items of one run. Kept instances are work that already
// happened or is happening: their minutes come off task and project items,
// and a habit occurrence with a kept instance on its date is not emitted.
func (b *itemBuilder) build(snap *snapshot, days []time.Time, kept []domain.ScheduleInstance) []scheduler.Item {
	if b.display == nil {
		b.display = make(map[string]string)
	}
	b.book(kept)
	var items []scheduler.Item
	for _, g := range snap.goals {
		b.display[g.ID] = g.Name
		if !g.Schedulable() {
			continue
		}
		goalWeight := scheduler.GoalWeight(g, b.now, b.params)
		for _, p := range g.Projects {
			b.display[p.ID] = g.Name + " / " + p.Name
			if p.IsDone() {
				continue
			}
			items = append(items, b.projectItems(g, p, goalWeight)...)
		}
	}
	for _, h := range snap.habits {
		items = append(items, b.habitItems(h, days)...)
	}
	return items
}

func (b *itemBuilder) projectItems(g domain.Goal, p domain.Project, goalWeight float64) []scheduler.Item {
	projectWeight := scheduler.ProjectWeightWithTasks(p, b.now, b.params)
	open := p.OpenTasks()
	if len(p.Tasks) == 0 {
		remaining := b.remaining(p.ID, domain.PositiveOr(p.DurationMin, b.defaultProjectMinutes))
		if remaining == 0 {
			return nil
		}
		return []scheduler.Item{{
			ID:          p.ID,
			Source:      domain.ProjectRef{ProjectID: p.ID, GoalID: g.ID},
			Label:       p.Name,
			Weight:      goalWeight + projectWeight,
			DurationMin: remaining,
			Energy:      p.Energy,
			Location:    p.Location,
		}}
	}

	items := make([]scheduler.Item, 0, len(open))
	for _, t := range open {
		b.display[t.ID] = p.Name + " / " + t.Name
		remaining := b.remaining(t.ID, domain.PositiveOr(t.DurationMin, b.defaultTaskMinutes))
		if remaining == 0 {
			continue
		}
		items = append(items, scheduler.Item{
			ID:          t.ID,
			Source:      domain.TaskRef{TaskID: t.ID, ProjectID: p.ID, GoalID: g.ID},
			Label:       t.Name,
			Weight:      goalWeight + projectWeight + scheduler.TaskWeight(t),
			DurationMin: remaining,
			Energy:      domain.Coalesce(t.Energy, p.Energy),
			Location:    domain.Coalesce(t.Location, p.Location),
		})
	}
	return items
}

// habitItems emits one pinned item per matching day of the horizon.
func (b *itemBuilder) habitItems(h domain.Habit, days []time.Time) []scheduler.Item {
	var items []scheduler.Item
	for _, day := range days {
		if !h.OccursOn(day) {
			continue
		}
		id := habitOccurrenceID(h.ID, day)
		if b.bookedHabits[id] {
			continue
		}
		date := day
		b.display[id] = fmt.Sprintf("%s (%s)", h.Name, day.Format(domain.DateLayout))
		items = append(items, scheduler.Item{
			ID:          id,
			Source:      domain.HabitRef{HabitID: h.ID},
			Label:       h.Name,
			Weight:      scheduler.HabitWeight(h),
			DurationMin: h.DurationMin,
			Energy:      h.Energy,
			Location:    h.Location,
			OnlyDate:    &date,
		})
	}
	b.display[h.ID] = h.Name
	return items
}

func habitOccurrenceID(habitID string, day time.Time) string {
	return habitID + "@" + day.Format(domain.DateLayout)
}

// book indexes the kept instances. A habit instance claims its local date.
// A task or project instance counts against its source once it is completed
// or in progress; one that ended unfinished is missed and gets placed again.
func (b *itemBuilder) book(kept []domain.ScheduleInstance) {
	b.bookedMinutes = make(map[string]int)
	b.bookedHabits = make(map[string]bool)
	loc := b.loc
	if loc == nil {
		loc = time.UTC
	}
	for _, inst := range kept {
		switch ref := inst.Source.(type) {
		case domain.HabitRef:
			b.bookedHabits[habitOccurrenceID(ref.HabitID, inst.StartUTC.In(loc))] = true
		case domain.TaskRef, domain.ProjectRef:
			if inst.CompletedAt != nil || inst.EndUTC.After(b.now) {
				b.bookedMinutes[ref.SourceID()] += inst.DurationMin
			}
		}
	}
}

// remaining is what is left of total once booked minutes are taken off.
func (b *itemBuilder) remaining(sourceID string, total int) int {
	return max(total-b.bookedMinutes[sourceID], 0)
}
