package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
)

// snapshot is the read-only world one run plans against. Goals carry their
// projects, projects carry their tasks.
type snapshot struct {
	profile     domain.SchedulerProfile
	goals       []domain.Goal
	habits      []domain.Habit
	dayTypes    map[string]*domain.DayType // by id
	byName      map[string]*domain.DayType // by lower-cased name
	assignments map[string]domain.DayTypeAssignment
	existing    []domain.ScheduleInstance
}

func (s *snapshot) dayTypeByName(name string) *domain.DayType {
	return s.byName[strings.ToLower(strings.TrimSpace(name))]
}

// loadProfile returns the stored profile, or the default one when none has
// been saved yet.
func loadProfile(ctx context.Context, r repository.ProfileRepo) (domain.SchedulerProfile, error) {
	profile, err := r.Get(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.SchedulerProfile{ID: "default"}, nil
	case err != nil:
		return domain.SchedulerProfile{}, fmt.Errorf("loading profile: %w", err)
	}
	return *profile, nil
}

// loadSnapshot reads everything a run needs. Instances are those touching
// [from, to); assignments cover the date keys fromKey..toKey inclusive.
func loadSnapshot(ctx context.Context, r repository.Repos, profile domain.SchedulerProfile, from, to time.Time, fromKey, toKey string) (*snapshot, error) {
	snap := &snapshot{
		profile:     profile,
		dayTypes:    make(map[string]*domain.DayType),
		byName:      make(map[string]*domain.DayType),
		assignments: make(map[string]domain.DayTypeAssignment),
	}

	goals, err := r.Goals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	projects, err := r.Projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	tasks, err := r.Tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	tasksByProject := make(map[string][]domain.Task)
	for _, t := range tasks {
		tasksByProject[t.ProjectID] = append(tasksByProject[t.ProjectID], *t)
	}
	projectsByGoal := make(map[string][]domain.Project)
	for _, p := range projects {
		pr := *p
		pr.Tasks = tasksByProject[p.ID]
		projectsByGoal[p.GoalID] = append(projectsByGoal[p.GoalID], pr)
	}
	for _, g := range goals {
		goal := *g
		goal.Projects = projectsByGoal[g.ID]
		snap.goals = append(snap.goals, goal)
	}

	habits, err := r.Habits.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("loading habits: %w", err)
	}
	for _, h := range habits {
		snap.habits = append(snap.habits, *h)
	}

	dayTypes, err := r.DayTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading day types: %w", err)
	}
	for _, d := range dayTypes {
		snap.dayTypes[d.ID] = d
		snap.byName[strings.ToLower(d.Name)] = d
	}

	assignments, err := r.DayTypes.ListAssignments(ctx, fromKey, toKey)
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}
	for _, a := range assignments {
		snap.assignments[a.Date] = a
	}

	snap.existing, err = r.Instances.ListRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading instances: %w", err)
	}
	return snap, nil
}
