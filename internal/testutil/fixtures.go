package testutil

import (
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/google/uuid"
)

// Goal options
type GoalOption func(*domain.Goal)

func WithGoalPriority(p domain.Priority) GoalOption {
	return func(g *domain.Goal) { g.Priority = p }
}

func WithGoalDueDate(d time.Time) GoalOption {
	return func(g *domain.Goal) { g.DueDate = &d }
}

func WithGoalStatus(s domain.GoalStatus) GoalOption {
	return func(g *domain.Goal) { g.Status = s }
}

func WithGoalUpdatedAt(t time.Time) GoalOption {
	return func(g *domain.Goal) { g.UpdatedAt = t }
}

func NewTestGoal(name string, opts ...GoalOption) *domain.Goal {
	now := time.Now().UTC().Truncate(time.Second)
	g := &domain.Goal{
		ID:        uuid.New().String(),
		Name:      name,
		Priority:  domain.PriorityMedium,
		Status:    domain.GoalActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectPriority(p domain.Priority) ProjectOption {
	return func(pr *domain.Project) { pr.Priority = p }
}

func WithProjectDuration(min int) ProjectOption {
	return func(pr *domain.Project) { pr.DurationMin = min }
}

func WithProjectEnergy(e domain.Energy) ProjectOption {
	return func(pr *domain.Project) { pr.Energy = e }
}

func WithProjectStage(s domain.ProjectStage) ProjectOption {
	return func(pr *domain.Project) { pr.Stage = s }
}

func WithProjectDueDate(d time.Time) ProjectOption {
	return func(pr *domain.Project) { pr.DueDate = &d }
}

func NewTestProject(goalID, name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		GoalID:    goalID,
		Name:      name,
		Priority:  domain.PriorityMedium,
		Stage:     domain.StageBuild,
		Energy:    domain.EnergyLow,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) { t.Priority = p }
}

func WithTaskStage(s domain.TaskStage) TaskOption {
	return func(t *domain.Task) { t.Stage = s }
}

func WithTaskDuration(min int) TaskOption {
	return func(t *domain.Task) { t.DurationMin = min }
}

func WithTaskEnergy(e domain.Energy) TaskOption {
	return func(t *domain.Task) { t.Energy = e }
}

func WithTaskCompleted(at time.Time) TaskOption {
	return func(t *domain.Task) { t.CompletedAt = &at }
}

func NewTestTask(projectID, name string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Name:        name,
		Stage:       domain.TaskPrepare,
		Priority:    domain.PriorityMedium,
		DurationMin: 30,
		Energy:      domain.EnergyLow,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Habit options
type HabitOption func(*domain.Habit)

func WithHabitDays(w domain.Weekdays) HabitOption {
	return func(h *domain.Habit) { h.Days = w }
}

func WithHabitDuration(min int) HabitOption {
	return func(h *domain.Habit) { h.DurationMin = min }
}

func WithHabitPriority(p domain.Priority) HabitOption {
	return func(h *domain.Habit) { h.Priority = p }
}

func NewTestHabit(name string, opts ...HabitOption) *domain.Habit {
	h := &domain.Habit{
		ID:          uuid.New().String(),
		Name:        name,
		Priority:    domain.PriorityLow,
		DurationMin: 15,
		Energy:      domain.EnergyNo,
		Active:      true,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func NewTestDayType(name string) *domain.DayType {
	return &domain.DayType{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// NewTestBlock builds a FOCUS block with MEDIUM energy; adjust fields after.
func NewTestBlock(dayTypeID, label, start, end string) *domain.TimeBlock {
	return &domain.TimeBlock{
		ID:         uuid.New().String(),
		DayTypeID:  dayTypeID,
		Label:      label,
		StartLocal: start,
		EndLocal:   end,
		BlockType:  domain.BlockFocus,
		Energy:     domain.EnergyMedium,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}
