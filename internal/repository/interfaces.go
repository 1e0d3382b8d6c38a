package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// ErrNotFound aliases the domain sentinel so callers can match either.
var ErrNotFound = domain.ErrNotFound

type GoalRepo interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	List(ctx context.Context) ([]*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	ListByGoal(ctx context.Context, goalID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Complete(ctx context.Context, id string, at time.Time) error
}

type HabitRepo interface {
	Create(ctx context.Context, h *domain.Habit) error
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Habit, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type DayTypeRepo interface {
	Create(ctx context.Context, d *domain.DayType) error
	GetByID(ctx context.Context, id string) (*domain.DayType, error)
	GetByName(ctx context.Context, name string) (*domain.DayType, error)
	List(ctx context.Context) ([]*domain.DayType, error)
	Delete(ctx context.Context, id string) error
	AddBlock(ctx context.Context, b *domain.TimeBlock) error
	ListBlocks(ctx context.Context, dayTypeID string) ([]domain.TimeBlock, error)
	SetAssignment(ctx context.Context, date, dayTypeID string) error
	ListAssignments(ctx context.Context, from, to string) ([]domain.DayTypeAssignment, error)
}

type InstanceRepo interface {
	Create(ctx context.Context, inst *domain.ScheduleInstance) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleInstance, error)
	ListRange(ctx context.Context, from, to time.Time) ([]domain.ScheduleInstance, error)
	DeleteOpenInRange(ctx context.Context, from, to time.Time) (int, error)
	Complete(ctx context.Context, id string, at time.Time) error
}

type ProfileRepo interface {
	Get(ctx context.Context) (*domain.SchedulerProfile, error)
	Upsert(ctx context.Context, p *domain.SchedulerProfile) error
}
