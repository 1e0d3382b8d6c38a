package domain

import "fmt"

// ItemKindCode is the serialized form of an item kind.
type ItemKindCode string

const (
	KindProject ItemKindCode = "project"
	KindTask    ItemKindCode = "task"
	KindHabit   ItemKindCode = "habit"
)

// ItemSource identifies what a schedulable item was built from. It is a
// closed set: only ProjectRef, TaskRef and HabitRef implement it.
type ItemSource interface {
	Kind() ItemKindCode
	SourceID() string
	sealedItemSource()
}

type ProjectRef struct {
	ProjectID string
	GoalID    string
}

type TaskRef struct {
	TaskID    string
	ProjectID string
	GoalID    string
}

type HabitRef struct {
	HabitID string
}

func (ProjectRef) Kind() ItemKindCode { return KindProject }
func (TaskRef) Kind() ItemKindCode    { return KindTask }
func (HabitRef) Kind() ItemKindCode   { return KindHabit }

func (r ProjectRef) SourceID() string { return r.ProjectID }
func (r TaskRef) SourceID() string    { return r.TaskID }
func (r HabitRef) SourceID() string   { return r.HabitID }

func (ProjectRef) sealedItemSource() {}
func (TaskRef) sealedItemSource()    {}
func (HabitRef) sealedItemSource()   {}

// NewItemSource rebuilds a source reference from its persisted kind and id.
func NewItemSource(kind ItemKindCode, id string) (ItemSource, error) {
	switch kind {
	case KindProject:
		return ProjectRef{ProjectID: id}, nil
	case KindTask:
		return TaskRef{TaskID: id}, nil
	case KindHabit:
		return HabitRef{HabitID: id}, nil
	default:
		return nil, fmt.Errorf("%w: unknown item kind %q", ErrInvalidInput, kind)
	}
}
