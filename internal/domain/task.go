package domain

import "time"

// Task belongs to exactly one project. SkillID is a lookup-only reference.
type Task struct {
	ID          string
	ProjectID   string
	Name        string
	Stage       TaskStage
	Priority    Priority
	SkillID     *string
	DurationMin int
	Energy      Energy
	Location    string
	CompletedAt *time.Time
	CreatedAt   time.Time
}
