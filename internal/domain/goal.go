package domain

import "time"

// Goal owns its projects. Its weight is always derived, never stored.
type Goal struct {
	ID          string
	Name        string
	Priority    Priority
	DueDate     *time.Time
	WeightBoost float64
	Status      GoalStatus
	Projects    []Project
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCompleted reports whether the goal no longer accrues age weight.
func (g *Goal) IsCompleted() bool {
	return g.Status == GoalCompleted
}

// Schedulable reports whether work under the goal should be placed.
func (g *Goal) Schedulable() bool {
	return g.Status == GoalActive || g.Status == GoalOverdue
}
