package domain

import "time"

// ScheduleInstance is a placed item. Created by a successful placement and
// afterwards only mutated by completion.
type ScheduleInstance struct {
	ID          string
	RunID       string
	Source      ItemSource
	Label       string
	BlockID     string
	StartUTC    time.Time
	EndUTC      time.Time
	DurationMin int
	Energy      Energy
	CompletedAt *time.Time
	CreatedAt   time.Time
}

// Overlaps reports whether the instance intersects [start, end).
func (s *ScheduleInstance) Overlaps(start, end time.Time) bool {
	return s.StartUTC.Before(end) && start.Before(s.EndUTC)
}
