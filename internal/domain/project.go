package domain

import "time"

type Project struct {
	ID          string
	GoalID      string
	Name        string
	Priority    Priority
	Stage       ProjectStage
	DueDate     *time.Time
	DurationMin int
	Progress    int
	Energy      Energy
	Location    string
	Tasks       []Task
	SkillIDs    []string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizedProgress clamps progress to [0,100]; RELEASE is always 100.
func (p *Project) NormalizedProgress() int {
	if p.Stage == StageRelease {
		return 100
	}
	switch {
	case p.Progress < 0:
		return 0
	case p.Progress > 100:
		return 100
	}
	return p.Progress
}

// IsDone reports whether the project is finished and should not be placed.
func (p *Project) IsDone() bool {
	return p.CompletedAt != nil || p.NormalizedProgress() == 100
}

// OpenTasks returns the tasks that still need time.
func (p *Project) OpenTasks() []Task {
	var out []Task
	for _, t := range p.Tasks {
		if t.CompletedAt == nil {
			out = append(out, t)
		}
	}
	return out
}
