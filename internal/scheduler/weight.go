package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
)

// WeightParams carries the urgency curves for goals and projects.
type WeightParams struct {
	GoalUrgency    UrgencyParams
	ProjectUrgency UrgencyParams
}

// DefaultWeightParams uses the stock goal and project urgency curves.
func DefaultWeightParams() WeightParams {
	return WeightParams{
		GoalUrgency:    DefaultGoalUrgency(),
		ProjectUrgency: DefaultProjectUrgency(),
	}
}

var priorityWeights = map[domain.Priority]float64{
	domain.PriorityNo:            0,
	domain.PriorityLow:           10,
	domain.PriorityMedium:        200,
	domain.PriorityHigh:          300,
	domain.PriorityCritical:      500,
	domain.PriorityUltraCritical: 1000,
}

var taskStageWeights = map[domain.TaskStage]float64{
	domain.TaskPrepare: 10,
	domain.TaskProduce: 20,
	domain.TaskPerfect: 30,
}

// PriorityWeight returns the base weight of a priority. Anything that is not
// a known priority (after normalization) weighs as NO.
func PriorityWeight(p domain.Priority) float64 {
	return priorityWeights[domain.ParsePriority(string(p))]
}

// TaskWeight ranks a task by priority plus its stage.
func TaskWeight(t domain.Task) float64 {
	return PriorityWeight(t.Priority) + taskStageWeights[t.Stage]
}

// ProjectWeight = priority + childTaskWeightSum + project due-date urgency.
func ProjectWeight(p domain.Project, childTaskWeightSum float64, now time.Time, params WeightParams) float64 {
	return PriorityWeight(p.Priority) +
		finite(childTaskWeightSum) +
		DueDateUrgencyBoost(p.DueDate, now, params.ProjectUrgency)
}

// ProjectWeightWithTasks sums the weights of open tasks before delegating to
// ProjectWeight.
func ProjectWeightWithTasks(p domain.Project, now time.Time, params WeightParams) float64 {
	var sum float64
	for _, t := range p.OpenTasks() {
		sum += TaskWeight(t)
	}
	return ProjectWeight(p, sum, now, params)
}

// GoalWeight = priority + sum(project weights) + age in days + manual boost
// + goal due-date urgency. Completed goals do not age.
func GoalWeight(g domain.Goal, now time.Time, params WeightParams) float64 {
	w := PriorityWeight(g.Priority)
	for _, p := range g.Projects {
		w += ProjectWeightWithTasks(p, now, params)
	}
	w += goalAgeDays(g, now)
	w += finite(g.WeightBoost)
	w += DueDateUrgencyBoost(g.DueDate, now, params.GoalUrgency)
	return w
}

func goalAgeDays(g domain.Goal, now time.Time) float64 {
	if g.IsCompleted() || g.UpdatedAt.IsZero() {
		return 0
	}
	return float64(max(daysBetween(g.UpdatedAt.In(now.Location()), now), 0))
}

// HabitWeight ranks habits on the shared priority scale.
func HabitWeight(h domain.Habit) float64 {
	return PriorityWeight(h.Priority)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
