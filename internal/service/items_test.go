package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/scheduler"
	"github.com/alexanderramin/tempo/internal/testutil"
)

func TestItemBuilder_Build(t *testing.T) {
	now := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	goal := *testutil.NewTestGoal("G", testutil.WithGoalUpdatedAt(now))
	withTasks := *testutil.NewTestProject(goal.ID, "P1", testutil.WithProjectEnergy(domain.EnergyHigh))
	open := *testutil.NewTestTask(withTasks.ID, "open", testutil.WithTaskDuration(0), testutil.WithTaskEnergy(""))
	done := *testutil.NewTestTask(withTasks.ID, "done", testutil.WithTaskCompleted(now))
	withTasks.Tasks = []domain.Task{open, done}
	bare := *testutil.NewTestProject(goal.ID, "P2", testutil.WithProjectDuration(0))
	finished := *testutil.NewTestProject(goal.ID, "P3", testutil.WithProjectStage(domain.StageRelease))
	goal.Projects = []domain.Project{withTasks, bare, finished}

	habit := *testutil.NewTestHabit("H", testutil.WithHabitDays(domain.Weekdays(0).With(time.Tuesday)))
	snap := &snapshot{goals: []domain.Goal{goal}, habits: []domain.Habit{habit}}

	b := &itemBuilder{now: now, params: scheduler.DefaultWeightParams(), defaultTaskMinutes: 30, defaultProjectMinutes: 60}
	days := horizonDates(now, 3, time.UTC)
	items := b.build(snap, days, nil)
	require.Len(t, items, 3)

	task, project, occurrence := items[0], items[1], items[2]
	assert.Equal(t, open.ID, task.ID)
	assert.Equal(t, 30, task.DurationMin, "task default duration")
	assert.Equal(t, domain.EnergyHigh, task.Energy, "task inherits project energy")
	goalWeight := scheduler.GoalWeight(goal, now, b.params)
	assert.InDelta(t, goalWeight+scheduler.ProjectWeightWithTasks(withTasks, now, b.params)+scheduler.TaskWeight(open), task.Weight, 0.001)

	assert.Equal(t, bare.ID, project.ID)
	assert.Equal(t, 60, project.DurationMin, "project default duration")
	assert.IsType(t, domain.ProjectRef{}, project.Source)

	assert.Equal(t, habit.ID+"@2026-03-03", occurrence.ID)
	require.NotNil(t, occurrence.OnlyDate)
	assert.Equal(t, time.Tuesday, occurrence.OnlyDate.Weekday())

	assert.Equal(t, "G / P1", b.display[withTasks.ID])
	assert.Equal(t, "P1 / open", b.display[open.ID])
	assert.Equal(t, "H (2026-03-03)", b.display[occurrence.ID])
}

func TestResolveDayType(t *testing.T) {
	work := &domain.DayType{ID: "w", Name: "Work"}
	rest := &domain.DayType{ID: "r", Name: "Rest"}
	snap := &snapshot{
		profile:     domain.SchedulerProfile{DefaultDayType: "work"},
		dayTypes:    map[string]*domain.DayType{"w": work, "r": rest},
		byName:      map[string]*domain.DayType{"work": work, "rest": rest},
		assignments: map[string]domain.DayTypeAssignment{"2026-03-07": {Date: "2026-03-07", DayTypeID: "r"}},
	}
	assert.Same(t, rest, resolveDayType(snap, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)))
	assert.Same(t, work, resolveDayType(snap, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))

	snap.profile.DefaultDayType = ""
	assert.Nil(t, resolveDayType(snap, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)))

	segs := composeDayType(nil, time.Monday, scheduler.ComposeOptions{})
	require.Len(t, segs, 1)
	assert.True(t, segs[0].Filler)
}

func TestItemBuilder_KeptInstancesConsumeWork(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	goal := *testutil.NewTestGoal("G")
	project := *testutil.NewTestProject(goal.ID, "P")
	task := *testutil.NewTestTask(project.ID, "T", testutil.WithTaskDuration(90))
	project.Tasks = []domain.Task{task}
	goal.Projects = []domain.Project{project}
	habit := *testutil.NewTestHabit("H")
	snap := &snapshot{goals: []domain.Goal{goal}, habits: []domain.Habit{habit}}

	taskRef := domain.TaskRef{TaskID: task.ID, ProjectID: project.ID, GoalID: goal.ID}
	inst := func(src domain.ItemSource, startHour, minutes int, completed bool) domain.ScheduleInstance {
		start := time.Date(2026, 3, 2, startHour, 0, 0, 0, time.UTC)
		si := domain.ScheduleInstance{Source: src, StartUTC: start, EndUTC: start.Add(time.Duration(minutes) * time.Minute), DurationMin: minutes}
		if completed {
			si.CompletedAt = &start
		}
		return si
	}

	tests := []struct {
		name         string
		kept         []domain.ScheduleInstance
		wantTaskMin  int // 0 means the task item is absent
		wantHabitIDs []string
	}{
		{
			name:         "nothing kept",
			wantTaskMin:  90,
			wantHabitIDs: []string{habit.ID + "@2026-03-02", habit.ID + "@2026-03-03"},
		},
		{
			name:         "completed part shortens the task",
			kept:         []domain.ScheduleInstance{inst(taskRef, 8, 30, true)},
			wantTaskMin:  60,
			wantHabitIDs: []string{habit.ID + "@2026-03-02", habit.ID + "@2026-03-03"},
		},
		{
			name:         "in-progress instance covering the task drops it",
			kept:         []domain.ScheduleInstance{inst(taskRef, 9, 90, false)},
			wantHabitIDs: []string{habit.ID + "@2026-03-02", habit.ID + "@2026-03-03"},
		},
		{
			name:         "missed instance does not count",
			kept:         []domain.ScheduleInstance{inst(taskRef, 8, 30, false)},
			wantTaskMin:  90,
			wantHabitIDs: []string{habit.ID + "@2026-03-02", habit.ID + "@2026-03-03"},
		},
		{
			name:         "kept habit instance claims its date",
			kept:         []domain.ScheduleInstance{inst(domain.HabitRef{HabitID: habit.ID}, 8, 15, false)},
			wantTaskMin:  90,
			wantHabitIDs: []string{habit.ID + "@2026-03-03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &itemBuilder{now: now, loc: time.UTC, params: scheduler.DefaultWeightParams(), defaultTaskMinutes: 30}
			items := b.build(snap, horizonDates(now, 2, time.UTC), tt.kept)

			taskMin := 0
			var habitIDs []string
			for _, it := range items {
				switch it.Source.(type) {
				case domain.TaskRef:
					taskMin = it.DurationMin
				case domain.HabitRef:
					habitIDs = append(habitIDs, it.ID)
				}
			}
			assert.Equal(t, tt.wantTaskMin, taskMin)
			assert.Equal(t, tt.wantHabitIDs, habitIDs)
		})
	}
}
