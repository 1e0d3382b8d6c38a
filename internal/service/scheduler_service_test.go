package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/scheduler"
	"github.com/alexanderramin/tempo/internal/testutil"
)

// monday is 07:00 UTC on a Monday, before the seeded work block.
var monday = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

type runFixture struct {
	db    *sql.DB
	repos repository.Repos
	cfg   config.SchedulerConfig
	svc   *SchedulerService
	work  *domain.DayType
}

// newRunFixture seeds a "Work" day type with one MEDIUM focus block from
// 09:00 to 12:00 and makes it the profile default.
func newRunFixture(t *testing.T) *runFixture {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	cfg := config.Default("").Scheduler

	work := testutil.NewTestDayType("Work")
	require.NoError(t, repos.DayTypes.Create(ctx, work))
	require.NoError(t, repos.DayTypes.AddBlock(ctx, testutil.NewTestBlock(work.ID, "Deep Work", "09:00", "12:00")))
	require.NoError(t, repos.Profile.Upsert(ctx, &domain.SchedulerProfile{ID: "default", DefaultDayType: "Work"}))

	return &runFixture{
		db:    database,
		repos: repos,
		cfg:   cfg,
		svc:   NewSchedulerService(repos, testutil.NewTestUoW(database), cfg),
		work:  work,
	}
}

func (f *runFixture) seedTasks(t *testing.T, tasks ...*domain.Task) *domain.Project {
	t.Helper()
	ctx := context.Background()
	goal := testutil.NewTestGoal("Ship it")
	require.NoError(t, f.repos.Goals.Create(ctx, goal))
	project := testutil.NewTestProject(goal.ID, "Launch")
	require.NoError(t, f.repos.Projects.Create(ctx, project))
	for _, task := range tasks {
		task.ProjectID = project.ID
		require.NoError(t, f.repos.Tasks.Create(ctx, task))
	}
	return project
}

func runAt(now time.Time, days int) app.RunSchedulerRequest {
	req := app.NewRunSchedulerRequest(days)
	req.Now = &now
	return req
}

func TestRun_PlacesTasksByWeightAndPersists(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()

	produce := testutil.NewTestTask("", "Write draft", testutil.WithTaskStage(domain.TaskProduce))
	prepare := testutil.NewTestTask("", "Collect notes")
	f.seedTasks(t, prepare, produce)

	resp, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, resp.PlacedCount)
	assert.Equal(t, 0, resp.UnplacedCount)
	assert.True(t, resp.Persisted)
	assert.Equal(t, "2026-03-02", resp.BaseDate)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Nil(t, resp.Debug, "debug payload only on request")

	require.Len(t, resp.Instances, 2)
	assert.Equal(t, produce.ID, resp.Instances[0].SourceID, "higher stage weight is placed first")
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), resp.Instances[0].Start)
	assert.Equal(t, prepare.ID, resp.Instances[1].SourceID)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), resp.Instances[1].Start)
	assert.Equal(t, "2026-03-02@09:00-12:00#Deep Work", resp.Instances[0].BlockID)

	stored, err := f.svc.ListInstances(ctx, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRun_RerunReplacesOpenInstances(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	f.seedTasks(t, testutil.NewTestTask("", "Only task"))

	first, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	second, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)

	require.Len(t, second.Instances, 1)
	assert.Equal(t, first.Instances[0].ID, second.Instances[0].ID, "same snapshot yields the same instance")
	assert.NotEqual(t, first.RunID, second.RunID)

	stored, err := f.repos.Instances.ListRange(ctx, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, second.RunID, stored[0].RunID)
}

func TestRun_DryRunDoesNotPersist(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	f.seedTasks(t, testutil.NewTestTask("", "Only task"))

	req := runAt(monday, 1)
	req.DryRun = true
	resp, err := f.svc.Run(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.PlacedCount)
	assert.False(t, resp.Persisted)

	stored, err := f.repos.Instances.ListRange(ctx, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRun_NegativeDaysIsInvalidRequest(t *testing.T) {
	f := newRunFixture(t)

	_, err := f.svc.Run(context.Background(), runAt(monday, -1))
	require.Error(t, err)
	var se *app.SchedulerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ErrInvalidRequest, se.Code)
}

func TestRun_DebugPayloadExplainsUnplacedItems(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	heavy := testutil.NewTestTask("", "Heavy lifting", testutil.WithTaskEnergy(domain.EnergyExtreme))
	f.seedTasks(t, heavy)

	req := runAt(monday, 2)
	req.Debug = true
	resp, err := f.svc.Run(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.PlacedCount)
	assert.Equal(t, 1, resp.UnplacedCount)
	require.NotNil(t, resp.DebugSummary)
	assert.Equal(t, scheduler.ReasonNoMatchingEnergy, resp.DebugSummary.TopReason)
	assert.Equal(t, 1, resp.DebugSummary.ItemsBuilt)
	assert.Equal(t, 2, resp.DebugSummary.WriteThroughDays)

	require.Len(t, resp.Failures, 1)
	assert.Equal(t, heavy.ID, resp.Failures[0].ItemID)
	assert.Equal(t, scheduler.ReasonNoMatchingEnergy, resp.Failures[0].Reason)

	require.NotNil(t, resp.Debug)
	assert.Empty(t, resp.Debug.Fatal)
	assert.Equal(t, "Launch / Heavy lifting", resp.Debug.Display[heavy.ID])
	assert.Equal(t, "Deep Work 2026-03-02 09:00-12:00", resp.Debug.Display["2026-03-02@09:00-12:00#Deep Work"])
	require.NotNil(t, resp.Debug.PlacementTrace)
	assert.Equal(t, 1, resp.Debug.PlacementTrace.QueuedCount)
}

func TestRun_ProjectWithoutTasksIsOneItem(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	goal := testutil.NewTestGoal("Health")
	require.NoError(t, f.repos.Goals.Create(ctx, goal))
	project := testutil.NewTestProject(goal.ID, "Research gyms")
	require.NoError(t, f.repos.Projects.Create(ctx, project))

	resp, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	require.Len(t, resp.Instances, 1)
	assert.Equal(t, string(domain.KindProject), resp.Instances[0].Kind)
	assert.Equal(t, f.cfg.DefaultProjectMinutes, resp.Instances[0].DurationMin)
}

func TestRun_InactiveGoalsAreSkipped(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	goal := testutil.NewTestGoal("Someday", testutil.WithGoalStatus(domain.GoalCompleted))
	require.NoError(t, f.repos.Goals.Create(ctx, goal))
	project := testutil.NewTestProject(goal.ID, "Old project")
	require.NoError(t, f.repos.Projects.Create(ctx, project))

	resp, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	assert.Empty(t, resp.Instances)
	assert.Equal(t, 0, resp.UnplacedCount)
}

func TestRun_HabitsArePinnedToMatchingDays(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	mondays := domain.Weekdays(0).With(time.Monday)
	require.NoError(t, f.repos.Habits.Create(ctx, testutil.NewTestHabit("Stretch", testutil.WithHabitDays(mondays))))
	require.NoError(t, f.repos.Habits.Create(ctx, testutil.NewTestHabit("Journal")))

	resp, err := f.svc.Run(ctx, runAt(monday, 7))
	require.NoError(t, err)

	perLabel := map[string]int{}
	for _, inst := range resp.Instances {
		perLabel[inst.Label]++
		assert.Equal(t, string(domain.KindHabit), inst.Kind)
	}
	assert.Equal(t, 1, perLabel["Stretch"])
	assert.Equal(t, 7, perLabel["Journal"])
}

func TestRun_AssignmentOverridesDefaultDayType(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	off := testutil.NewTestDayType("Off")
	require.NoError(t, f.repos.DayTypes.Create(ctx, off))
	require.NoError(t, f.repos.DayTypes.SetAssignment(ctx, "2026-03-02", off.ID))
	require.NoError(t, f.repos.Habits.Create(ctx, testutil.NewTestHabit("Journal")))

	req := runAt(monday, 2)
	req.Debug = true
	resp, err := f.svc.Run(ctx, req)
	require.NoError(t, err)

	require.Len(t, resp.Instances, 1)
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), resp.Instances[0].Start)
	assert.Equal(t, 1, resp.UnplacedCount, "the day off has only filler")
	assert.Equal(t, scheduler.ReasonNoCandidateBlocks, resp.Failures[0].Reason)
}

func TestRun_ProfileTimezoneAnchorsBlocks(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Profile.Upsert(ctx, &domain.SchedulerProfile{
		ID:             "default",
		Timezone:       "America/New_York",
		DefaultDayType: "Work",
	}))
	f.seedTasks(t, testutil.NewTestTask("", "Only task"))

	resp, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", resp.Timezone)
	require.Len(t, resp.Instances, 1)
	// 09:00 EST is 14:00 UTC.
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), resp.Instances[0].Start)
}

func TestRun_CompletedInstancesStayAndBlockTheirSlot(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	first := testutil.NewTestTask("", "First", testutil.WithTaskStage(domain.TaskPerfect))
	second := testutil.NewTestTask("", "Second")
	f.seedTasks(t, first, second)

	resp, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	require.Len(t, resp.Instances, 2)
	require.Equal(t, first.ID, resp.Instances[0].SourceID)

	// Completing the 09:00 slot frees its task; the rerun must route around it.
	require.NoError(t, f.svc.Complete(ctx, resp.Instances[0].ID, monday))

	task, err := f.repos.Tasks.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)

	rerun, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	require.Len(t, rerun.Instances, 1)
	assert.Equal(t, second.ID, rerun.Instances[0].SourceID)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC), rerun.Instances[0].Start)

	stored, err := f.svc.ListInstances(ctx, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.NotNil(t, stored[0].CompletedAt)
}

func TestRun_KeptInstancesAreNotPlacedAgain(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		seed       func(t *testing.T, f *runFixture)
		complete   bool
		rerunAt    time.Time
		wantPlaced []time.Time
		wantStored int
	}{
		{
			name: "completed habit occurrence",
			seed: func(t *testing.T, f *runFixture) {
				require.NoError(t, f.repos.Habits.Create(context.Background(), testutil.NewTestHabit("Journal")))
			},
			complete:   true,
			rerunAt:    monday,
			wantStored: 1,
		},
		{
			name: "completed project without tasks",
			seed: func(t *testing.T, f *runFixture) {
				ctx := context.Background()
				goal := testutil.NewTestGoal("Ship it")
				require.NoError(t, f.repos.Goals.Create(ctx, goal))
				require.NoError(t, f.repos.Projects.Create(ctx, testutil.NewTestProject(goal.ID, "Tidy", testutil.WithProjectDuration(60))))
			},
			complete:   true,
			rerunAt:    monday,
			wantStored: 1,
		},
		{
			name: "task in progress",
			seed: func(t *testing.T, f *runFixture) {
				f.seedTasks(t, testutil.NewTestTask("", "Only task"))
			},
			rerunAt:    at(9, 10),
			wantStored: 1,
		},
		{
			name: "missed task is placed again",
			seed: func(t *testing.T, f *runFixture) {
				f.seedTasks(t, testutil.NewTestTask("", "Only task"))
			},
			rerunAt:    at(9, 45),
			wantPlaced: []time.Time{at(9, 45)},
			wantStored: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRunFixture(t)
			ctx := context.Background()
			tt.seed(t, f)

			first, err := f.svc.Run(ctx, runAt(monday, 1))
			require.NoError(t, err)
			require.Len(t, first.Instances, 1)
			assert.Equal(t, at(9, 0), first.Instances[0].Start)
			if tt.complete {
				require.NoError(t, f.svc.Complete(ctx, first.Instances[0].ID, at(9, 30)))
			}

			rerun, err := f.svc.Run(ctx, runAt(tt.rerunAt, 1))
			require.NoError(t, err)
			var placed []time.Time
			for _, inst := range rerun.Instances {
				placed = append(placed, inst.Start)
			}
			assert.Equal(t, tt.wantPlaced, placed)

			stored, err := f.svc.ListInstances(ctx, monday, monday.AddDate(0, 0, 1))
			require.NoError(t, err)
			require.Len(t, stored, tt.wantStored)
			assert.Equal(t, first.Instances[0].ID, stored[0].ID)
		})
	}
}

type brokenProfileRepo struct{ repository.ProfileRepo }

func (brokenProfileRepo) Get(context.Context) (*domain.SchedulerProfile, error) {
	return nil, errors.New("disk I/O error")
}

func TestRun_ProfileReadFailureIsReported(t *testing.T) {
	f := newRunFixture(t)
	repos := f.repos
	repos.Profile = brokenProfileRepo{}
	svc := NewSchedulerService(repos, testutil.NewTestUoW(f.db), f.cfg)

	_, err := svc.Run(context.Background(), runAt(monday, 1))
	var se *app.SchedulerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ErrSnapshotLoadFailed, se.Code)
	assert.Contains(t, err.Error(), "disk I/O error")

	_, err = svc.Weights(context.Background(), monday)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ErrSnapshotLoadFailed, se.Code)
}

func TestRun_MissingProfileFallsBackToDefaults(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	svc := NewSchedulerService(repos, testutil.NewTestUoW(database), config.Default("").Scheduler)

	resp, err := svc.Run(context.Background(), runAt(monday, 1))
	require.NoError(t, err)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Empty(t, resp.Instances)
}

func TestComplete_Errors(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	f.seedTasks(t, testutil.NewTestTask("", "Only task"))

	var se *app.SchedulerError
	err := f.svc.Complete(ctx, "missing", monday)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ErrNotFound, se.Code)

	resp, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	id := resp.Instances[0].ID
	require.NoError(t, f.svc.Complete(ctx, id, monday))

	err = f.svc.Complete(ctx, id, monday)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ErrConflict, se.Code)
}

func TestRun_PersistFailureRollsBack(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	f.seedTasks(t, testutil.NewTestTask("", "A"), testutil.NewTestTask("", "B"))

	before, err := f.svc.Run(ctx, runAt(monday, 1))
	require.NoError(t, err)
	require.Len(t, before.Instances, 2)

	// Exec #1 deletes the open instances, #2 inserts the first new one.
	failing := NewSchedulerService(f.repos, &testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected insert failure"),
	}, f.cfg)

	_, err = failing.Run(ctx, runAt(monday, 1))
	require.Error(t, err)
	var se *app.SchedulerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ErrPersistFailed, se.Code)
	assert.Contains(t, err.Error(), "injected insert failure")

	stored, err := f.repos.Instances.ListRange(ctx, monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, stored, 2, "delete must roll back with the failed insert")
	assert.Equal(t, before.RunID, stored[0].RunID)
}

func TestRun_PastWindowsAreNotUsed(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	f.seedTasks(t, testutil.NewTestTask("", "Late start"))

	resp, err := f.svc.Run(ctx, runAt(monday.Add(4*time.Hour+10*time.Minute), 1)) // 11:10
	require.NoError(t, err)
	require.Len(t, resp.Instances, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 11, 10, 0, 0, time.UTC), resp.Instances[0].Start)
}

func TestWeights_ReportsHierarchy(t *testing.T) {
	f := newRunFixture(t)
	ctx := context.Background()
	task := testutil.NewTestTask("", "Draft", testutil.WithTaskStage(domain.TaskPerfect), testutil.WithTaskPriority(domain.PriorityHigh))
	project := f.seedTasks(t, task)
	require.NoError(t, f.repos.Habits.Create(ctx, testutil.NewTestHabit("Walk")))

	rows, err := f.svc.Weights(ctx, monday)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	byID := map[string]app.WeightRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.InDelta(t, 330, byID[task.ID].Weight, 0.001)
	assert.InDelta(t, 200+330, byID[project.ID].Weight, 0.001)
	assert.Equal(t, project.GoalID, byID[project.ID].ParentID)
	assert.Equal(t, "goal", rows[0].Kind)
	assert.InDelta(t, 200+530, rows[0].Weight, 0.001)
}

func TestListInstances_RejectsEmptyRange(t *testing.T) {
	f := newRunFixture(t)
	_, err := f.svc.ListInstances(context.Background(), monday, monday)
	var se *app.SchedulerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, app.ErrInvalidRequest, se.Code)
}
