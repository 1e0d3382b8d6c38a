package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/config"
	"github.com/alexanderramin/tempo/internal/importer"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/testutil"
)

const weekSnapshot = `
profile:
  timezone: UTC
  default_day_type: Workday
goals:
  - name: Learn Go
    priority: HIGH
    projects:
      - name: Book
        stage: BUILD
        tasks:
          - name: Chapter 1
            stage: PRODUCE
            duration_min: 45
            energy: MEDIUM
          - name: Chapter 0
            completed: true
      - name: Side project
        duration_min: 90
habits:
  - name: Walk
    duration_min: 20
    days: mon,wed,fri
day_types:
  - name: Workday
    blocks:
      - label: Deep Work
        start: "09:00"
        end: "12:00"
        energy: HIGH
      - label: Admin
        start: "14:00"
        end: "16:00"
        block_type: PRACTICE
        energy: MEDIUM
  - name: Rest
assignments:
  - date: "2026-03-04"
    day_type: rest
`

func decodeWeek(t *testing.T) *importer.Snapshot {
	t.Helper()
	snap, err := importer.DecodeSnapshot(strings.NewReader(weekSnapshot))
	require.NoError(t, err)
	return snap
}

func TestImportService_ImportThenRun(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	uow := testutil.NewTestUoW(database)
	ctx := context.Background()

	res, err := NewImportService(uow).ImportSnapshot(ctx, decodeWeek(t))
	require.NoError(t, err)
	assert.Equal(t, app.ImportResult{
		Goals: 1, Projects: 2, Tasks: 2, Habits: 1, DayTypes: 2, Blocks: 2, Assignments: 1,
	}, *res)

	profile, err := repos.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Workday", profile.DefaultDayType)

	resp, err := NewSchedulerService(repos, uow, config.Default("").Scheduler).Run(ctx, runAt(monday, 3))
	require.NoError(t, err)

	// Chapter 1, the side project and Walk on Monday; Wednesday is a rest day.
	assert.Equal(t, 3, resp.PlacedCount)
	assert.Equal(t, 1, resp.UnplacedCount)
	kinds := map[string]int{}
	for _, inst := range resp.Instances {
		kinds[inst.Kind]++
		assert.Equal(t, "2026-03-02", inst.Start.Format("2006-01-02"))
	}
	assert.Equal(t, map[string]int{"task": 1, "project": 1, "habit": 1}, kinds)
}

func TestImportService_ImportFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "week.yaml")
	require.NoError(t, os.WriteFile(path, []byte(weekSnapshot), 0o644))

	res, err := NewImportService(testutil.NewTestUoW(database)).ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.DayTypes)

	_, err = NewImportService(testutil.NewTestUoW(database)).ImportFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	requireCode(t, err, app.ErrInvalidRequest)
}

func TestImportService_ValidationWritesNothing(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	ctx := context.Background()

	snap := decodeWeek(t)
	snap.Goals[0].Priority = "URGENT"
	snap.Assignments[0].DayType = "Holiday"

	_, err := NewImportService(testutil.NewTestUoW(database)).ImportSnapshot(ctx, snap)
	requireCode(t, err, app.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "(2 errors)")

	goals, err := repos.Goals.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestImportService_RollbackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	ctx := context.Background()

	// Day types and blocks are written first; fail while inserting goals.
	failing := &testutil.FailOnNthExecUoW{DB: database, FailOn: 7, Err: fmt.Errorf("injected goal failure")}
	_, err := NewImportService(failing).ImportSnapshot(ctx, decodeWeek(t))
	requireCode(t, err, app.ErrPersistFailed)

	dayTypes, err := repos.DayTypes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, dayTypes)
	goals, err := repos.Goals.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
