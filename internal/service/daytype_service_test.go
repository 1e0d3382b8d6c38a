package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/ops"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/scheduler"
	"github.com/alexanderramin/tempo/internal/testutil"
)

func newDayTypeService(t *testing.T) (*DayTypeService, repository.Repos) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	return NewDayTypeService(repos.DayTypes, repos.Profile, testutil.NewTestUoW(database), 15), repos
}

func requireCode(t *testing.T, err error, code app.SchedulerErrorCode) {
	t.Helper()
	require.Error(t, err)
	var se *app.SchedulerError
	require.True(t, errors.As(err, &se), "expected SchedulerError, got %T: %v", err, err)
	assert.Equal(t, code, se.Code, se.Error())
}

func TestDayTypeService_CreateAndCompose(t *testing.T) {
	svc, _ := newDayTypeService(t)
	ctx := context.Background()

	created, err := svc.CreateDayType(ctx, "  Workday ")
	require.NoError(t, err)
	assert.Equal(t, "Workday", created.Name)
	require.Len(t, created.Segments, 1, "an empty day is a single filler")
	assert.Equal(t, scheduler.LabelFlex, created.Segments[0].Label)

	for _, b := range []app.AddTimeBlockRequest{
		{DayTypeName: "workday", Label: "Deep Work", StartLocal: "09:00", EndLocal: "12:00", Energy: "high"},
		{DayTypeName: "Workday", Label: "Lunch", StartLocal: "12:00", EndLocal: "13:00", BlockType: "break"},
		{DayTypeName: "Workday", Label: "Sleep", StartLocal: "23:00", EndLocal: "07:00", BlockType: "BREAK", Energy: "NO"},
	} {
		_, err := svc.AddTimeBlock(ctx, b)
		require.NoError(t, err, b.Label)
	}

	view, err := svc.Compose(ctx, "WORKDAY")
	require.NoError(t, err)
	assert.Len(t, view.Blocks, 3)
	require.NoError(t, scheduler.VerifyPartition(view.Segments))

	labels := make([]string, len(view.Segments))
	for i, s := range view.Segments {
		labels[i] = s.Label
	}
	assert.Equal(t, []string{"Sleep", "FLEX", "Deep Work", "Lunch", "FLEX", "Sleep"}, labels)
	assert.Equal(t, domain.EnergyHigh, view.Segments[2].Energy)
	assert.Equal(t, domain.BlockBreak, view.Segments[3].BlockType)
}

func TestDayTypeService_AddTimeBlockDefaultsToFocus(t *testing.T) {
	svc, repos := newDayTypeService(t)
	ctx := context.Background()
	_, err := svc.CreateDayType(ctx, "Study")
	require.NoError(t, err)

	v, err := svc.AddTimeBlock(ctx, app.AddTimeBlockRequest{
		DayTypeName: "Study", Label: "Reading", StartLocal: "08:00", EndLocal: "09:30", Days: "weekdays",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.BlockFocus), v.BlockType)
	assert.Equal(t, string(domain.EnergyNo), v.Energy)
	assert.Equal(t, "mon,tue,wed,thu,fri", v.Days)

	d, err := repos.DayTypes.GetByName(ctx, "study")
	require.NoError(t, err)
	require.Len(t, d.Blocks, 1)
	assert.Equal(t, v.ID, d.Blocks[0].ID)
}

func TestDayTypeService_Errors(t *testing.T) {
	svc, _ := newDayTypeService(t)
	ctx := context.Background()
	_, err := svc.CreateDayType(ctx, "Workday")
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		code app.SchedulerErrorCode
	}{
		{"empty name", func() error { _, err := svc.CreateDayType(ctx, " "); return err }, app.ErrInvalidRequest},
		{"duplicate name", func() error { _, err := svc.CreateDayType(ctx, "WORKDAY"); return err }, app.ErrConflict},
		{"unknown day type", func() error {
			_, err := svc.AddTimeBlock(ctx, app.AddTimeBlockRequest{DayTypeName: "Nope", Label: "x", StartLocal: "09:00", EndLocal: "10:00"})
			return err
		}, app.ErrNotFound},
		{"bad clock", func() error {
			_, err := svc.AddTimeBlock(ctx, app.AddTimeBlockRequest{DayTypeName: "Workday", Label: "x", StartLocal: "9am", EndLocal: "10:00"})
			return err
		}, app.ErrInvalidRequest},
		{"zero length", func() error {
			_, err := svc.AddTimeBlock(ctx, app.AddTimeBlockRequest{DayTypeName: "Workday", Label: "x", StartLocal: "10:00", EndLocal: "10:00"})
			return err
		}, app.ErrInvalidRequest},
		{"bad date", func() error { return svc.AssignDate(ctx, "03/02/2026", "Workday") }, app.ErrInvalidRequest},
		{"assign unknown", func() error { return svc.AssignDate(ctx, "2026-03-02", "Nope") }, app.ErrNotFound},
		{"compose unknown", func() error { _, err := svc.Compose(ctx, "Nope"); return err }, app.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, tt.run(), tt.code)
		})
	}
}

func TestDayTypeService_AssignAndList(t *testing.T) {
	svc, repos := newDayTypeService(t)
	ctx := context.Background()
	for _, name := range []string{"Workday", "Rest"} {
		_, err := svc.CreateDayType(ctx, name)
		require.NoError(t, err)
	}
	require.NoError(t, svc.AssignDate(ctx, "2026-03-07", "rest"))
	require.NoError(t, svc.AssignDate(ctx, "2026-03-07", "Workday"), "reassigning a date replaces it")

	assignments, err := repos.DayTypes.ListAssignments(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "Workday", assignments[0].DayTypeName)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Rest", list[0].Name)
	assert.Equal(t, "Workday", list[1].Name)
}

func TestDayTypeService_SleepStartFromProfile(t *testing.T) {
	svc, repos := newDayTypeService(t)
	ctx := context.Background()
	require.NoError(t, repos.Profile.Upsert(ctx, &domain.SchedulerProfile{ID: "default", SleepStartLocal: "06:00"}))
	_, err := svc.CreateDayType(ctx, "Late")
	require.NoError(t, err)
	_, err = svc.AddTimeBlock(ctx, app.AddTimeBlockRequest{DayTypeName: "Late", Label: "Work", StartLocal: "10:00", EndLocal: "18:00"})
	require.NoError(t, err)

	view, err := svc.Compose(ctx, "Late")
	require.NoError(t, err)
	assert.Equal(t, scheduler.LabelWindDown, view.Segments[0].Label)
	assert.Equal(t, scheduler.LabelFlex, view.Segments[len(view.Segments)-1].Label)
}

func TestOpsService_ApplyAndExportRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	svc := NewOpsService(repos.DayTypes, testutil.NewTestUoW(database))
	ctx := context.Background()

	batch, err := ops.Decode(strings.NewReader(`
ops:
  - type: create_day_type
    name: Workday
  - type: CREATE_DAY_TYPE_TIME_BLOCK
    day_type_name: workday
    label: Deep Work
    start_local: "09:00"
    end_local: "12:00"
    block_type: FOCUS
    energy: HIGH
  - type: SET_DAY_TYPE_ASSIGNMENT
    day_type_name: Workday
    date: "2026-03-02"
`))
	require.NoError(t, err)

	res, err := svc.Apply(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Applied)
	assert.Equal(t, []string{"Workday"}, res.DayTypesCreated)
	assert.Equal(t, 1, res.BlocksCreated)
	assert.Equal(t, 1, res.AssignmentsSet)
	assert.Equal(t, []string{"Workday"}, res.DayTypesAffected)

	exported, err := svc.Export(ctx, "Workday")
	require.NoError(t, err)
	require.Len(t, exported, 3)
	assert.Equal(t, ops.OpCreateDayType, exported[0].Type)
	assert.Equal(t, "Deep Work", exported[1].Label)
	assert.Equal(t, "HIGH", exported[1].Energy)
	assert.Equal(t, "2026-03-02", exported[2].Date)

	all, err := svc.Export(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, exported, all)
}

func TestOpsService_ApplyIsAtomic(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	svc := NewOpsService(repos.DayTypes, testutil.NewTestUoW(database))
	ctx := context.Background()

	_, err := svc.Apply(ctx, []ops.Op{
		{Type: ops.OpCreateDayType, Name: "Workday"},
		{Type: ops.OpSetDayTypeAssignment, DayTypeName: "Missing", Date: "2026-03-02"},
	})
	requireCode(t, err, app.ErrNotFound)
	assert.Contains(t, err.Error(), "ops[1]")

	list, err := repos.DayTypes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "the created day type must roll back")
}

func TestOpsService_ValidationCollectsAllErrors(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	svc := NewOpsService(repos.DayTypes, testutil.NewTestUoW(database))

	_, err := svc.Apply(context.Background(), []ops.Op{
		{Type: ops.OpCreateDayType},
		{Type: ops.OpSetDayTypeAssignment, DayTypeName: "x", Date: "tomorrow"},
	})
	requireCode(t, err, app.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "(2 errors)")
}

func TestOpsService_RollbackOnInjectedFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	// Exec #1 creates the day type, #2 inserts its block.
	svc := NewOpsService(repos.DayTypes, &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Err:    fmt.Errorf("injected block failure"),
	})

	_, err := svc.Apply(context.Background(), []ops.Op{
		{Type: ops.OpCreateDayType, Name: "Workday"},
		{Type: ops.OpCreateTimeBlock, DayTypeName: "Workday", Label: "Deep", StartLocal: "09:00", EndLocal: "10:00", BlockType: "FOCUS"},
	})
	requireCode(t, err, app.ErrPersistFailed)

	_, err = repos.DayTypes.GetByName(context.Background(), "Workday")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
