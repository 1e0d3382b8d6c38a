package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, ctx context.Context, db *sql.DB) *domain.Project {
	t.Helper()
	g := testutil.NewTestGoal("goal")
	require.NoError(t, NewSQLiteGoalRepo(db).Create(ctx, g))
	p := testutil.NewTestProject(g.ID, "project")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, p))
	return p
}

func TestTaskRepo_CreateListComplete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := seedProject(t, ctx, db)
	repo := NewSQLiteTaskRepo(db)

	skill := "sql"
	a := testutil.NewTestTask(p.ID, "A",
		testutil.WithTaskStage(domain.TaskPerfect),
		testutil.WithTaskPriority(domain.PriorityHigh),
		testutil.WithTaskDuration(45),
	)
	a.SkillID = &skill
	b := testutil.NewTestTask(p.ID, "B")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPerfect, got.Stage)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, 45, got.DurationMin)
	require.NotNil(t, got.SkillID)
	assert.Equal(t, "sql", *got.SkillID)

	gotB, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, gotB.SkillID)

	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Complete(ctx, a.ID, at))
	assert.ErrorIs(t, repo.Complete(ctx, "missing", at), ErrNotFound)

	list, err := repo.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	var completed int
	for _, tk := range list {
		if tk.CompletedAt != nil {
			completed++
			assert.True(t, at.Equal(*tk.CompletedAt))
		}
	}
	assert.Equal(t, 1, completed)
}

func TestHabitRepo_ActiveFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteHabitRepo(db)
	ctx := context.Background()

	days, err := domain.ParseWeekdays("mon,wed,fri")
	require.NoError(t, err)
	h := testutil.NewTestHabit("Stretch", testutil.WithHabitDays(days), testutil.WithHabitDuration(20))
	off := testutil.NewTestHabit("Journal")
	require.NoError(t, repo.Create(ctx, h))
	require.NoError(t, repo.Create(ctx, off))
	require.NoError(t, repo.SetActive(ctx, off.ID, false))

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Stretch", active[0].Name)
	assert.Equal(t, days, active[0].Days)
	assert.Equal(t, 20, active[0].DurationMin)
	assert.True(t, active[0].Active)

	assert.ErrorIs(t, repo.SetActive(ctx, "missing", true), ErrNotFound)
}
