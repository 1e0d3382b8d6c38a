package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteGoalRepo(db)
	ctx := context.Background()

	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	g := testutil.NewTestGoal("Run a marathon",
		testutil.WithGoalPriority(domain.PriorityHigh),
		testutil.WithGoalDueDate(due),
	)
	g.WeightBoost = 12.5
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Name, got.Name)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, domain.GoalActive, got.Status)
	assert.Equal(t, 12.5, got.WeightBoost)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.True(t, g.CreatedAt.Equal(got.CreatedAt))
}

func TestGoalRepo_DuplicateAndNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteGoalRepo(db)
	ctx := context.Background()

	g := testutil.NewTestGoal("Learn Go")
	require.NoError(t, repo.Create(ctx, g))
	assert.ErrorIs(t, repo.Create(ctx, g), domain.ErrDuplicate)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ghost := testutil.NewTestGoal("ghost")
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrNotFound)
}

func TestGoalRepo_UpdateAndDeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	goals := NewSQLiteGoalRepo(db)
	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	g := testutil.NewTestGoal("Ship app")
	require.NoError(t, goals.Create(ctx, g))
	p := testutil.NewTestProject(g.ID, "Backend")
	require.NoError(t, projects.Create(ctx, p))
	require.NoError(t, tasks.Create(ctx, testutil.NewTestTask(p.ID, "Schema")))

	g.Status = domain.GoalCompleted
	g.Priority = domain.PriorityCritical
	require.NoError(t, goals.Update(ctx, g))
	got, err := goals.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, got.Status)
	assert.Equal(t, domain.PriorityCritical, got.Priority)

	require.NoError(t, goals.Delete(ctx, g.ID))
	all, err := tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "tasks cascade with their goal")
}

func TestProjectRepo_RoundTripAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	goals := NewSQLiteGoalRepo(db)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	g := testutil.NewTestGoal("Write book")
	require.NoError(t, goals.Create(ctx, g))

	p := testutil.NewTestProject(g.ID, "Draft",
		testutil.WithProjectPriority(domain.PriorityUltraCritical),
		testutil.WithProjectStage(domain.StageRefine),
		testutil.WithProjectDuration(90),
		testutil.WithProjectEnergy(domain.EnergyHigh),
	)
	p.SkillIDs = []string{"writing", "editing"}
	p.Location = "home"
	require.NoError(t, repo.Create(ctx, p))

	other := testutil.NewTestProject(g.ID, "Cover")
	require.NoError(t, repo.Create(ctx, other))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityUltraCritical, got.Priority)
	assert.Equal(t, domain.StageRefine, got.Stage)
	assert.Equal(t, 90, got.DurationMin)
	assert.Equal(t, domain.EnergyHigh, got.Energy)
	assert.Equal(t, []string{"writing", "editing"}, got.SkillIDs)
	assert.Equal(t, "home", got.Location)
	assert.Nil(t, got.CompletedAt)

	byGoal, err := repo.ListByGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, byGoal, 2)

	done := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got.CompletedAt = &done
	got.Progress = 100
	require.NoError(t, repo.Update(ctx, got))
	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, done.Equal(*again.CompletedAt))
	assert.True(t, again.IsDone())
}

func TestProjectRepo_RequiresGoal(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	err := repo.Create(context.Background(), testutil.NewTestProject("no-such-goal", "Orphan"))
	assert.Error(t, err, "foreign key should reject orphan projects")
}
