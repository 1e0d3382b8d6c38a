package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"goals", "projects", "tasks", "habits",
		"day_types", "time_blocks", "day_type_assignments",
		"schedule_instances", "scheduler_profile",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_goal",
		"idx_tasks_project",
		"idx_time_blocks_day_type",
		"idx_instances_start",
		"idx_instances_source",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite keeps the "memory" journal mode; WAL applies to files.
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestMigrate_SeedsDefaultProfile(t *testing.T) {
	db := openTestDB(t)

	var id, tz, sleep string
	err := db.QueryRow(`SELECT id, timezone, sleep_start_local FROM scheduler_profile WHERE id = 'default'`).
		Scan(&id, &tz, &sleep)
	require.NoError(t, err)
	assert.Equal(t, "default", id)
	assert.Empty(t, tz)
	assert.Empty(t, sleep)
}

func TestMigrate_CheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO day_types (id, name, created_at) VALUES ('d1', 'workday', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
	}{
		{
			"block type",
			`INSERT INTO time_blocks (id, day_type_id, label, start_local, end_local, block_type, created_at)
			 VALUES ('b1', 'd1', 'Focus', '09:00', '10:00', 'NAP', '2026-01-01T00:00:00Z')`,
		},
		{
			"goal status",
			`INSERT INTO goals (id, name, status, created_at, updated_at)
			 VALUES ('g1', 'Ship', 'MAYBE', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		},
		{
			"instance source kind",
			`INSERT INTO schedule_instances (id, run_id, source_kind, source_id, start_utc, end_utc, duration_min, created_at)
			 VALUES ('i1', 'r1', 'goal', 'g1', '2026-01-01T09:00:00Z', '2026-01-01T10:00:00Z', 60, '2026-01-01T00:00:00Z')`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.query)
			assert.Error(t, err, "CHECK constraint should reject the row")
		})
	}
}

func TestMigrate_DayTypeNameUnique(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO day_types (id, name, created_at) VALUES ('d1', 'workday', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO day_types (id, name, created_at) VALUES ('d2', 'workday', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_CascadeDeletesBlocksAndAssignments(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO day_types (id, name, created_at) VALUES ('d1', 'workday', '2026-01-01T00:00:00Z')`,
		`INSERT INTO time_blocks (id, day_type_id, label, start_local, end_local, created_at)
		 VALUES ('b1', 'd1', 'Focus', '09:00', '10:00', '2026-01-01T00:00:00Z')`,
		`INSERT INTO day_type_assignments (date, day_type_id) VALUES ('2026-01-05', 'd1')`,
		`DELETE FROM day_types WHERE id = 'd1'`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	var blocks, assignments int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM time_blocks`).Scan(&blocks))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM day_type_assignments`).Scan(&assignments))
	assert.Zero(t, blocks)
	assert.Zero(t, assignments)
}
