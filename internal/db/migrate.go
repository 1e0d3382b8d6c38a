package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS goals (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		priority     TEXT NOT NULL DEFAULT 'NO',
		due_date     TEXT,
		weight_boost REAL NOT NULL DEFAULT 0,
		status       TEXT NOT NULL DEFAULT 'ACTIVE'
		             CHECK(status IN ('ACTIVE','COMPLETED','INACTIVE','OVERDUE')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		goal_id      TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		priority     TEXT NOT NULL DEFAULT 'NO',
		stage        TEXT NOT NULL DEFAULT 'RESEARCH',
		due_date     TEXT,
		duration_min INTEGER NOT NULL DEFAULT 0,
		progress     INTEGER NOT NULL DEFAULT 0,
		energy       TEXT NOT NULL DEFAULT 'NO',
		location     TEXT NOT NULL DEFAULT '',
		skill_ids    TEXT NOT NULL DEFAULT '',
		completed_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_goal ON projects(goal_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		stage        TEXT NOT NULL DEFAULT 'PREPARE'
		             CHECK(stage IN ('PREPARE','PRODUCE','PERFECT')),
		priority     TEXT NOT NULL DEFAULT 'NO',
		skill_id     TEXT,
		duration_min INTEGER NOT NULL DEFAULT 0,
		energy       TEXT NOT NULL DEFAULT 'NO',
		location     TEXT NOT NULL DEFAULT '',
		completed_at TEXT,
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,

	`CREATE TABLE IF NOT EXISTS habits (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		priority     TEXT NOT NULL DEFAULT 'NO',
		duration_min INTEGER NOT NULL,
		energy       TEXT NOT NULL DEFAULT 'NO',
		location     TEXT NOT NULL DEFAULT '',
		days         INTEGER NOT NULL DEFAULT 0,
		active       INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS day_types (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE COLLATE NOCASE,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS time_blocks (
		id          TEXT PRIMARY KEY,
		day_type_id TEXT NOT NULL REFERENCES day_types(id) ON DELETE CASCADE,
		label       TEXT NOT NULL,
		start_local TEXT NOT NULL,
		end_local   TEXT NOT NULL,
		block_type  TEXT NOT NULL DEFAULT 'FOCUS'
		            CHECK(block_type IN ('FOCUS','PRACTICE','BREAK')),
		energy      TEXT NOT NULL DEFAULT 'NO',
		location    TEXT NOT NULL DEFAULT '',
		days        INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_blocks_day_type ON time_blocks(day_type_id)`,

	`CREATE TABLE IF NOT EXISTS day_type_assignments (
		date        TEXT PRIMARY KEY,
		day_type_id TEXT NOT NULL REFERENCES day_types(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_instances (
		id           TEXT PRIMARY KEY,
		run_id       TEXT NOT NULL,
		source_kind  TEXT NOT NULL CHECK(source_kind IN ('project','task','habit')),
		source_id    TEXT NOT NULL,
		label        TEXT NOT NULL DEFAULT '',
		block_id     TEXT NOT NULL DEFAULT '',
		start_utc    TEXT NOT NULL,
		end_utc      TEXT NOT NULL,
		duration_min INTEGER NOT NULL,
		energy       TEXT NOT NULL DEFAULT 'NO',
		completed_at TEXT,
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_instances_start ON schedule_instances(start_utc)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_source ON schedule_instances(source_kind, source_id)`,

	`CREATE TABLE IF NOT EXISTS scheduler_profile (
		id               TEXT PRIMARY KEY DEFAULT 'default',
		timezone         TEXT NOT NULL DEFAULT '',
		default_day_type TEXT NOT NULL DEFAULT ''
	)`,

	// Seed default profile
	`INSERT OR IGNORE INTO scheduler_profile (id) VALUES ('default')`,

	// Explicit sleep boundary for WIND DOWN labelling
	`ALTER TABLE scheduler_profile ADD COLUMN sleep_start_local TEXT NOT NULL DEFAULT ''`,
}
