package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, goal_id, name, priority, stage, due_date, duration_min, progress,
	energy, location, skill_ids, completed_at, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.GoalID,
		p.Name,
		string(p.Priority),
		string(p.Stage),
		nullableTimeToString(p.DueDate, dateLayout),
		p.DurationMin,
		p.Progress,
		string(p.Energy),
		p.Location,
		joinIDs(p.SkillIDs),
		nullableTimeToString(p.CompletedAt, timeLayout),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project %s: %w", p.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, id`)
}

func (r *SQLiteProjectRepo) ListByGoal(ctx context.Context, goalID string) ([]*domain.Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE goal_id = ? ORDER BY created_at, id`, goalID)
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, priority = ?, stage = ?, due_date = ?, duration_min = ?,
		progress = ?, energy = ?, location = ?, skill_ids = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		string(p.Priority),
		string(p.Stage),
		nullableTimeToString(p.DueDate, dateLayout),
		p.DurationMin,
		p.Progress,
		string(p.Energy),
		p.Location,
		joinIDs(p.SkillIDs),
		nullableTimeToString(p.CompletedAt, timeLayout),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project")
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var priority, stage, energy, skillIDs, createdAt, updatedAt string
	var dueDate, completedAt sql.NullString
	err := row.Scan(&p.ID, &p.GoalID, &p.Name, &priority, &stage, &dueDate, &p.DurationMin, &p.Progress,
		&energy, &p.Location, &skillIDs, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.Priority = domain.ParsePriority(priority)
	p.Stage = domain.ParseProjectStage(stage)
	p.Energy = domain.ParseEnergy(energy)
	p.SkillIDs = splitIDs(skillIDs)
	p.DueDate = parseNullableTime(dueDate, dateLayout)
	p.CompletedAt = parseNullableTime(completedAt, timeLayout)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}
