package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteInstanceRepo implements InstanceRepo. Times are stored as UTC
// RFC3339 so string comparison orders them.
type SQLiteInstanceRepo struct {
	db db.DBTX
}

func NewSQLiteInstanceRepo(conn db.DBTX) *SQLiteInstanceRepo {
	return &SQLiteInstanceRepo{db: conn}
}

const instanceColumns = `id, run_id, source_kind, source_id, label, block_id, start_utc, end_utc,
	duration_min, energy, completed_at, created_at`

func (r *SQLiteInstanceRepo) Create(ctx context.Context, inst *domain.ScheduleInstance) error {
	if inst.Source == nil {
		return fmt.Errorf("instance %s has no source: %w", inst.ID, domain.ErrInvalidInput)
	}
	query := `INSERT INTO schedule_instances (` + instanceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		inst.ID,
		inst.RunID,
		string(inst.Source.Kind()),
		inst.Source.SourceID(),
		inst.Label,
		inst.BlockID,
		formatTime(inst.StartUTC),
		formatTime(inst.EndUTC),
		inst.DurationMin,
		string(inst.Energy),
		nullableTimeToString(inst.CompletedAt, timeLayout),
		formatTime(inst.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("instance %s: %w", inst.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("inserting instance: %w", err)
	}
	return nil
}

func (r *SQLiteInstanceRepo) GetByID(ctx context.Context, id string) (*domain.ScheduleInstance, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+instanceColumns+` FROM schedule_instances WHERE id = ?`, id)
	inst, err := scanInstance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("instance: %w", ErrNotFound)
		}
		return nil, err
	}
	return inst, nil
}

// ListRange returns instances intersecting [from, to), ordered by start.
func (r *SQLiteInstanceRepo) ListRange(ctx context.Context, from, to time.Time) ([]domain.ScheduleInstance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+instanceColumns+` FROM schedule_instances
		 WHERE start_utc < ? AND end_utc > ? ORDER BY start_utc, id`,
		formatTime(to), formatTime(from))
	if err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	defer rows.Close()

	var out []domain.ScheduleInstance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating instances: %w", err)
	}
	return out, nil
}

// DeleteOpenInRange removes uncompleted instances starting inside [from, to).
func (r *SQLiteInstanceRepo) DeleteOpenInRange(ctx context.Context, from, to time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM schedule_instances
		 WHERE completed_at IS NULL AND start_utc >= ? AND start_utc < ?`,
		formatTime(from), formatTime(to))
	if err != nil {
		return 0, fmt.Errorf("deleting open instances: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("instances rows affected: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteInstanceRepo) Complete(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_instances SET completed_at = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("completing instance: %w", err)
	}
	return requireAffected(res, "instance")
}

func scanInstance(row rowScanner) (*domain.ScheduleInstance, error) {
	var inst domain.ScheduleInstance
	var kind, sourceID, start, end, energy, createdAt string
	var completedAt sql.NullString
	err := row.Scan(&inst.ID, &inst.RunID, &kind, &sourceID, &inst.Label, &inst.BlockID, &start, &end,
		&inst.DurationMin, &energy, &completedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning instance: %w", err)
	}
	src, err := domain.NewItemSource(domain.ItemKindCode(kind), sourceID)
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", inst.ID, err)
	}
	inst.Source = src
	inst.StartUTC = parseTime(start)
	inst.EndUTC = parseTime(end)
	inst.Energy = domain.ParseEnergy(energy)
	inst.CompletedAt = parseNullableTime(completedAt, timeLayout)
	inst.CreatedAt = parseTime(createdAt)
	return &inst, nil
}
