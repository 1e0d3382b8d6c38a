package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteDayTypeRepo stores day types, their raw time blocks and the
// date-to-day-type assignments. Segments are never stored; the composer
// derives them on read.
type SQLiteDayTypeRepo struct {
	db db.DBTX
}

func NewSQLiteDayTypeRepo(conn db.DBTX) *SQLiteDayTypeRepo {
	return &SQLiteDayTypeRepo{db: conn}
}

const blockColumns = `id, day_type_id, label, start_local, end_local, block_type, energy, location, days, created_at`

func (r *SQLiteDayTypeRepo) Create(ctx context.Context, d *domain.DayType) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO day_types (id, name, created_at) VALUES (?, ?, ?)`,
		d.ID, d.Name, formatTime(d.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("day type %q: %w", d.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("inserting day type: %w", err)
	}
	return nil
}

func (r *SQLiteDayTypeRepo) GetByID(ctx context.Context, id string) (*domain.DayType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM day_types WHERE id = ?`, id)
	return r.loadOne(ctx, row, id)
}

// GetByName matches names case-insensitively.
func (r *SQLiteDayTypeRepo) GetByName(ctx context.Context, name string) (*domain.DayType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM day_types WHERE LOWER(name) = LOWER(?)`, name)
	return r.loadOne(ctx, row, name)
}

func (r *SQLiteDayTypeRepo) List(ctx context.Context) ([]*domain.DayType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM day_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing day types: %w", err)
	}
	var out []*domain.DayType
	for rows.Next() {
		d, err := scanDayType(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating day types: %w", err)
	}
	// Close before issuing block queries; a single-connection pool would
	// otherwise deadlock.
	rows.Close()

	for _, d := range out {
		if d.Blocks, err = r.ListBlocks(ctx, d.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteDayTypeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM day_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting day type: %w", err)
	}
	return requireAffected(res, "day type")
}

func (r *SQLiteDayTypeRepo) AddBlock(ctx context.Context, b *domain.TimeBlock) error {
	query := `INSERT INTO time_blocks (` + blockColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.DayTypeID,
		b.Label,
		b.StartLocal,
		b.EndLocal,
		string(b.BlockType),
		string(b.Energy),
		b.Location,
		int(b.Days),
		formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting time block: %w", err)
	}
	return nil
}

func (r *SQLiteDayTypeRepo) ListBlocks(ctx context.Context, dayTypeID string) ([]domain.TimeBlock, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+blockColumns+` FROM time_blocks WHERE day_type_id = ? ORDER BY start_local, created_at, id`, dayTypeID)
	if err != nil {
		return nil, fmt.Errorf("listing time blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.TimeBlock
	for rows.Next() {
		var b domain.TimeBlock
		var blockType, energy, createdAt string
		var days int
		if err := rows.Scan(&b.ID, &b.DayTypeID, &b.Label, &b.StartLocal, &b.EndLocal, &blockType,
			&energy, &b.Location, &days, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning time block: %w", err)
		}
		b.BlockType, _ = domain.ParseBlockType(blockType)
		b.Energy = domain.ParseEnergy(energy)
		b.Days = domain.Weekdays(days)
		b.CreatedAt = parseTime(createdAt)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating time blocks: %w", err)
	}
	return blocks, nil
}

// SetAssignment binds date (YYYY-MM-DD) to a day type, replacing any earlier binding.
func (r *SQLiteDayTypeRepo) SetAssignment(ctx context.Context, date, dayTypeID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO day_type_assignments (date, day_type_id) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET day_type_id = excluded.day_type_id`, date, dayTypeID)
	if err != nil {
		return fmt.Errorf("assigning day type: %w", err)
	}
	return nil
}

// ListAssignments returns bindings with from <= date <= to. Empty bounds are open.
func (r *SQLiteDayTypeRepo) ListAssignments(ctx context.Context, from, to string) ([]domain.DayTypeAssignment, error) {
	if to == "" {
		to = "9999-12-31"
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.date, a.day_type_id, d.name
		 FROM day_type_assignments a JOIN day_types d ON d.id = a.day_type_id
		 WHERE a.date >= ? AND a.date <= ? ORDER BY a.date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.DayTypeAssignment
	for rows.Next() {
		var a domain.DayTypeAssignment
		if err := rows.Scan(&a.Date, &a.DayTypeID, &a.DayTypeName); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return out, nil
}

func (r *SQLiteDayTypeRepo) loadOne(ctx context.Context, row *sql.Row, key string) (*domain.DayType, error) {
	d, err := scanDayType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("day type %q: %w", key, ErrNotFound)
		}
		return nil, err
	}
	if d.Blocks, err = r.ListBlocks(ctx, d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func scanDayType(row rowScanner) (*domain.DayType, error) {
	var d domain.DayType
	var createdAt string
	if err := row.Scan(&d.ID, &d.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning day type: %w", err)
	}
	d.CreatedAt = parseTime(createdAt)
	return &d, nil
}
