package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteHabitRepo implements HabitRepo using a SQLite database.
type SQLiteHabitRepo struct {
	db db.DBTX
}

func NewSQLiteHabitRepo(conn db.DBTX) *SQLiteHabitRepo {
	return &SQLiteHabitRepo{db: conn}
}

const habitColumns = `id, name, priority, duration_min, energy, location, days, active, created_at`

func (r *SQLiteHabitRepo) Create(ctx context.Context, h *domain.Habit) error {
	query := `INSERT INTO habits (` + habitColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Name,
		string(h.Priority),
		h.DurationMin,
		string(h.Energy),
		h.Location,
		int(h.Days),
		boolToInt(h.Active),
		formatTime(h.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("habit %s: %w", h.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("inserting habit: %w", err)
	}
	return nil
}

func (r *SQLiteHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("habit: %w", ErrNotFound)
		}
		return nil, err
	}
	return h, nil
}

func (r *SQLiteHabitRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits ORDER BY created_at, id`
	if activeOnly {
		query = `SELECT ` + habitColumns + ` FROM habits WHERE active = 1 ORDER BY created_at, id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating habits: %w", err)
	}
	return habits, nil
}

func (r *SQLiteHabitRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE habits SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	return requireAffected(res, "habit")
}

func scanHabit(row rowScanner) (*domain.Habit, error) {
	var h domain.Habit
	var priority, energy, createdAt string
	var days, active int
	err := row.Scan(&h.ID, &h.Name, &priority, &h.DurationMin, &energy, &h.Location, &days, &active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning habit: %w", err)
	}
	h.Priority = domain.ParsePriority(priority)
	h.Energy = domain.ParseEnergy(energy)
	h.Days = domain.Weekdays(days)
	h.Active = intToBool(active)
	h.CreatedAt = parseTime(createdAt)
	return &h, nil
}
