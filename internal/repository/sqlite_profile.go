package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/alexanderramin/tempo/internal/domain"
)

// SQLiteProfileRepo implements ProfileRepo over the single seeded row.
type SQLiteProfileRepo struct {
	db db.DBTX
}

func NewSQLiteProfileRepo(conn db.DBTX) *SQLiteProfileRepo {
	return &SQLiteProfileRepo{db: conn}
}

func (r *SQLiteProfileRepo) Get(ctx context.Context) (*domain.SchedulerProfile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, timezone, default_day_type, sleep_start_local FROM scheduler_profile WHERE id = 'default'`)

	var p domain.SchedulerProfile
	if err := row.Scan(&p.ID, &p.Timezone, &p.DefaultDayType, &p.SleepStartLocal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scheduler profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning scheduler profile: %w", err)
	}
	return &p, nil
}

func (r *SQLiteProfileRepo) Upsert(ctx context.Context, p *domain.SchedulerProfile) error {
	id := domain.Coalesce(p.ID, "default")
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO scheduler_profile (id, timezone, default_day_type, sleep_start_local)
		 VALUES (?, ?, ?, ?)`,
		id, p.Timezone, p.DefaultDayType, p.SleepStartLocal)
	if err != nil {
		return fmt.Errorf("upserting scheduler profile: %w", err)
	}
	return nil
}
