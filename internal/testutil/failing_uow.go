package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/tempo/internal/db"
)

// FailOnNthExecUoW behaves like the sqlite unit of work but makes the FailOn-th
// write inside the transaction return Err, so tests can break a write-through
// or an ops batch halfway and check nothing leaked. Writes are counted from 1;
// reads are never failed.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	return db.RunTx(ctx, tx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &faultyWrites{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type faultyWrites struct {
	db.DBTX
	writes int
	failOn int
	err    error
}

func (f *faultyWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.writes++
	if f.writes == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
