// Package admin provides administrative operations for database management.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/crewboard/internal/core"
	"github.com/JonMunkholm/crewboard/internal/database"
	"github.com/jackc/pgx/v5"
)

// ResetTimeout is the maximum duration for database reset operations.
const ResetTimeout = 30 * time.Second

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ResetDbs handles database reset operations.
type ResetDbs struct {
	DB TxBeginner
}

type dbResetFn func(ctx context.Context, db core.DBTX) error

// ResetDemo removes the demo jobs and workers and inserts them again in a
// single transaction. Rows added outside the demo set are kept.
func (r *ResetDbs) ResetDemo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	clearSQL, seedSQL, err := database.DemoSeed()
	if err != nil {
		return err
	}
	err = pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		return r.runResets(ctx, tx, []dbResetFn{
			exec("clear demo rows", clearSQL),
			exec("seed demo rows", seedSQL),
		})
	})
	if err != nil {
		return err
	}

	slog.Info("demo data reset")
	return nil
}

func exec(step, sql string) dbResetFn {
	return func(ctx context.Context, db core.DBTX) error {
		if _, err := db.Exec(ctx, sql); err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		return nil
	}
}

func (r *ResetDbs) runResets(ctx context.Context, db core.DBTX, resets []dbResetFn) error {
	for _, reset := range resets {
		if err := reset(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
