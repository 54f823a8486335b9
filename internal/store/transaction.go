// Package store provides abstractions and implementations for data persistence
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
)

// TxFn is the unit of work passed to RunInTransaction. Returning a non-nil
// error rolls the transaction back.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn inside a transaction on db and commits when fn
// succeeds.
//
// An error returned by fn is passed through unchanged so callers can still
// match store sentinels with errors.Is. If the rollback that follows also
// fails, both errors are joined. Begin and commit failures wrap
// ErrTransactionFailed. A panic in fn rolls back and is re-raised.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("could not begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		p := recover()
		rbErr := tx.Rollback()

		if p != nil {
			attrs := []any{slog.Any("panic", p)}
			if rbErr != nil {
				attrs = append(attrs, slog.String("rollback_error", rbErr.Error()))
			}
			log.Error("transaction aborted by panic", attrs...)
			// ALLOW-PANIC: re-raise the panic from fn after rolling back
			panic(p)
		}

		if rbErr != nil {
			log.Error("rollback failed",
				slog.String("error", err.Error()),
				slog.String("rollback_error", rbErr.Error()))
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			return
		}
		log.Debug("transaction rolled back", slog.String("error", err.Error()))
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}

	finished = true
	if err = tx.Commit(); err != nil {
		log.Error("could not commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}
	return nil
}
