package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the stores react to.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// constraintErrors maps named constraints from the embedded migrations to
// the store error a caller can act on. Constraints missing here fall back to
// the generic mapping by SQLSTATE.
var constraintErrors = map[string]error{
	"participants_email_lower_idx":        store.ErrEmailExists,
	"participants_pkey":                   store.ErrDuplicate,
	"meetings_pkey":                       store.ErrDuplicate,
	"meeting_occurrences_pkey":            store.ErrDuplicate,
	"meeting_mentees_pkey":                store.ErrInvalidEntity,
	"meeting_mentees_meeting_id_fkey":     store.ErrMeetingNotFound,
	"meeting_occurrences_meeting_id_fkey": store.ErrMeetingNotFound,
	"reminder_ledger_occurrence_id_fkey":  store.ErrNotFound,
	"reminder_ledger_window_days_check":   store.ErrInvalidEntity,
	"meetings_duration_minutes_check":     store.ErrInvalidEntity,
}

// MapError translates sql and PostgreSQL errors into store errors. The
// original error stays in the chain. Errors without a mapping are returned
// unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if target, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return fmt.Errorf("%w: %s: %w", target, pgErr.ConstraintName, err)
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	case foreignKeyViolationCode, checkViolationCode:
		return fmt.Errorf("%w: %s: %w", store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: %s is required: %w", store.ErrInvalidEntity, pgErr.ColumnName, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
