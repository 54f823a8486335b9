package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Callers match them with
// errors.Is; implementations wrap driver errors around them.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrDeleteFailed wraps failures of bulk removals such as the past
	// occurrence cleanup.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrTransactionFailed wraps begin and commit failures.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrMeetingNotFound     = fmt.Errorf("%w: meeting", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: participant", ErrNotFound)
	ErrEmailExists         = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is, or wraps, any not-found sentinel.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is, or wraps, any duplicate sentinel.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
