package store

import (
	"context"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/google/uuid"
)

// ReminderLedger records which (occurrence, window) pairs have already been
// notified, so repeated or overlapping runs do not resend.
type ReminderLedger interface {
	// HasSent reports whether a reminder for the pair has been recorded.
	HasSent(ctx context.Context, occurrenceID uuid.UUID, window domain.ReminderWindow) (bool, error)

	// MarkSent records the pair. Recording an existing pair is not an error.
	MarkSent(ctx context.Context, occurrenceID uuid.UUID, window domain.ReminderWindow, at time.Time) error
}
