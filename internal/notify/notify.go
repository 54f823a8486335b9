// Package notify defines the outbound notification boundary used by the
// reminder engine.
package notify

import (
	"context"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
)

// Message is one reminder addressed to a single recipient.
type Message struct {
	To      domain.Recipient
	Payload domain.ReminderPayload
}

// Notifier delivers a single message. Send reports whether the message was
// accepted for delivery. Implementations must not panic and must honor ctx
// cancellation.
type Notifier interface {
	Send(ctx context.Context, msg Message) bool
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, msg Message) bool

// Send implements Notifier.
func (f NotifierFunc) Send(ctx context.Context, msg Message) bool {
	return f(ctx, msg)
}

// Verifier is implemented by notifiers that can check their transport
// without sending anything.
type Verifier interface {
	Verify(ctx context.Context) error
}
