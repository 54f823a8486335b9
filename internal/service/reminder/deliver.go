package reminder

import (
	"context"
	"log/slog"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/redact"
	"golang.org/x/sync/errgroup"
)

// deliver sends the payload to each of its recipients independently and
// returns one outcome per recipient, in recipient order. Each mentee's copy
// names that mentee. Failures are not retried.
func (e *Engine) deliver(ctx context.Context, payload domain.ReminderPayload) []domain.ReminderOutcome {
	outcomes := make([]domain.ReminderOutcome, len(payload.Recipients))

	var g errgroup.Group
	g.SetLimit(e.maxConcurrency)
	for i, to := range payload.Recipients {
		g.Go(func() error {
			delivered := e.send(ctx, notify.Message{To: to, Payload: payload.ForRecipient(to)})
			outcomes[i] = domain.ReminderOutcome{
				MeetingID:    payload.MeetingID,
				OccurrenceID: payload.OccurrenceID,
				Window:       payload.Window,
				Recipient:    to.Email,
				Role:         to.Role,
				Delivered:    delivered,
			}
			e.metrics.Delivery(string(to.Role), delivered)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// send calls the notifier, treating a panic as a failed delivery.
func (e *Engine) send(ctx context.Context, msg notify.Message) (delivered bool) {
	log := logger.FromContextOrDefault(ctx, e.logger)
	defer func() {
		if p := recover(); p != nil {
			log.Error("notifier panicked",
				slog.String("recipient", redact.Email(msg.To.Email)),
				slog.Any("panic", p))
			delivered = false
		}
	}()

	delivered = e.notifier.Send(ctx, msg)
	if !delivered {
		log.Warn("reminder delivery failed",
			slog.String("recipient", redact.Email(msg.To.Email)),
			slog.String("role", string(msg.To.Role)))
	}
	return delivered
}
