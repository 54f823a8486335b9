package mail

import (
	"context"
	"log/slog"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/redact"
)

// LogNotifier records reminders in the log instead of sending them. It is
// used when no SMTP relay is configured.
type LogNotifier struct {
	logger *slog.Logger
}

var _ notify.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier. If logger is nil, a default logger
// will be used.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With(slog.String("component", "log_notifier"))}
}

// Send implements notify.Notifier. It always succeeds.
func (n *LogNotifier) Send(ctx context.Context, msg notify.Message) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	logger.FromContextOrDefault(ctx, n.logger).Info("reminder (dry run)",
		slog.String("recipient", redact.Email(msg.To.Email)),
		slog.String("role", string(msg.To.Role)),
		slog.String("subject", Subject(msg.Payload)),
		slog.String("occurrence_id", msg.Payload.OccurrenceID.String()))
	return true
}
