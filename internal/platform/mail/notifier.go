package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/config"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/domain"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/notify"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/logger"
	"github.com/Sathya-1307/Alumini-Mentorship1/internal/redact"
)

// SubjectPrefix follows the window icon in every reminder subject line.
const SubjectPrefix = "Mentorship Meeting Reminder"

// Subject icons. Whole-week windows get the calendar, shorter ones the clock.
const (
	weekIcon = "📅"
	dayIcon  = "⏰"
)

// ErrNotConfigured is returned when SMTP settings are incomplete.
var ErrNotConfigured = errors.New("smtp is not configured")

// smtpClient is the subset of *gomail.Client the notifier uses.
type smtpClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
	DialWithContext(ctx context.Context) error
	Close() error
}

// SMTPNotifier sends reminders through an SMTP relay.
type SMTPNotifier struct {
	client   smtpClient
	from     string
	fromName string
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

var (
	_ notify.Notifier = (*SMTPNotifier)(nil)
	_ notify.Verifier = (*SMTPNotifier)(nil)
)

// NewSMTPNotifier builds a notifier from cfg.
// Returns ErrNotConfigured if host or sender address is missing.
func NewSMTPNotifier(cfg config.MailConfig, logger *slog.Logger) (*SMTPNotifier, error) {
	if !cfg.Enabled() || strings.TrimSpace(cfg.From) == "" {
		return nil, ErrNotConfigured
	}

	opts := []gomail.Option{
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
		gomail.WithTimeout(cfg.Timeout()),
	}
	if cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return newSMTPNotifier(client, cfg, logger), nil
}

func newSMTPNotifier(client smtpClient, cfg config.MailConfig, logger *slog.Logger) *SMTPNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPNotifier{
		client:   client,
		from:     cfg.From,
		fromName: cfg.FromName,
		timeout:  cfg.Timeout(),
		logger:   logger.With(slog.String("component", "smtp_notifier")),
		now:      time.Now,
	}
}

func tlsPolicy(name string) gomail.TLSPolicy {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "opportunistic":
		return gomail.TLSOpportunistic
	case "none":
		return gomail.NoTLS
	default:
		return gomail.TLSMandatory
	}
}

// Subject returns the subject line for a reminder, e.g.
// "📅 Mentorship Meeting Reminder (1 Week Before) - Monday, March 10, 2025"
// or "⏰ Mentorship Meeting Reminder (3 Days Before) - ...".
func Subject(p domain.ReminderPayload) string {
	return fmt.Sprintf("%s %s (%s) - %s", subjectIcon(p.Window), SubjectPrefix, p.Window.Title(), p.FormattedDate())
}

func subjectIcon(w domain.ReminderWindow) string {
	if w.Days() >= 7 && w.Days()%7 == 0 {
		return weekIcon
	}
	return dayIcon
}

// Send implements notify.Notifier. Failures are logged and reported as false.
func (n *SMTPNotifier) Send(ctx context.Context, msg notify.Message) (ok bool) {
	log := logger.FromContextOrDefault(ctx, n.logger).With(
		slog.String("recipient", redact.Email(msg.To.Email)),
		slog.String("occurrence_id", msg.Payload.OccurrenceID.String()),
		slog.String("window", msg.Payload.Window.Label()),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while sending reminder", slog.Any("panic", r))
			ok = false
		}
	}()

	m, err := n.BuildMessage(msg)
	if err != nil {
		log.Error("failed to build reminder email", slog.String("error", redact.Error(err)))
		return false
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		log.Error("failed to send reminder email", slog.String("error", redact.Error(err)))
		return false
	}

	log.Info("reminder email sent")
	return true
}

// BuildMessage renders msg into a MIME message without sending it.
func (n *SMTPNotifier) BuildMessage(msg notify.Message) (*gomail.Msg, error) {
	if !domain.ValidEmail(msg.To.Email) {
		return nil, fmt.Errorf("%w: recipient", domain.ErrInvalidEmail)
	}

	payload := msg.Payload
	payload.ApplyDefaults()
	data := newTemplateData(msg.To, payload)

	m := gomail.NewMsg()
	if n.fromName != "" {
		if err := m.FromFormat(n.fromName, n.from); err != nil {
			return nil, fmt.Errorf("invalid sender: %w", err)
		}
	} else if err := m.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}

	if msg.To.Name != "" {
		if err := m.AddToFormat(msg.To.Name, msg.To.Email); err != nil {
			return nil, fmt.Errorf("invalid recipient: %w", err)
		}
	} else if err := m.To(msg.To.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}

	m.Subject(Subject(payload))
	m.SetDate()
	m.SetMessageID()

	if err := m.SetBodyHTMLTemplate(htmlBody, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}
	text, err := renderText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}
	m.AddAlternativeString(gomail.TypeTextPlain, text)

	invite := buildInvite(payload, n.from, n.now())
	if err := m.AttachReader(inviteFileName, strings.NewReader(invite),
		gomail.WithFileContentType(gomail.ContentType("text/calendar; method=REQUEST; charset=UTF-8")),
	); err != nil {
		return nil, fmt.Errorf("failed to attach invite: %w", err)
	}

	return m, nil
}

// Verify implements notify.Verifier by dialing and authenticating against
// the relay.
func (n *SMTPNotifier) Verify(ctx context.Context) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	if err := n.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial failed: %w", err)
	}
	return n.client.Close()
}
