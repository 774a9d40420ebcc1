package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailer delivers rendered reports through Mailgun. Send never returns an
// error: delivery failure is a boolean outcome recorded on the report, not a
// reason to abort a run.
type Mailer struct {
	mg     *mailgun.MailgunImpl
	from   string
	logger *slog.Logger
}

// NewMailer constructs a Mailgun-backed mailer.
func NewMailer(domain, apiKey, fromEmail string, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		mg:     mailgun.NewMailgun(domain, apiKey),
		from:   fmt.Sprintf("FinPulse <%s>", fromEmail),
		logger: logger,
	}
}

// Send delivers one HTML email and reports success.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) bool {
	msg := m.mg.NewMessage(m.from, subject, "", to)
	msg.SetHtml(htmlBody)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, _, err := m.mg.Send(ctx, msg); err != nil {
		m.logger.Warn("mailgun send failed", slog.String("to", to), slog.Any("error", err))
		return false
	}
	return true
}
