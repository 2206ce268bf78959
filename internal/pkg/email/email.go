package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/kostadin12/sis-api/internal/config"
	"github.com/kostadin12/sis-api/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

var subjects = map[notification.TemplateKind]string{
	notification.AbsenceCreatedAbsentee:   "Your absence was booked",
	notification.AbsenceCreatedTeam:       "Team member absence booked",
	notification.AbsenceCreatedSubstitute: "You were assigned as a substitute",

	notification.AbsenceUpdatedAbsentee:      "Your absence was updated",
	notification.AbsenceUpdatedTeam:          "Team member absence updated",
	notification.AbsenceUpdatedSubstitute:    "A substituted absence was updated",
	notification.AbsenceUpdatedOldSubstitute: "You are no longer a substitute",
	notification.AbsenceUpdatedNewSubstitute: "You were assigned as a substitute",

	notification.AbsenceDeletedAbsentee:   "Your absence was cancelled",
	notification.AbsenceDeletedTeam:       "Team member absence cancelled",
	notification.AbsenceDeletedSubstitute: "A substituted absence was cancelled",
}

// Mailer renders the embedded HTML templates and delivers them over
// SMTP with retry. An unconfigured SMTP host turns delivery into a
// logged no-op (dev mode).
type Mailer struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewMailer parses the embedded templates and returns a ready mailer.
func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Mailer{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

// Send renders the template for kind and mails it to all recipients as
// one message.
func (m *Mailer) Send(ctx context.Context, recipients []string, kind notification.TemplateKind, variables map[string]string) error {
	if len(recipients) == 0 {
		return nil
	}

	subject, ok := subjects[kind]
	if !ok {
		return fmt.Errorf("unknown template kind %q", kind)
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, string(kind)+".html", variables); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", kind, err)
	}

	return m.sendHTML(ctx, recipients, subject, body.String())
}

func (m *Mailer) sendHTML(ctx context.Context, recipients []string, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if m.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", strings.Join(recipients, ", "), "subject", subject)
		return nil
	}

	from := m.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", m.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(recipients, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := smtp.SendMail(addr, auth, from, recipients, message)
		if err == nil {
			slog.Info("Email sent successfully", "recipient_count", len(recipients), "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
