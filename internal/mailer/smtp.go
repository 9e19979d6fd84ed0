package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// SMTPMailer sends mail over a single authenticated SMTP session per message.
// Any failure during the session is returned as an error with the cause
// logged; there are no retries.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

// NewSMTPMailer creates a live SMTP mailer.
func NewSMTPMailer(host string, port int, username, password, from string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger,
	}
}

// Name returns the name of this mailer.
func (m *SMTPMailer) Name() string { return "smtp" }

// Send opens one SMTP session, authenticates, sends and closes. The context
// deadline is honored by failing fast when it is already expired; the SMTP
// dial itself is bounded by the OS connect timeout.
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string, isHTML bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	contentType := "text/plain; charset=utf-8"
	if isHTML {
		contentType = "text/html; charset=utf-8"
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&msg, "\r\n%s", body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, to, []byte(msg.String())); err != nil {
		m.logger.ErrorContext(ctx, "smtp send failed",
			slog.String("host", m.host),
			slog.Int("recipients", len(to)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("send mail: %w", err)
	}

	m.logger.InfoContext(ctx, "mail sent",
		slog.Int("recipients", len(to)),
		slog.String("subject", subject),
	)
	return nil
}
