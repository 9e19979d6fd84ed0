package mailer

import (
	"context"
	"log/slog"
	"strings"
)

// LogMailer writes the fully formed message to the structured log and reports
// success. This is the deliberate development-mode fallback when no SMTP
// credentials are configured, not a failure path.
type LogMailer struct {
	from   string
	logger *slog.Logger
}

// NewLogMailer creates a mailer that logs instead of sending.
func NewLogMailer(from string, logger *slog.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger}
}

// Name returns the name of this mailer.
func (m *LogMailer) Name() string { return "log" }

// Send logs the message and succeeds.
func (m *LogMailer) Send(ctx context.Context, to []string, subject, body string, isHTML bool) error {
	contentType := "text/plain"
	if isHTML {
		contentType = "text/html"
	}

	m.logger.InfoContext(ctx, "mock email (no SMTP credentials configured)",
		slog.String("from", m.from),
		slog.String("to", strings.Join(to, ", ")),
		slog.String("subject", subject),
		slog.String("content_type", contentType),
		slog.String("body", body),
	)
	return nil
}
