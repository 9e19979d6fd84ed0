// Package mailer delivers transactional email. Two implementations exist,
// selected once at construction: SMTPMailer (live transport) and LogMailer
// (development fallback that writes the message to the structured log and
// succeeds). Callers treat a send failure as a normal outcome, never a crash.
package mailer

import (
	"context"
	"fmt"
)

// Mailer sends a single message to one or more recipients.
type Mailer interface {
	Name() string
	Send(ctx context.Context, to []string, subject, body string, isHTML bool) error
}

// ResponseAckEmail builds the acknowledgement sent to a company responder
// after their response to a review is published.
func ResponseAckEmail(reviewTitle string) (subject, body string, isHTML bool) {
	subject = "Your response has been published"
	body = fmt.Sprintf("Your response to the review %q is now visible on Carrier Board.\n\nResponses cannot be edited or removed once published.", reviewTitle)
	return subject, body, false
}
