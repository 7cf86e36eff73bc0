// Package email delivers plain-text notification mail through SMTP,
// SendGrid or the application log.
package email

import (
	"context"
	"errors"
)

// ErrNoRecipients is returned when a message has nobody to go to.
var ErrNoRecipients = errors.New("email has no recipients")

// Sender delivers one message to a set of recipients.
type Sender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}
