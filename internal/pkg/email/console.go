package email

import (
	"context"

	"github.com/rs/zerolog"
)

// ConsoleSender writes messages to the log instead of delivering them.
type ConsoleSender struct {
	logger zerolog.Logger
}

// NewConsoleSender creates a ConsoleSender.
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger.With().Str("component", "console_email").Logger()}
}

// Send implements Sender.
func (s *ConsoleSender) Send(_ context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}
	s.logger.Info().
		Strs("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("Email")
	return nil
}
