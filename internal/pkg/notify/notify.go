// Package notify dispatches best-effort email notifications off the request path.
package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/minilms/minilms/internal/pkg/email"
	"github.com/rs/zerolog"
)

// Notifier sends a message without blocking or failing the caller.
type Notifier interface {
	Notify(recipients []string, subject, body string)
}

// Dispatcher delivers notifications on background goroutines. At most
// maxInFlight deliveries run at once; further messages are dropped.
type Dispatcher struct {
	sender  email.Sender
	timeout time.Duration
	sem     chan struct{}
	wg      sync.WaitGroup
	logger  zerolog.Logger
}

// NewDispatcher creates a Dispatcher around sender.
func NewDispatcher(sender email.Sender, maxInFlight int, timeout time.Duration, logger zerolog.Logger) *Dispatcher {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Dispatcher{
		sender:  sender,
		timeout: timeout,
		sem:     make(chan struct{}, maxInFlight),
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// Notify implements Notifier. Empty addresses are skipped; a message with
// no remaining recipients is not sent.
func (d *Dispatcher) Notify(recipients []string, subject, body string) {
	to := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	if len(to) == 0 {
		return
	}

	select {
	case d.sem <- struct{}{}:
	default:
		d.logger.Warn().Str("subject", subject).Int("recipients", len(to)).Msg("Notification dropped, too many in flight")
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() { <-d.sem }()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error().Interface("panic", r).Str("subject", subject).Msg("Notification sender panicked")
			}
		}()

		ctx := context.Background()
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}

		if err := d.sender.Send(ctx, to, subject, body); err != nil {
			d.logger.Error().Err(err).Str("subject", subject).Strs("to", to).Msg("Failed to send notification")
			return
		}
		d.logger.Debug().Str("subject", subject).Int("recipients", len(to)).Msg("Notification sent")
	}()
}

// Wait blocks until every accepted notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() when ctx ends
// before the pending notifications do.
func (d *Dispatcher) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
