// Package notify delivers alert messages to users. The default
// implementation only logs; the Twilio implementation sends real SMS when
// credentials are configured.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier delivers a message to a phone number
type Notifier interface {
	Send(ctx context.Context, toNumber, message string) error
}

// LogNotifier writes messages to the log instead of sending them, so
// triggered alerts still leave a trace when no SMS provider is configured.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{
		log: log.With().Str("component", "log_notifier").Logger(),
	}
}

// Send logs the message and reports success
func (n *LogNotifier) Send(_ context.Context, toNumber, message string) error {
	n.log.Info().
		Str("to", toNumber).
		Str("message", message).
		Msg("SMS delivery not configured, logging alert instead")
	return nil
}
