package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrDelivery is wrapped by every error caused by the messaging channel
// itself (unreachable destination, rejected credential, API error).
var ErrDelivery = errors.New("notification delivery failed")

type Notifier interface {
	// Name returns the channel identifier, e.g. "telegram".
	Name() string
	// Notify sends text to the configured destination.
	Notify(ctx context.Context, text string) error
}

func deliveryError(channel string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDelivery, channel, err)
}

// LogNotifier writes messages to the logger instead of a messaging channel.
type LogNotifier struct {
	log *zerolog.Logger
}

func NewLogNotifier(log *zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, text string) error {
	n.log.Info().Str("notifier", n.Name()).Str("text", text).Msg("Notification")
	return nil
}
