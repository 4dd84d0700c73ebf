package channel

import (
	"context"

	"mealbot/pkg/event"
)

// Receiver consumes one inbound event; the dispatcher provides it.
type Receiver func(ctx context.Context, ev event.InboundEvent)

// Adapter bridges one external chat transport (for example Telegram)
// into mealbot events.
type Adapter interface {
	Name() string
	Run(ctx context.Context, receive Receiver) error
}
