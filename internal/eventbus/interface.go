package eventbus

import (
	"context"

	"entity-notifier/internal/core"
	"entity-notifier/internal/notifier"
)

// Publisher is the local side that relayed events are handed to.
// *notifier.Notifier satisfies it.
type Publisher interface {
	Publish(ev core.Event) int
}

// Bus mirrors events between processes.
type Bus interface {
	// Forward sends ev to every process relaying a matching pattern.
	Forward(ctx context.Context, ev core.Event) error
	// Relay republishes remote events matching pattern into target until ctx is done.
	Relay(ctx context.Context, pattern notifier.Topic, target Publisher) error
	Close() error
}
