package catalog

import (
	"context"
	"errors"

	"entity-notifier/internal/notifier"
)

// ErrNotFound is returned by Get for unknown subscription names.
var ErrNotFound = errors.New("subscription not found")

// Store keeps named subscription topics so they can be restored after a restart.
type Store interface {
	Put(ctx context.Context, name string, t notifier.Topic) (int64, error)
	Get(ctx context.Context, name string) (notifier.Topic, int64, error)
	List(ctx context.Context) (map[string]notifier.Topic, error)
	Delete(ctx context.Context, name string) error
	Close() error
}
