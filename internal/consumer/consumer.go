package consumer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"entity-notifier/internal/core"
	"entity-notifier/internal/notifier"
)

// Handler processes one event taken from a registration queue.
type Handler func(ctx context.Context, ev core.Event) error

// Consumer drains a single registration queue into a Handler.
type Consumer struct {
	name    string
	reg     *notifier.Registration
	handler Handler
	logger  zerolog.Logger
}

// New returns a Consumer for reg.
func New(name string, reg *notifier.Registration, h Handler, logger zerolog.Logger) *Consumer {
	return &Consumer{
		name:    name,
		reg:     reg,
		handler: h,
		logger:  logger.With().Str("consumer", name).Logger(),
	}
}

// Name returns the consumer name.
func (c *Consumer) Name() string { return c.name }

// Registration returns the registration being drained.
func (c *Consumer) Registration() *notifier.Registration { return c.reg }

// Run delivers queued events to the handler until ctx is cancelled.
// Handler failures are logged and do not stop the loop.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		ev, err := c.reg.Queue().Get(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err := c.handle(ctx, ev); err != nil {
			c.logger.Error().Err(err).Str("event", ev.ID).Msg("handler failed")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, ev core.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return c.handler(ctx, ev)
}
