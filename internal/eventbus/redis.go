package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"entity-notifier/internal/core"
	"entity-notifier/internal/notifier"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the wire form of a forwarded event.
type envelope struct {
	Origin string     `json:"origin"`
	Event  core.Event `json:"event"`
}

// RedisBridge implements Bus using Redis Pub/Sub.
type RedisBridge struct {
	mu            sync.Mutex
	client        *redis.Client
	prefix        string
	origin        string
	subscriptions map[string]*redis.PubSub
	logger        zerolog.Logger
}

// NewRedisBridge creates a bridge using the given options. An empty prefix
// selects DefaultPrefix.
func NewRedisBridge(opts *redis.Options, prefix string, logger zerolog.Logger) *RedisBridge {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisBridge{
		client:        redis.NewClient(opts),
		prefix:        prefix,
		origin:        uuid.NewString(),
		subscriptions: make(map[string]*redis.PubSub),
		logger:        logger.With().Str("component", "eventbus").Logger(),
	}
}

// Origin identifies this bridge in forwarded envelopes.
func (b *RedisBridge) Origin() string { return b.origin }

// Forward publishes ev on the channel derived from its exact topic.
func (b *RedisBridge) Forward(ctx context.Context, ev core.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(envelope{Origin: b.origin, Event: ev})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return b.client.Publish(ctx, ChannelFor(b.prefix, ev), data).Err()
}

// Relay subscribes to the pattern of t and republishes remote events into
// target until ctx is done. Events forwarded by this bridge are skipped.
// Relay returns once the subscription is confirmed.
func (b *RedisBridge) Relay(ctx context.Context, t notifier.Topic, target Publisher) error {
	pattern := PatternFor(b.prefix, t)
	ps := b.client.PSubscribe(ctx, pattern)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return fmt.Errorf("subscribe %s: %w", pattern, err)
	}

	b.mu.Lock()
	if old, ok := b.subscriptions[pattern]; ok {
		_ = old.Close()
	}
	b.subscriptions[pattern] = ps
	b.mu.Unlock()

	go b.relay(ctx, pattern, ps, target)
	return nil
}

func (b *RedisBridge) relay(ctx context.Context, pattern string, ps *redis.PubSub, target Publisher) {
	// A blocked receive only returns once the PubSub is closed.
	stop := context.AfterFunc(ctx, func() { _ = ps.Close() })
	defer stop()
	defer func() {
		b.mu.Lock()
		if b.subscriptions[pattern] == ps {
			delete(b.subscriptions, pattern)
		}
		b.mu.Unlock()
		_ = ps.Close()
	}()

	for {
		msg, err := ps.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, redis.ErrClosed) {
				return
			}
			b.logger.Warn().Err(err).Str("pattern", pattern).Msg("receive failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			b.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("undecodable payload")
			continue
		}
		if env.Origin == b.origin {
			continue
		}
		if err := env.Event.Validate(); err != nil {
			b.logger.Warn().Err(err).Str("event", env.Event.ID).Msg("invalid remote event")
			continue
		}
		target.Publish(env.Event)
	}
}

// Close terminates all relays and closes the client.
func (b *RedisBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ps := range b.subscriptions {
		_ = ps.Close()
	}
	b.subscriptions = make(map[string]*redis.PubSub)
	return b.client.Close()
}

var _ Bus = (*RedisBridge)(nil)
