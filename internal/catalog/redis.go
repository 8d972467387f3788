package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"entity-notifier/internal/notifier"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "notifier:subscription:"

// RedisStore provides a Redis-backed implementation of Store.
// Each subscription is a hash holding the encoded topic and a version counter.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisStore returns a new RedisStore with given options.
func NewRedisStore(opts *redis.Options, prefix string, logger zerolog.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		prefix: prefix,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Put stores t under name and returns the new version.
func (s *RedisStore) Put(ctx context.Context, name string, t notifier.Topic) (int64, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return 0, fmt.Errorf("encode topic: %w", err)
	}
	key := s.prefix + name
	var ver int64
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.HGet(ctx, key, "version").Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		ver = cur + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "topic", data, "version", ver)
			return nil
		})
		return err
	}, key)
	if err != nil {
		return 0, fmt.Errorf("put %s: %w", name, err)
	}
	s.logger.Debug().Str("name", name).Int64("version", ver).Object("topic", t).Msg("stored")
	return ver, nil
}

// Get retrieves a subscription topic and its version.
func (s *RedisStore) Get(ctx context.Context, name string) (notifier.Topic, int64, error) {
	res, err := s.client.HGetAll(ctx, s.prefix+name).Result()
	if err != nil {
		return notifier.Topic{}, 0, err
	}
	if len(res) == 0 {
		return notifier.Topic{}, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return decode(name, res)
}

func decode(name string, fields map[string]string) (notifier.Topic, int64, error) {
	t, err := notifier.DecodeTopic([]byte(fields["topic"]))
	if err != nil {
		return notifier.Topic{}, 0, fmt.Errorf("decode %s: %w", name, err)
	}
	ver, err := parseInt(fields["version"])
	if err != nil {
		return notifier.Topic{}, 0, fmt.Errorf("decode %s version: %w", name, err)
	}
	return t, ver, nil
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// List returns every stored subscription. Entries that fail to decode are
// logged and skipped.
func (s *RedisStore) List(ctx context.Context) (map[string]notifier.Topic, error) {
	out := make(map[string]notifier.Topic)
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		name := strings.TrimPrefix(key, s.prefix)
		res, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if len(res) == 0 {
			continue
		}
		t, _, err := decode(name, res)
		if err != nil {
			s.logger.Warn().Err(err).Str("name", name).Msg("skipping stored subscription")
			continue
		}
		out[name] = t
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a subscription. Unknown names are ignored.
func (s *RedisStore) Delete(ctx context.Context, name string) error {
	return s.client.Del(ctx, s.prefix+name).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
