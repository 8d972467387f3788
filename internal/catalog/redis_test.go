package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-notifier/internal/core"
	"entity-notifier/internal/notifier"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	store := NewRedisStore(&redis.Options{Addr: s.Addr()}, "", zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func TestPutGet(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	tp := notifier.MustTopic(notifier.WithEntityType("task"), notifier.WithOperation(core.OperationUpdate),
		notifier.WithAttributeName("status"))

	ver, err := store.Put(ctx, "task-status", tp)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	got, v, err := store.Get(ctx, "task-status")
	require.NoError(t, err)
	assert.Equal(t, tp, got)
	assert.Equal(t, ver, v)

	ver, err = store.Put(ctx, "task-status", notifier.Topic{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), ver)
	got, _, err = store.Get(ctx, "task-status")
	require.NoError(t, err)
	assert.True(t, got.IsWildcard())
}

func TestGetMissing(t *testing.T) {
	store, _ := newStore(t)
	_, _, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDelete(t *testing.T) {
	store, s := newStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "a", notifier.MustTopic(notifier.WithEntityType("task")))
	require.NoError(t, err)
	_, err = store.Put(ctx, "b", notifier.MustTopic(notifier.WithOperation(core.OperationDeletion)))
	require.NoError(t, err)
	s.HSet(DefaultPrefix+"broken", "topic", `{"operation":"RENAME"}`)
	s.Set("unrelated", "x")

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "task", all["a"].EntityType())
	assert.Equal(t, core.OperationDeletion, all["b"].Operation())

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	all, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRestore(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	_, err := store.Put(ctx, "tasks", notifier.MustTopic(notifier.WithEntityType("task")))
	require.NoError(t, err)
	_, err = store.Put(ctx, "scenario", notifier.MustTopic(notifier.WithEntityType("scenario"), notifier.WithEntityID("S1")))
	require.NoError(t, err)

	n := notifier.New()
	regs, err := Restore(ctx, store, NotifierRegistrar(n), nil)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, 2, n.Len())

	ev, err := core.NewEvent("task", "T1", core.OperationCreation, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Publish(ev))
	assert.Equal(t, 1, regs["tasks"].Queue().Len())
	assert.Equal(t, 0, regs["scenario"].Queue().Len())
}

func TestRestoreSkipsAndStopsOnError(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	_, err := store.Put(ctx, "keep", notifier.MustTopic(notifier.WithEntityType("task")))
	require.NoError(t, err)
	_, err = store.Put(ctx, "configured", notifier.MustTopic(notifier.WithEntityType("job")))
	require.NoError(t, err)

	n := notifier.New()
	regs, err := Restore(ctx, store, NotifierRegistrar(n), func(name string) bool { return name == "configured" })
	require.NoError(t, err)
	assert.Len(t, regs, 1)
	assert.Contains(t, regs, "keep")
	assert.Equal(t, 1, n.Len())

	failing := RegistrarFunc(func(name string, _ notifier.Topic) (*notifier.Registration, error) {
		return nil, errors.New("refused " + name)
	})
	_, err = Restore(ctx, store, failing, nil)
	assert.ErrorContains(t, err, "refused")
}

func TestGetInvalidStoredTopic(t *testing.T) {
	store, s := newStore(t)
	s.HSet(DefaultPrefix+"bad-attr", "topic", `{"operation":"DELETION","attribute_name":"x"}`, "version", "1")
	s.HSet(DefaultPrefix+"bad-op", "topic", `{"operation":"RENAME"}`, "version", "1")

	_, _, err := store.Get(context.Background(), "bad-attr")
	assert.ErrorIs(t, err, core.ErrUnexpectedAttribute)

	_, _, err = store.Get(context.Background(), "bad-op")
	assert.ErrorIs(t, err, core.ErrUnknownOperation)
}
