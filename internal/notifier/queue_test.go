package notifier

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entity-notifier/internal/core"
)

func ev(id string) core.Event { return core.Event{ID: id, EntityType: "task"} }

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(0)
	for i := 0; i < 5; i++ {
		assert.False(t, q.Put(ev(strconv.Itoa(i))))
	}
	assert.Equal(t, 5, q.Len())
	for i := 0; i < 5; i++ {
		got, ok := q.TryGet()
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(i), got.ID)
	}
	_, ok := q.TryGet()
	assert.False(t, ok)
}

func TestQueueDropOldest(t *testing.T) {
	q := NewQueue(2)
	assert.Equal(t, 2, q.Capacity())
	q.Put(ev("a"))
	q.Put(ev("b"))
	assert.True(t, q.Put(ev("c")))
	assert.Equal(t, uint64(1), q.Dropped())

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Equal(t, 0, q.Len())
}

func TestQueueGetWaits(t *testing.T) {
	q := NewQueue(0)
	go func() {
		time.Sleep(10 * time.Millisecond)
		q.Put(ev("late"))
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := q.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", got.ID)
}

func TestQueueGetCancelled(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue(0)
	const producers, perProducer = 8, 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Put(ev("x"))
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	received := 0
	for received < producers*perProducer {
		_, err := q.Get(ctx)
		require.NoError(t, err)
		received++
	}
	wg.Wait()
	assert.Equal(t, 0, q.Len())
}
