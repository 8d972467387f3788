package notifier

import (
	"github.com/google/uuid"

	"entity-notifier/internal/core"
)

// Registration binds a Topic to the delivery queue of one subscriber.
// Two registrations on the same topic are distinct; Unregister removes
// exactly the instance it is given.
type Registration struct {
	id    string
	topic Topic
	queue *Queue
}

// NewRegistration allocates a registration for t with an unbounded queue.
func NewRegistration(t Topic) *Registration {
	return newRegistration(t, 0)
}

func newRegistration(t Topic, capacity int) *Registration {
	return &Registration{
		id:    uuid.NewString(),
		topic: t,
		queue: NewQueue(capacity),
	}
}

// ID returns the unique registration id.
func (r *Registration) ID() string { return r.id }

// Topic returns the pattern this registration subscribes to.
func (r *Registration) Topic() Topic { return r.topic }

// Queue returns the delivery queue. The subscriber is its only consumer.
func (r *Registration) Queue() *Queue { return r.queue }

func (r *Registration) enqueue(ev core.Event) (dropped bool) {
	return r.queue.Put(ev)
}
