package notifier

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"entity-notifier/internal/core"
)

// Notifier maps topics to registrations and fans published events out to them.
type Notifier struct {
	mu            sync.RWMutex
	registrations map[Topic][]*Registration
	count         int

	queueCapacity int
	logger        zerolog.Logger
	metrics       *Metrics
}

// New returns an empty Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		registrations: make(map[Topic][]*Registration),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Register subscribes to the pattern described by opts.
// The only error is an invalid combination of options.
func (n *Notifier) Register(opts ...TopicOption) (*Registration, error) {
	t, err := NewTopic(opts...)
	if err != nil {
		return nil, err
	}
	return n.RegisterTopic(t), nil
}

// RegisterTopic subscribes to t. It always succeeds.
func (n *Notifier) RegisterTopic(t Topic) *Registration {
	r := newRegistration(t, n.queueCapacity)

	n.mu.Lock()
	n.registrations[t] = append(n.registrations[t], r)
	n.count++
	n.metrics.setSize(n.count, len(n.registrations))
	n.mu.Unlock()

	n.logger.Debug().Str("registration", r.id).Object("topic", t).Msg("registered")
	return r
}

// Unregister removes r. Unknown or already removed registrations are ignored.
func (n *Notifier) Unregister(r *Registration) {
	if r == nil {
		return
	}
	n.mu.Lock()
	list, ok := n.registrations[r.topic]
	idx := -1
	for i, candidate := range list {
		if candidate == r {
			idx = i
			break
		}
	}
	if !ok || idx < 0 {
		n.mu.Unlock()
		return
	}
	if len(list) == 1 {
		delete(n.registrations, r.topic)
	} else {
		rest := make([]*Registration, 0, len(list)-1)
		rest = append(rest, list[:idx]...)
		n.registrations[r.topic] = append(rest, list[idx+1:]...)
	}
	n.count--
	n.metrics.setSize(n.count, len(n.registrations))
	n.mu.Unlock()

	n.logger.Debug().Str("registration", r.id).Object("topic", r.topic).Msg("unregistered")
}

// Publish enqueues ev on every registration whose topic generalizes the
// event's exact topic and returns the number of deliveries. It never blocks.
func (n *Notifier) Publish(ev core.Event) int {
	var targets []*Registration
	n.mu.RLock()
	for _, t := range Generalizations(TopicOf(ev)) {
		targets = append(targets, n.registrations[t]...)
	}
	n.mu.RUnlock()

	// Generalizations holds distinct topics and each registration lives under
	// exactly one topic, so targets has no duplicates.
	dropped := 0
	for _, r := range targets {
		if r.enqueue(ev) {
			dropped++
		}
	}
	n.metrics.observePublish(len(targets), dropped)

	n.logger.Trace().Str("event", ev.ID).Object("topic", TopicOf(ev)).
		Int("deliveries", len(targets)).Int("dropped", dropped).Msg("published")
	if dropped > 0 {
		n.logger.Warn().Str("event", ev.ID).Int("dropped", dropped).Msg("registration queue overflow")
	}
	return len(targets)
}

// TopicCount is a registered topic with its number of registrations.
type TopicCount struct {
	Topic         Topic `json:"topic"`
	Registrations int   `json:"registrations"`
}

// Topics returns the registered topics ordered by their string form.
func (n *Notifier) Topics() []TopicCount {
	n.mu.RLock()
	out := make([]TopicCount, 0, len(n.registrations))
	for t, list := range n.registrations {
		out = append(out, TopicCount{Topic: t, Registrations: len(list)})
	}
	n.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Topic.String() < out[j].Topic.String() })
	return out
}

// Len returns the total number of registrations.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.count
}
