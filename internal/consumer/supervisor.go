package consumer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"entity-notifier/internal/notifier"
)

// ErrDuplicateConsumer is returned by Add for a name already in use.
var ErrDuplicateConsumer = errors.New("duplicate consumer")

// Supervisor owns a set of named consumers registered on one notifier.
type Supervisor struct {
	n         *notifier.Notifier
	logger    zerolog.Logger
	consumers map[string]*Consumer
	mu        sync.RWMutex
}

// NewSupervisor returns an empty Supervisor for n.
func NewSupervisor(n *notifier.Notifier, logger zerolog.Logger) *Supervisor {
	return &Supervisor{n: n, logger: logger, consumers: make(map[string]*Consumer)}
}

// Add registers t on the notifier and creates a consumer draining it.
func (s *Supervisor) Add(name string, t notifier.Topic, h Handler) (*Consumer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consumers[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateConsumer, name)
	}
	c := New(name, s.n.RegisterTopic(t), h, s.logger)
	s.consumers[name] = c
	return c, nil
}

// Names returns the consumer names in sorted order.
func (s *Supervisor) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.consumers))
	for name := range s.consumers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run runs every consumer until ctx is cancelled or one of them fails, then
// unregisters all of them. Consumers added after Run starts are not run.
func (s *Supervisor) Run(ctx context.Context) error {
	s.mu.RLock()
	consumers := make([]*Consumer, 0, len(s.consumers))
	for _, c := range s.consumers {
		consumers = append(consumers, c)
	}
	s.mu.RUnlock()

	defer s.unregisterAll()

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range consumers {
		c := c
		g.Go(func() error { return c.Run(ctx) })
	}
	s.logger.Info().Int("consumers", len(consumers)).Msg("consumers started")
	return g.Wait()
}

func (s *Supervisor) unregisterAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, c := range s.consumers {
		s.n.Unregister(c.reg)
		delete(s.consumers, name)
	}
}

// Registrar adds named consumers to a Supervisor, choosing each handler by name.
// It satisfies catalog.Registrar.
type Registrar struct {
	s       *Supervisor
	handler func(name string) Handler
}

// Registrar returns an adapter that adds a consumer per registered name.
func (s *Supervisor) Registrar(handler func(name string) Handler) *Registrar {
	return &Registrar{s: s, handler: handler}
}

// RegisterNamed adds a consumer called name draining t.
func (r *Registrar) RegisterNamed(name string, t notifier.Topic) (*notifier.Registration, error) {
	c, err := r.s.Add(name, t, r.handler(name))
	if err != nil {
		return nil, err
	}
	return c.Registration(), nil
}
