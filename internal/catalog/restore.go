package catalog

import (
	"context"
	"fmt"

	"entity-notifier/internal/notifier"
)

// Registrar registers a named subscription and returns its registration.
type Registrar interface {
	RegisterNamed(name string, t notifier.Topic) (*notifier.Registration, error)
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(name string, t notifier.Topic) (*notifier.Registration, error)

// RegisterNamed calls f.
func (f RegistrarFunc) RegisterNamed(name string, t notifier.Topic) (*notifier.Registration, error) {
	return f(name, t)
}

// NotifierRegistrar registers stored subscriptions directly on n, ignoring names.
func NotifierRegistrar(n *notifier.Notifier) Registrar {
	return RegistrarFunc(func(_ string, t notifier.Topic) (*notifier.Registration, error) {
		return n.RegisterTopic(t), nil
	})
}

// Restore registers every stored subscription on r, except those for which
// skip returns true, and returns the registrations keyed by subscription name.
// A nil skip restores everything.
func Restore(ctx context.Context, s Store, r Registrar, skip func(name string) bool) (map[string]*notifier.Registration, error) {
	topics, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	regs := make(map[string]*notifier.Registration, len(topics))
	for name, t := range topics {
		if skip != nil && skip(name) {
			continue
		}
		reg, err := r.RegisterNamed(name, t)
		if err != nil {
			return regs, fmt.Errorf("restore %s: %w", name, err)
		}
		regs[name] = reg
	}
	return regs, nil
}
