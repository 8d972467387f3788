package notifier

import "entity-notifier/internal/core"

var defaultNotifier = New()

// Default returns the process-wide notifier used by the package-level functions.
func Default() *Notifier { return defaultNotifier }

// Register subscribes on the default notifier.
func Register(opts ...TopicOption) (*Registration, error) {
	return defaultNotifier.Register(opts...)
}

// RegisterTopic subscribes to t on the default notifier.
func RegisterTopic(t Topic) *Registration { return defaultNotifier.RegisterTopic(t) }

// Unregister removes r from the default notifier.
func Unregister(r *Registration) { defaultNotifier.Unregister(r) }

// Publish delivers ev through the default notifier.
func Publish(ev core.Event) int { return defaultNotifier.Publish(ev) }
