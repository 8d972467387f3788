package notifier

import "github.com/rs/zerolog"

// Option configures a Notifier.
type Option func(*Notifier)

// WithQueueCapacity bounds every registration queue created by the notifier.
// Zero keeps queues unbounded; on overflow the oldest event is dropped.
func WithQueueCapacity(capacity int) Option {
	return func(n *Notifier) {
		if capacity >= 0 {
			n.queueCapacity = capacity
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(n *Notifier) { n.metrics = m }
}
