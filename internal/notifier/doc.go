// Package notifier is an in-process, topic based change notification registry.
//
// A Topic is a pattern over four event dimensions: entity type, entity id,
// operation and attribute name. Each dimension is either concrete or a
// wildcard. Subscribers call Register with a pattern and receive a
// Registration whose Queue collects every matching event:
//
//	n := notifier.New()
//	reg, err := n.Register(notifier.WithEntityType("task"))
//	...
//	n.Publish(ev)
//	next, err := reg.Queue().Get(ctx)
//
// Registrations are stored under their exact pattern. Publish does not scan
// the registry; it derives the 16 generalizations of the event's exact topic
// (every subset of dimensions turned into a wildcard) and looks each one up.
// A registration therefore receives an event at most once per Publish, and
// registrations under the same topic receive it in registration order.
//
// Publish never blocks on subscribers. Queues are unbounded by default; with
// WithQueueCapacity the oldest pending event is dropped on overflow and the
// drop is counted.
//
// The package-level Register, Unregister and Publish functions operate on a
// process-wide Default notifier. Tests and embedders that need isolation
// should construct their own with New.
package notifier
