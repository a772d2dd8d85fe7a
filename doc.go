// Package confluence contains the core APIs for combining push-based streams.
//
// A stream is anything implementing [Source]:
// it can be subscribed to with a [Subscriber],
// yielding a cancellable [Subscription].
// Sources push events on goroutines of their own choosing,
// and the abstraction has no backpressure,
// so subscriber callbacks must not block.
//
// The interesting combinator lives in the cascade subpackage.
// The crelay subpackage bridges a source into plain Go channels.
package confluence
