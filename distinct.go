package confluence

import "sync"

// Distinct returns a source that forwards each value of src
// the first time it is seen and suppresses later repeats.
// Completion and errors pass through unchanged.
//
// The set of seen values grows without bound
// for the lifetime of each subscription.
func Distinct[T comparable](src Source[T]) Source[T] {
	return SourceFunc[T](func(sub Subscriber[T]) Subscription {
		var mu sync.Mutex
		seen := make(map[T]struct{})

		return src.Subscribe(SubscriberFuncs[T]{
			Value: func(v T) {
				// Forwarding inside the lock keeps delivery order
				// consistent with the dedup decision
				// when upstream callbacks race.
				mu.Lock()
				defer mu.Unlock()

				if _, dup := seen[v]; dup {
					return
				}
				seen[v] = struct{}{}
				sub.OnValue(v)
			},
			Complete: sub.OnComplete,
			Error:    sub.OnError,
		})
	})
}
