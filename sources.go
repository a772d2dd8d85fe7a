package confluence

// Empty returns a source that completes immediately upon subscription,
// producing no values.
func Empty[T any]() Source[T] {
	return SourceFunc[T](func(sub Subscriber[T]) Subscription {
		sub.OnComplete()
		return NopSubscription()
	})
}

// Never returns a source that produces no events at all
// for the lifetime of any subscription.
func Never[T any]() Source[T] {
	return SourceFunc[T](func(Subscriber[T]) Subscription {
		return NopSubscription()
	})
}

// Failed returns a source that reports err immediately upon subscription.
func Failed[T any](err error) Source[T] {
	return SourceFunc[T](func(sub Subscriber[T]) Subscription {
		sub.OnError(err)
		return NopSubscription()
	})
}

// Slice returns a source that synchronously pushes every value in vals,
// in order, during Subscribe, and then completes.
//
// Because delivery finishes before Subscribe returns,
// the returned subscription has nothing to cancel.
func Slice[T any](vals []T) Source[T] {
	return SourceFunc[T](func(sub Subscriber[T]) Subscription {
		for _, v := range vals {
			sub.OnValue(v)
		}
		sub.OnComplete()
		return NopSubscription()
	})
}
