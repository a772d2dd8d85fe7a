package confluence

import "sync"

// Source is the minimal capability a push-based stream exposes:
// it can be subscribed to, yielding a cancellable [Subscription].
//
// A source may invoke subscriber callbacks on arbitrary goroutines,
// including synchronously from within Subscribe itself
// when values are already available.
type Source[T any] interface {
	Subscribe(sub Subscriber[T]) Subscription
}

// Subscriber receives the three event kinds a source can produce.
//
// A well-behaved source invokes at most one of OnComplete or OnError,
// exactly once, and invokes no further callbacks afterwards.
// Callbacks must not block, as the abstraction has no backpressure.
type Subscriber[T any] interface {
	OnValue(v T)
	OnComplete()
	OnError(err error)
}

// Subscription is the cancellation handle returned from [Source.Subscribe].
type Subscription interface {
	// Cancel stops delivery of further events.
	//
	// Every Subscription in this module tolerates Cancel
	// being called more than once;
	// calls after the first are no-ops.
	Cancel()
}

// SourceFunc adapts a plain function to [Source],
// avoiding a named type for one-off sources.
type SourceFunc[T any] func(sub Subscriber[T]) Subscription

func (f SourceFunc[T]) Subscribe(sub Subscriber[T]) Subscription {
	return f(sub)
}

// SubscriberFuncs adapts plain functions to [Subscriber].
// Nil fields are treated as no-ops.
type SubscriberFuncs[T any] struct {
	Value    func(T)
	Complete func()
	Error    func(error)
}

func (s SubscriberFuncs[T]) OnValue(v T) {
	if s.Value != nil {
		s.Value(v)
	}
}

func (s SubscriberFuncs[T]) OnComplete() {
	if s.Complete != nil {
		s.Complete()
	}
}

func (s SubscriberFuncs[T]) OnError(err error) {
	if s.Error != nil {
		s.Error(err)
	}
}

// NewSubscription returns a [Subscription] that invokes fn
// on the first call to Cancel and does nothing on later calls.
func NewSubscription(fn func()) Subscription {
	return &onceSubscription{fn: fn}
}

type onceSubscription struct {
	once sync.Once
	fn   func()
}

func (s *onceSubscription) Cancel() {
	s.once.Do(s.fn)
}

// NopSubscription returns a [Subscription] whose Cancel does nothing.
// It is the correct handle for sources that terminate
// synchronously during Subscribe and so have nothing left to cancel.
func NopSubscription() Subscription {
	return nopSubscription{}
}

type nopSubscription struct{}

func (nopSubscription) Cancel() {}
