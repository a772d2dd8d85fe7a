package confluence

import (
	"fmt"
	"sync"
)

// Pipe is a hot, manually driven [Source].
//
// A single logical publisher pushes events with
// [*Pipe.Publish], [*Pipe.Close], and [*Pipe.Fail];
// any number of subscribers observe events pushed after they subscribed.
// Subscribers who arrive after the pipe has terminated
// immediately observe the terminal event.
//
// Events are delivered synchronously on the publisher's goroutine.
// The pipe's internal lock is not held during delivery,
// so a subscriber may cancel its own subscription from within a callback;
// a cancellation that races with an in-flight event
// may still observe that one event.
type Pipe[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]Subscriber[T]
	nextID uint64

	terminated bool
	err        error
}

// NewPipe returns an initialized pipe.
func NewPipe[T any]() *Pipe[T] {
	return &Pipe[T]{
		subs: make(map[uint64]Subscriber[T]),
	}
}

// Subscribe registers sub to observe future events.
//
// If the pipe has already terminated,
// sub immediately observes the terminal event
// and the returned subscription is a no-op.
func (p *Pipe[T]) Subscribe(sub Subscriber[T]) Subscription {
	p.mu.Lock()
	if p.terminated {
		err := p.err
		p.mu.Unlock()

		if err != nil {
			sub.OnError(err)
		} else {
			sub.OnComplete()
		}
		return NopSubscription()
	}

	id := p.nextID
	p.nextID++
	p.subs[id] = sub
	p.mu.Unlock()

	return NewSubscription(func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	})
}

// Publish pushes v to every current subscriber.
//
// If the pipe has already terminated, Publish panics.
func (p *Pipe[T]) Publish(v T) {
	for _, sub := range p.snapshot("Publish") {
		sub.OnValue(v)
	}
}

// Close terminates the pipe,
// delivering completion to every current subscriber.
//
// If the pipe has already terminated, Close panics.
func (p *Pipe[T]) Close() {
	p.terminate(nil, "Close")
}

// Fail terminates the pipe,
// delivering err to every current subscriber.
//
// If the pipe has already terminated, Fail panics.
func (p *Pipe[T]) Fail(err error) {
	if err == nil {
		panic(fmt.Errorf("BUG: (*Pipe).Fail requires a non-nil error"))
	}
	p.terminate(err, "Fail")
}

func (p *Pipe[T]) snapshot(method string) []Subscriber[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.terminated {
		panic(fmt.Errorf("BUG: (*Pipe).%s called after pipe terminated", method))
	}

	out := make([]Subscriber[T], 0, len(p.subs))
	for _, sub := range p.subs {
		out = append(out, sub)
	}
	return out
}

func (p *Pipe[T]) terminate(err error, method string) {
	p.mu.Lock()
	if p.terminated {
		p.mu.Unlock()
		panic(fmt.Errorf("BUG: (*Pipe).%s called after pipe terminated", method))
	}

	p.terminated = true
	p.err = err

	subs := make([]Subscriber[T], 0, len(p.subs))
	for _, sub := range p.subs {
		subs = append(subs, sub)
	}
	clear(p.subs)
	p.mu.Unlock()

	for _, sub := range subs {
		if err != nil {
			sub.OnError(err)
		} else {
			sub.OnComplete()
		}
	}
}
