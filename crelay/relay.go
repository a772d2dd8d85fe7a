// Package crelay bridges a [confluence.Source] into plain Go channels,
// for consumers who prefer select loops over subscriber callbacks.
package crelay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gordian-engine/confluence"
)

// DefaultBuffer is the inbox capacity used when [Config.Buffer] is unset.
const DefaultBuffer = 1024

// Config is the configuration passed to [Run].
type Config struct {
	// Buffer is the capacity of the inbox absorbing bursts
	// between the source and the values channel.
	// Zero or negative means DefaultBuffer.
	//
	// Because the source abstraction has no backpressure,
	// values arriving while the inbox is full are dropped and counted;
	// see [*Relay.Drops].
	Buffer int
}

// Relay owns one subscription to a source
// and forwards its values into a channel.
// Construct it with [Run].
type Relay[T any] struct {
	log *slog.Logger

	inbox  chan T
	values chan T

	term     chan struct{}
	termOnce sync.Once

	done chan struct{}

	dropped atomic.Uint64

	mu  sync.Mutex
	err error
}

// Run subscribes to src and starts a background goroutine
// forwarding its values to the channel returned by [*Relay.Values].
//
// The values channel closes when the source terminates
// or ctx is canceled, whichever happens first;
// [*Relay.Wait] then reports the source's error,
// nil for natural completion,
// or the context cause for cancellation.
// Cancelling ctx also cancels the upstream subscription.
//
// log must not be nil.
func Run[T any](
	ctx context.Context,
	log *slog.Logger,
	src confluence.Source[T],
	cfg Config,
) *Relay[T] {
	buf := cfg.Buffer
	if buf <= 0 {
		buf = DefaultBuffer
	}

	r := &Relay[T]{
		log: log,

		inbox:  make(chan T, buf),
		values: make(chan T),

		term: make(chan struct{}),
		done: make(chan struct{}),
	}

	sub := src.Subscribe(confluence.SubscriberFuncs[T]{
		Value:    r.onValue,
		Complete: func() { r.terminate(nil) },
		Error:    r.terminate,
	})

	go r.run(ctx, sub)

	return r
}

// Values returns the channel carrying the source's values.
// It closes on termination; see [Run].
func (r *Relay[T]) Values() <-chan T {
	return r.values
}

// Done returns a channel that closes
// once the relay goroutine has stopped.
func (r *Relay[T]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the relay has stopped
// and returns its terminal error; see [Run].
func (r *Relay[T]) Wait() error {
	<-r.done
	return r.Err()
}

// Err returns the terminal error recorded so far,
// or nil if the relay is still running or completed naturally.
func (r *Relay[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Drops returns how many values were discarded
// because the inbox was full.
func (r *Relay[T]) Drops() uint64 {
	return r.dropped.Load()
}

// onValue runs on the source's goroutine and must not block,
// so a full inbox means the value is dropped.
func (r *Relay[T]) onValue(v T) {
	select {
	case r.inbox <- v:
	default:
		r.dropped.Add(1)
	}
}

func (r *Relay[T]) terminate(err error) {
	r.termOnce.Do(func() {
		r.setErr(err)
		close(r.term)
	})
}

func (r *Relay[T]) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Relay[T]) run(ctx context.Context, sub confluence.Subscription) {
	defer close(r.done)
	defer close(r.values)
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			// Losing a race against source termination is fine here:
			// terminate keeps whichever cause arrived first.
			r.terminate(context.Cause(ctx))
			r.finishLog("Relay stopping due to context cancellation")
			return

		case <-r.term:
			// Values buffered before termination still belong downstream.
			r.drain(ctx)
			r.finishLog("Relay stopping due to source termination")
			return

		case v := <-r.inbox:
			select {
			case r.values <- v:
			case <-ctx.Done():
				r.terminate(context.Cause(ctx))
				r.finishLog("Relay stopping due to context cancellation")
				return
			}
		}
	}
}

func (r *Relay[T]) drain(ctx context.Context) {
	for {
		select {
		case v := <-r.inbox:
			select {
			case r.values <- v:
			case <-ctx.Done():
				return
			}
		default:
			return
		}
	}
}

func (r *Relay[T]) finishLog(msg string) {
	if d := r.dropped.Load(); d > 0 {
		r.log.Warn(
			"Dropped values due to full relay inbox",
			"dropped", d,
		)
	}
	r.log.Debug(msg, "err", r.Err())
}
