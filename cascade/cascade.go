package cascade

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/confluence"
)

// New returns a source that subscribes to every source in order
// and forwards output from whichever source is currently active.
//
// A source becomes active by producing a value;
// doing so cancels every source earlier in the list,
// and the advance is irrevocable for the lifetime of the subscription.
// The output completes once every source at or after
// the activation point has completed.
// An error from any source, active or already superseded,
// is forwarded downstream and terminates the whole output.
//
// With no sources, the returned source completes immediately
// upon subscription.
func New[T any](sources ...confluence.Source[T]) confluence.Source[T] {
	srcs := make([]confluence.Source[T], len(sources))
	copy(srcs, sources)

	return confluence.SourceFunc[T](func(sub confluence.Subscriber[T]) confluence.Subscription {
		return subscribe(srcs, sub)
	})
}

// From is the companion form taking one leading source.
// It is equivalent to prepending first to rest and calling [New].
func From[T any](first confluence.Source[T], rest ...confluence.Source[T]) confluence.Source[T] {
	srcs := make([]confluence.Source[T], 0, len(rest)+1)
	srcs = append(srcs, first)
	srcs = append(srcs, rest...)
	return New(srcs...)
}

// phase is the lifecycle of one cascade subscription.
// The three terminal phases are each reached at most once,
// and no event is processed afterwards.
type phase uint8

const (
	running phase = iota
	completed
	errored
	cancelled
)

// state is the shared state of one cascade subscription.
//
// Every field is guarded by mu,
// and every downstream emission happens while holding mu,
// so the events delivered downstream form a strict total order
// matching the order in which competing callbacks took the lock.
type state[T any] struct {
	mu sync.Mutex

	down confluence.Subscriber[T]

	// slots[i] is non-nil only while source i's subscription is live.
	slots []confluence.Subscription

	// current is the index of the earliest source not yet superseded.
	// Every slot below current is nil, and current never decreases.
	current int

	// finished has bit i set once source i has signaled completion.
	// It decides whether a subscription handle returned by the setup pass
	// still deserves a slot, when the source completed synchronously
	// before the handle existed.
	finished *bitset.BitSet

	// initialized is false until the setup pass has attempted
	// every source. Completion scans are deferred until then,
	// so that a source completing synchronously during setup
	// cannot report completion against a partially built table.
	initialized bool

	phase phase
}

func subscribe[T any](srcs []confluence.Source[T], down confluence.Subscriber[T]) confluence.Subscription {
	st := &state[T]{
		down:     down,
		slots:    make([]confluence.Subscription, len(srcs)),
		finished: bitset.New(uint(len(srcs))),
	}

	if len(srcs) == 0 {
		st.phase = completed
		down.OnComplete()
		return st
	}

	// The setup pass does not hold mu across Subscribe calls:
	// a source delivering synchronously re-enters through
	// the normal event paths and is serialized like any other callback.
	for i, src := range srcs {
		i := i
		handle := src.Subscribe(confluence.SubscriberFuncs[T]{
			Value:    func(v T) { st.onValue(i, v) },
			Complete: func() { st.onComplete(i) },
			Error:    st.onError,
		})
		st.register(i, handle)
	}

	st.mu.Lock()
	st.initialized = true
	// One authoritative check, for sources that completed during setup.
	st.maybeComplete()
	st.mu.Unlock()

	return st
}

// register stores the subscription handle produced by the setup pass,
// unless events that already arrived made source i irrelevant.
func (st *state[T]) register(i int, handle confluence.Subscription) {
	st.mu.Lock()
	keep := st.phase == running &&
		i >= st.current &&
		!st.finished.Test(uint(i))
	if keep {
		st.slots[i] = handle
	}
	st.mu.Unlock()

	if !keep {
		handle.Cancel()
	}
}

func (st *state[T]) onValue(i int, v T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.phase != running {
		return
	}

	if i >= st.current {
		// Source i is the new frontier;
		// tear down everything strictly earlier.
		for k := st.current; k < i; k++ {
			if s := st.slots[k]; s != nil {
				s.Cancel()
				st.slots[k] = nil
			}
		}
		st.current = i
	}

	st.down.OnValue(v)
}

func (st *state[T]) onComplete(i int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.phase != running {
		return
	}

	st.finished.Set(uint(i))

	if s := st.slots[i]; s != nil {
		s.Cancel()
		st.slots[i] = nil
	}

	if i < st.current {
		// Stale source; its completion cannot exhaust the cascade.
		return
	}

	if st.initialized {
		st.maybeComplete()
	}
}

func (st *state[T]) onError(err error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.phase != running {
		return
	}

	st.phase = errored
	st.teardownLocked()
	st.down.OnError(err)
}

// maybeComplete signals completion downstream once every source
// at or after the cursor has been torn down.
// After initialization, a nil slot at or after the cursor
// can only mean that source completed.
func (st *state[T]) maybeComplete() {
	for k := st.current; k < len(st.slots); k++ {
		if st.slots[k] != nil {
			return
		}
	}

	st.phase = completed
	st.down.OnComplete()
}

func (st *state[T]) teardownLocked() {
	for k, s := range st.slots {
		if s != nil {
			s.Cancel()
			st.slots[k] = nil
		}
	}
}

// Cancel implements the output subscription,
// cancelling every still-live source subscription.
// Cancelling twice, or after natural completion or error, is a no-op.
func (st *state[T]) Cancel() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.phase != running {
		return
	}

	st.phase = cancelled
	st.teardownLocked()
}
