package ctest

import (
	"sync"

	"github.com/gordian-engine/confluence"
)

// Recorder is a [confluence.Subscriber] that records
// every event it observes.
//
// Recorder is safe under concurrent callbacks.
type Recorder[T any] struct {
	mu          sync.Mutex
	values      []T
	completions int
	errs        []error
}

var _ confluence.Subscriber[int] = (*Recorder[int])(nil)

// NewRecorder returns an initialized recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

func (r *Recorder[T]) OnValue(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *Recorder[T]) OnComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions++
}

func (r *Recorder[T]) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Values returns a snapshot copy of the recorded values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]T, len(r.values))
	copy(cp, r.values)
	return cp
}

// Completions returns how many times OnComplete was invoked.
// A well-behaved source invokes it at most once.
func (r *Recorder[T]) Completions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completions
}

// Errs returns a snapshot copy of the recorded errors.
func (r *Recorder[T]) Errs() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]error, len(r.errs))
	copy(cp, r.errs)
	return cp
}
