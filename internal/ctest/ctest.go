// Package ctest contains helpers for tests involving
// channels and subscribers.
package ctest

import (
	"testing"
	"time"
)

// Wait is how long the helpers in this package wait
// before declaring that a channel operation is not going to happen.
const Wait = time.Second

// ReceiveSoon receives a value from ch,
// failing t if nothing arrives within [Wait].
func ReceiveSoon[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(Wait):
		t.Fatalf("expected to receive on channel within %s", Wait)
		panic("unreachable")
	}
}

// ClosedSoon asserts that ch is closed,
// or becomes closed within [Wait],
// without an intervening value being received.
func ClosedSoon[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("expected channel to be closed, received %v", v)
		}
	case <-time.After(Wait):
		t.Fatalf("expected channel to be closed within %s", Wait)
	}
}

// NotSending asserts that ch has no value ready.
func NotSending[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case v := <-ch:
		t.Fatalf("expected channel to be empty, received %v", v)
	default:
	}
}
