// Package cascade combines an ordered list of sources into one stream
// that always forwards the most senior source currently producing.
//
// Subscriptions to every source are opened up front.
// When a source later in the list produces a value,
// every source earlier in the list is cancelled,
// and the switch is irrevocable:
// the activation cursor only ever moves forward.
//
// The output completes once every source at or after the cursor
// has completed, and any source error,
// even from an already-superseded source,
// terminates the whole output immediately.
package cascade
