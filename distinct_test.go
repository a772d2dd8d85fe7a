package confluence_test

import (
	"errors"
	"testing"

	"github.com/gordian-engine/confluence"
	"github.com/gordian-engine/confluence/internal/ctest"
	"github.com/stretchr/testify/require"
)

func TestDistinct_suppressesRepeats(t *testing.T) {
	t.Parallel()

	p := confluence.NewPipe[string]()

	rec := ctest.NewRecorder[string]()
	confluence.Distinct[string](p).Subscribe(rec)

	p.Publish("a")
	p.Publish("b")
	p.Publish("a")
	p.Publish("c")
	p.Publish("b")

	require.Equal(t, []string{"a", "b", "c"}, rec.Values())
}

func TestDistinct_terminalEventsPassThrough(t *testing.T) {
	t.Run("completion", func(t *testing.T) {
		t.Parallel()

		rec := ctest.NewRecorder[int]()
		confluence.Distinct(confluence.Slice([]int{1, 1, 2})).Subscribe(rec)

		require.Equal(t, []int{1, 2}, rec.Values())
		require.Equal(t, 1, rec.Completions())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")

		rec := ctest.NewRecorder[int]()
		confluence.Distinct(confluence.Failed[int](boom)).Subscribe(rec)

		require.Equal(t, []error{boom}, rec.Errs())
		require.Zero(t, rec.Completions())
	})
}

func TestDistinct_seenSetIsPerSubscription(t *testing.T) {
	t.Parallel()

	src := confluence.Distinct(confluence.Slice([]int{1, 1, 2}))

	r1 := ctest.NewRecorder[int]()
	src.Subscribe(r1)

	// A fresh subscription starts with an empty seen set.
	r2 := ctest.NewRecorder[int]()
	src.Subscribe(r2)

	require.Equal(t, []int{1, 2}, r1.Values())
	require.Equal(t, []int{1, 2}, r2.Values())
}
