package stream

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFunc_RunsProducerPerSubscription(t *testing.T) {
	var runs atomic.Int32
	src := FromFunc(func(ctx context.Context, emit func(int)) error {
		runs.Add(1)
		emit(7)
		<-ctx.Done()
		return nil
	})

	a := src.Subscribe()
	b := src.Subscribe()
	defer a.Close()
	defer b.Close()

	assert.Equal(t, 7, next(t, a))
	assert.Equal(t, 7, next(t, b))
	assert.Equal(t, int32(2), runs.Load())
}

func TestFromFunc_CloseRunsCleanup(t *testing.T) {
	released := make(chan struct{})
	src := FromFunc(func(ctx context.Context, emit func(int)) error {
		defer close(released)
		emit(1)
		<-ctx.Done()
		return ctx.Err()
	})

	sub := src.Subscribe()
	assert.Equal(t, 1, next(t, sub))
	sub.Close()

	select {
	case <-released:
	case <-time.After(waitTimeout):
		t.Fatal("producer cleanup did not run")
	}
	waitClosed(t, sub)
	assert.NoError(t, sub.Err(), "cancellation is not reported as an error")
}

func TestFromFunc_CompletionError(t *testing.T) {
	boom := errors.New("boom")
	src := FromFunc(func(_ context.Context, emit func(int)) error {
		emit(1)
		return boom
	})

	sub := src.Subscribe()
	waitClosed(t, sub)

	require.ErrorIs(t, sub.Err(), boom)
}

func TestMap(t *testing.T) {
	s := NewState(2)
	sub := Map[int, string](s, func(v int) string {
		return string(rune('a' + v))
	}).Subscribe()
	defer sub.Close()

	assert.Equal(t, "c", next(t, sub))
	s.Set(3)
	assert.Equal(t, "d", next(t, sub))
}

func TestDistinct_OverState(t *testing.T) {
	s := NewStateFunc(1, nil)
	sub := Distinct[int](s).Subscribe()
	defer sub.Close()

	assert.Equal(t, 1, next(t, sub))
	s.Set(1)
	assertQuiet(t, sub)
	s.Set(2)
	assert.Equal(t, 2, next(t, sub))
}

func TestDistinct_AlternatingValues(t *testing.T) {
	s := NewStateFunc("a", nil)
	sub := Distinct[string](s).Subscribe()
	defer sub.Close()

	assert.Equal(t, "a", next(t, sub))
	s.Set("b")
	assert.Equal(t, "b", next(t, sub))
	s.Set("b")
	assertQuiet(t, sub)
	s.Set("a")
	assert.Equal(t, "a", next(t, sub))
}
