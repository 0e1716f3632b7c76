package stream

import "context"

// ProduceFunc feeds values into emit until ctx is cancelled or the
// producer has nothing more to send. Returning ends the subscription;
// a non-nil error is reported through Subscription.Err.
type ProduceFunc[T any] func(ctx context.Context, emit func(T)) error

// FromFunc returns a cold source. Every subscription runs its own copy
// of produce on a dedicated goroutine, and closing the subscription
// cancels the producer's context. Resources acquired by the producer
// should be released with defer so cleanup runs on every exit path.
func FromFunc[T any](produce ProduceFunc[T]) Source[T] {
	return funcSource[T]{produce: produce}
}

type funcSource[T any] struct {
	produce ProduceFunc[T]
}

// Subscribe implements Source.
func (f funcSource[T]) Subscribe() *Subscription[T] {
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription[T](cancel)
	go func() {
		err := f.produce(ctx, func(v T) { sub.send(v) })
		if ctx.Err() != nil {
			err = nil
		}
		sub.finish(err)
		cancel()
	}()
	return sub
}

// Map transforms every value of src with fn.
func Map[T, R any](src Source[T], fn func(T) R) Source[R] {
	return FromFunc(func(ctx context.Context, emit func(R)) error {
		up := src.Subscribe()
		defer up.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-up.C():
				if !ok {
					return up.Err()
				}
				emit(fn(v))
			}
		}
	})
}

// Distinct suppresses consecutive duplicate values.
func Distinct[T comparable](src Source[T]) Source[T] {
	return DistinctFunc(src, func(a, b T) bool { return a == b })
}

// DistinctFunc suppresses consecutive values that equal reports as the same.
func DistinctFunc[T any](src Source[T], equal func(a, b T) bool) Source[T] {
	return FromFunc(func(ctx context.Context, emit func(T)) error {
		up := src.Subscribe()
		defer up.Close()
		var last T
		seen := false
		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-up.C():
				if !ok {
					return up.Err()
				}
				if seen && equal(last, v) {
					continue
				}
				last, seen = v, true
				emit(v)
			}
		}
	})
}
