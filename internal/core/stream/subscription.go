package stream

import "sync"

// Source is a push-based producer of values.
type Source[T any] interface {
	// Subscribe attaches a new observer. The caller must Close the
	// returned subscription to release upstream resources.
	Subscribe() *Subscription[T]
}

// Subscription is a single observer's view of a Source.
type Subscription[T any] struct {
	ch   chan T
	done chan struct{}

	mu      sync.Mutex
	closed  bool
	err     error
	onClose func()
}

func newSubscription[T any](onClose func()) *Subscription[T] {
	return &Subscription[T]{
		ch:      make(chan T, 1),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// C returns the value channel. It is closed when the subscription ends,
// either because Close was called or because the source completed.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Done is closed once the subscription has ended.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Err returns the error the source completed with, if any.
// Only meaningful after C has been closed.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the subscription and releases its upstream. Safe to call
// more than once and from any goroutine.
func (s *Subscription[T]) Close() {
	s.finish(nil)
}

// send delivers v, replacing an undelivered value if the reader is behind.
// Reports false once the subscription is closed.
func (s *Subscription[T]) send(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
	return true
}

func (s *Subscription[T]) finish(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.err = err
	close(s.ch)
	close(s.done)
	onClose := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}
