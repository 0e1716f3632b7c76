package stream

import (
	"sync"
	"time"
)

// DefaultRetryDelay is how long Shared waits before resubscribing an
// upstream that failed while observed.
const DefaultRetryDelay = 250 * time.Millisecond

// Ensure Shared implements Source.
var _ Source[int] = (*Shared[int])(nil)

// Shared turns a cold source into a hot, replay-latest state shared by
// every subscriber.
//
// The upstream is subscribed when the first observer attaches. When the
// last observer detaches, the upstream is kept alive for the grace window
// and only then released; an observer arriving inside the window reuses
// the live upstream. The latest value survives a release and is replayed
// to later observers until the upstream produces a new one.
type Shared[T any] struct {
	src     Source[T]
	grace   time.Duration
	state   *State[T]
	retry   time.Duration
	onError func(error)

	mu         sync.Mutex
	refs       int
	upstream   *Subscription[T]
	timer      *time.Timer
	retryTimer *time.Timer
	gen        uint64
	starts     int
	closed     bool
}

// Share wraps src. initial is replayed until the upstream emits; equal
// suppresses redundant emissions (nil emits every value).
func Share[T any](src Source[T], initial T, grace time.Duration, equal func(a, b T) bool) *Shared[T] {
	return &Shared[T]{
		src:   src,
		grace: grace,
		state: NewStateFunc(initial, equal),
		retry: DefaultRetryDelay,
	}
}

// WithRetryDelay sets the pause before a failed upstream is resubscribed.
// Values <= 0 resubscribe immediately.
func (s *Shared[T]) WithRetryDelay(d time.Duration) *Shared[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retry = d
	return s
}

// OnError registers fn to receive upstream failures. fn runs on the
// pump goroutine and must not block.
func (s *Shared[T]) OnError(fn func(error)) *Shared[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
	return s
}

// Subscribe implements Source.
func (s *Shared[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	s.refs++
	s.cancelTimer()
	if s.upstream == nil && !s.closed {
		s.start()
	}
	s.mu.Unlock()

	return s.state.subscribe(s.release)
}

// Value returns the latest shared value.
func (s *Shared[T]) Value() T {
	return s.state.Value()
}

// Active reports whether the upstream is currently subscribed.
func (s *Shared[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upstream != nil
}

// Starts returns how many times the upstream has been subscribed.
func (s *Shared[T]) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Close releases the upstream immediately and stops future restarts.
// Existing subscriptions keep their last value but receive no more.
func (s *Shared[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelTimer()
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	s.stop()
}

// start subscribes the upstream and pumps it into the shared state.
// Caller must hold mu.
func (s *Shared[T]) start() {
	up := s.src.Subscribe()
	s.upstream = up
	s.starts++
	go s.pump(up)
}

// pump copies values from up into the shared state until up ends. Values
// still buffered from a released upstream are dropped.
func (s *Shared[T]) pump(up *Subscription[T]) {
	for v := range up.C() {
		s.mu.Lock()
		if s.upstream == up {
			s.state.Set(v)
		}
		s.mu.Unlock()
	}

	err := up.Err()
	s.mu.Lock()
	if s.upstream != up {
		s.mu.Unlock()
		return
	}
	s.upstream = nil
	onError := s.onError
	if err != nil && !s.closed && s.refs > 0 {
		s.scheduleRetry()
	}
	s.mu.Unlock()

	if err != nil && onError != nil {
		onError(err)
	}
}

// scheduleRetry resubscribes the upstream after the retry delay if it is
// still wanted. Caller must hold mu.
func (s *Shared[T]) scheduleRetry() {
	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.AfterFunc(max(s.retry, 0), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.retryTimer = nil
		if s.closed || s.refs == 0 || s.upstream != nil {
			return
		}
		s.start()
	})
}

// stop releases the upstream. Caller must hold mu.
func (s *Shared[T]) stop() {
	if s.upstream == nil {
		return
	}
	up := s.upstream
	s.upstream = nil
	up.Close()
}

// cancelTimer aborts a pending release. Caller must hold mu.
func (s *Shared[T]) cancelTimer() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Shared[T]) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs--
	if s.refs > 0 || s.upstream == nil {
		return
	}
	if s.grace <= 0 {
		s.stop()
		return
	}
	gen := s.gen
	s.timer = time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || s.refs > 0 {
			return
		}
		s.timer = nil
		s.stop()
	})
}
