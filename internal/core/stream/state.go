package stream

import "sync"

// Ensure State implements Source.
var _ Source[int] = (*State[int])(nil)

// State is a mutable value with replay-latest semantics. New subscribers
// immediately receive the current value, then every subsequent change.
// Setting a value equal to the current one emits nothing.
type State[T any] struct {
	mu    sync.Mutex
	value T
	equal func(a, b T) bool
	subs  map[*Subscription[T]]struct{}
}

// NewState creates a state holder for a comparable type.
func NewState[T comparable](initial T) *State[T] {
	return NewStateFunc(initial, func(a, b T) bool { return a == b })
}

// NewStateFunc creates a state holder using equal to suppress redundant
// updates. A nil equal emits on every Set.
func NewStateFunc[T any](initial T, equal func(a, b T) bool) *State[T] {
	return &State[T]{
		value: initial,
		equal: equal,
		subs:  make(map[*Subscription[T]]struct{}),
	}
}

// Value returns the current value.
func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value.
func (s *State[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update atomically derives the next value from the current one.
func (s *State[T]) Update(fn func(current T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.value)
	if s.equal != nil && s.equal(s.value, next) {
		return
	}
	s.value = next
	for sub := range s.subs {
		sub.send(next)
	}
}

// Subscribe implements Source.
func (s *State[T]) Subscribe() *Subscription[T] {
	return s.subscribe(nil)
}

// subscribe attaches an observer, running release after it detaches.
func (s *State[T]) subscribe(release func()) *Subscription[T] {
	sub := newSubscription[T](nil)
	sub.onClose = func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
		if release != nil {
			release()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub] = struct{}{}
	sub.send(s.value)
	return sub
}

// Subscribers returns the number of attached observers.
func (s *State[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
