package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agenda/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/stream"
)

const waitTimeout = 2 * time.Second

// fakeRemote is a driven.RemoteContactSource returning canned users.
// When gate is set, FetchUsers blocks until it is closed.
type fakeRemote struct {
	mu        sync.Mutex
	err       error
	gate      chan struct{}
	calls     atomic.Int32
	lastCount atomic.Int32
}

var _ driven.RemoteContactSource = (*fakeRemote)(nil)

func (f *fakeRemote) FetchUsers(ctx context.Context, count int) ([]domain.RemoteUser, error) {
	f.calls.Add(1)
	f.lastCount.Store(int32(count))

	f.mu.Lock()
	gate, err := f.gate, f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return remoteUsers(count), nil
}

func (f *fakeRemote) block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
}

func (f *fakeRemote) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

func (f *fakeRemote) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func remoteUsers(n int) []domain.RemoteUser {
	users := make([]domain.RemoteUser, n)
	for i := range users {
		users[i] = domain.RemoteUser{
			FirstName:       fmt.Sprintf("User%02d", i),
			LastName:        "Test",
			Email:           fmt.Sprintf("user%02d@example.com", i),
			Phone:           fmt.Sprintf("(555) 000-%04d", i),
			LargePictureURL: fmt.Sprintf("https://example.com/large/%d.jpg", i),
		}
	}
	return users
}

// flakyStore is a memory store whose first Watch subscription emits the
// current list and then fails with err. Later subscriptions are live.
type flakyStore struct {
	*memory.ContactStore
	err     error
	watches atomic.Int32
}

var _ driven.ContactStore = (*flakyStore)(nil)

func (s *flakyStore) Watch() stream.Source[[]domain.Contact] {
	inner := s.ContactStore.Watch()
	return stream.FromFunc(func(ctx context.Context, emit func([]domain.Contact)) error {
		if s.watches.Add(1) == 1 {
			contacts, err := s.List(ctx)
			if err != nil {
				return err
			}
			emit(contacts)
			return s.err
		}

		up := inner.Subscribe()
		defer up.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-up.C():
				if !ok {
					return up.Err()
				}
				emit(v)
			}
		}
	})
}

// fakeMonitor is a driven.NetworkMonitor driven by the test.
type fakeMonitor struct {
	mu          sync.Mutex
	route       bool
	routeErr    error
	registerErr error
	callbacks   map[int]driven.NetworkCallback
	nextID      int

	registered   atomic.Int32
	unregistered atomic.Int32
}

var _ driven.NetworkMonitor = (*fakeMonitor)(nil)

func newFakeMonitor(route bool) *fakeMonitor {
	return &fakeMonitor{route: route, callbacks: make(map[int]driven.NetworkCallback)}
}

func (m *fakeMonitor) HasDefaultRoute(context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.route, m.routeErr
}

func (m *fakeMonitor) Register(cb driven.NetworkCallback) (driven.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	m.nextID++
	m.callbacks[m.nextID] = cb
	m.registered.Add(1)
	return &fakeRegistration{monitor: m, id: m.nextID}, nil
}

// active returns the number of live registrations.
func (m *fakeMonitor) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.callbacks)
}

// each invokes fn for every live registration.
func (m *fakeMonitor) each(fn func(driven.NetworkCallback)) {
	m.mu.Lock()
	cbs := make([]driven.NetworkCallback, 0, len(m.callbacks))
	for _, cb := range m.callbacks {
		cbs = append(cbs, cb)
	}
	m.mu.Unlock()
	for _, cb := range cbs {
		fn(cb)
	}
}

type fakeRegistration struct {
	monitor *fakeMonitor
	id      int
	once    sync.Once
}

func (r *fakeRegistration) Unregister() error {
	r.once.Do(func() {
		r.monitor.mu.Lock()
		delete(r.monitor.callbacks, r.id)
		r.monitor.mu.Unlock()
		r.monitor.unregistered.Add(1)
	})
	return nil
}

// fakeOpener records opened URLs.
type fakeOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (o *fakeOpener) Open(_ context.Context, link string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, link)
	return nil
}

// next receives one value or fails the test.
func next[T any](t *testing.T, sub *stream.Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-sub.C():
		require.True(t, ok, "subscription closed unexpectedly")
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

// waitFor receives values until match returns true.
func waitFor[T any](t *testing.T, sub *stream.Subscription[T], match func(T) bool) T {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case v, ok := <-sub.C():
			require.True(t, ok, "subscription closed unexpectedly")
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching value")
		}
	}
}
