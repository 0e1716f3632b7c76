package network

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/logger"
)

// Ensure Monitor implements the interface.
var _ driven.NetworkMonitor = (*Monitor)(nil)

// DefaultPollInterval is how often the routing table is checked.
const DefaultPollInterval = 2 * time.Second

// probeTimeout bounds a single reachability probe.
const probeTimeout = 3 * time.Second

// Config configures a Monitor.
type Config struct {
	// PollInterval is how often the route is checked. Defaults to DefaultPollInterval.
	PollInterval time.Duration

	// ProbeAddress is an optional host:port dialled while a route exists.
	ProbeAddress string
}

// Monitor is a polling network monitor.
type Monitor struct {
	interval  time.Duration
	probeAddr string

	routeFn func(ctx context.Context) (bool, error)
	probeFn func(ctx context.Context, addr string) bool
}

// NewMonitor creates a new network monitor.
func NewMonitor(cfg Config) *Monitor {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		interval:  interval,
		probeAddr: cfg.ProbeAddress,
		routeFn:   hasDefaultRoute,
		probeFn:   probe,
	}
}

// HasDefaultRoute reports whether a default route exists now.
func (m *Monitor) HasDefaultRoute(ctx context.Context) (bool, error) {
	return m.routeFn(ctx)
}

// Register starts polling for cb. The callback sees OnAvailable or
// OnUnavailable for the state at registration, then one call per change.
func (m *Monitor) Register(cb driven.NetworkCallback) (driven.Registration, error) {
	ctx, cancel := context.WithCancel(context.Background())
	reg := &registration{cancel: cancel, done: make(chan struct{})}
	go m.poll(ctx, cb, reg.done)
	return reg, nil
}

// status is the monitor's view of the network between polls.
type status int

const (
	statusUnknown status = iota
	statusNone
	statusUp
	statusLosing
	statusLost
)

func (s status) String() string {
	switch s {
	case statusNone:
		return "none"
	case statusUp:
		return "up"
	case statusLosing:
		return "losing"
	case statusLost:
		return "lost"
	default:
		return "unknown"
	}
}

func (m *Monitor) poll(ctx context.Context, cb driven.NetworkCallback, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	current := statusUnknown
	for {
		next := m.check(ctx, current)
		if ctx.Err() != nil {
			return
		}
		if next != current {
			logger.Debug("network: %s -> %s", current, next)
			deliver(cb, current, next)
			current = next
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// check derives the next status from the route and the optional probe.
func (m *Monitor) check(ctx context.Context, current status) status {
	up, err := m.routeFn(ctx)
	if err != nil {
		logger.Warn("network: route check: %v", err)
		up = false
	}

	if !up {
		switch current {
		case statusUp, statusLosing, statusLost:
			return statusLost
		default:
			return statusNone
		}
	}

	if m.probeAddr == "" {
		return statusUp
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if m.probeFn(probeCtx, m.probeAddr) {
		return statusUp
	}
	if current == statusUp || current == statusLosing {
		return statusLosing
	}
	// A route that has never been reachable is reported as available so
	// callers can still try; losing only applies to a degrading link.
	return statusUp
}

func deliver(cb driven.NetworkCallback, from, to status) {
	switch to {
	case statusUp:
		cb.OnAvailable()
	case statusLosing:
		cb.OnLosing()
	case statusLost:
		if from != statusLost {
			cb.OnLost()
		}
	case statusNone:
		cb.OnUnavailable()
	}
}

// registration stops one polling loop.
type registration struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

// Unregister stops callbacks and waits for the polling loop to exit.
func (r *registration) Unregister() error {
	r.once.Do(func() {
		r.cancel()
		<-r.done
	})
	return nil
}
