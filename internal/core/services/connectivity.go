package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
	"github.com/custodia-labs/agenda/internal/core/stream"
	"github.com/custodia-labs/agenda/internal/logger"
)

// Ensure ConnectivityFeed implements the interface.
var _ driving.ConnectivityObserver = (*ConnectivityFeed)(nil)

// ConnectivityFeed turns NetworkMonitor callbacks into a connectivity stream.
type ConnectivityFeed struct {
	monitor driven.NetworkMonitor
}

// NewConnectivityFeed creates a new connectivity feed.
func NewConnectivityFeed(monitor driven.NetworkMonitor) *ConnectivityFeed {
	return &ConnectivityFeed{monitor: monitor}
}

// Observe returns a deduplicated connectivity stream. Each subscription
// holds its own monitor registration, released when it closes.
func (f *ConnectivityFeed) Observe() stream.Source[domain.ConnectivityState] {
	return stream.Distinct(stream.FromFunc(f.produce))
}

// Current returns the connectivity state right now.
func (f *ConnectivityFeed) Current(ctx context.Context) (domain.ConnectivityState, error) {
	if f.monitor == nil {
		return domain.ConnectivityUnavailable, domain.ErrNotImplemented
	}
	ok, err := f.monitor.HasDefaultRoute(ctx)
	if err != nil {
		return domain.ConnectivityUnavailable, fmt.Errorf("checking default route: %w", err)
	}
	if ok {
		return domain.ConnectivityAvailable, nil
	}
	return domain.ConnectivityUnavailable, nil
}

func (f *ConnectivityFeed) produce(ctx context.Context, emit func(domain.ConnectivityState)) error {
	if f.monitor == nil {
		return domain.ErrNotImplemented
	}

	state, err := f.Current(ctx)
	if err != nil {
		logger.Warn("connectivity: %v", err)
	}
	emit(state)

	reg, err := f.monitor.Register(callbackFunc(emit))
	if err != nil {
		return fmt.Errorf("registering network callback: %w", err)
	}
	defer func() {
		if err := reg.Unregister(); err != nil {
			logger.Warn("connectivity: unregister: %v", err)
		}
		logger.Debug("connectivity: callback unregistered")
	}()
	logger.Debug("connectivity: callback registered")

	<-ctx.Done()
	return nil
}

// callbackFunc adapts an emit function to driven.NetworkCallback.
type callbackFunc func(domain.ConnectivityState)

func (c callbackFunc) OnAvailable()   { c(domain.ConnectivityAvailable) }
func (c callbackFunc) OnLosing()      { c(domain.ConnectivityLosing) }
func (c callbackFunc) OnLost()        { c(domain.ConnectivityLost) }
func (c callbackFunc) OnUnavailable() { c(domain.ConnectivityUnavailable) }
