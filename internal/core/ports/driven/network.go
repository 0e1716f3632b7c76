package driven

import "context"

// NetworkCallback receives reachability changes from a NetworkMonitor.
// Callbacks may be invoked from any goroutine but never concurrently for
// the same registration.
type NetworkCallback interface {
	// OnAvailable is called when a usable network appears.
	OnAvailable()

	// OnLosing is called when the current network is about to be lost.
	OnLosing()

	// OnLost is called when a previously available network disappears.
	OnLost()

	// OnUnavailable is called when no network could be found.
	OnUnavailable()
}

// Registration is the handle for a registered NetworkCallback.
type Registration interface {
	// Unregister stops callbacks. Safe to call more than once.
	Unregister() error
}

// NetworkMonitor is the host reachability primitive.
type NetworkMonitor interface {
	// HasDefaultRoute reports whether a default network route exists now.
	HasDefaultRoute(ctx context.Context) (bool, error)

	// Register starts delivering reachability changes to cb.
	Register(cb NetworkCallback) (Registration, error)
}
