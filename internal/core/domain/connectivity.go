package domain

// ConnectivityState is the latest known reachability of the host network.
type ConnectivityState int

// Connectivity states reported by the network monitor.
const (
	// ConnectivityAvailable means a default route exists and is usable.
	ConnectivityAvailable ConnectivityState = iota
	// ConnectivityUnavailable means no network was found.
	ConnectivityUnavailable
	// ConnectivityLosing means the network is about to be lost.
	ConnectivityLosing
	// ConnectivityLost means a previously available network went away.
	ConnectivityLost
)

// String returns the string representation of the state.
func (s ConnectivityState) String() string {
	switch s {
	case ConnectivityAvailable:
		return "available"
	case ConnectivityUnavailable:
		return "unavailable"
	case ConnectivityLosing:
		return "losing"
	case ConnectivityLost:
		return "lost"
	default:
		return "unknown"
	}
}

// IsConnected reports whether the state counts as online.
// Only Available does; every other state maps to offline.
func (s ConnectivityState) IsConnected() bool {
	return s == ConnectivityAvailable
}
