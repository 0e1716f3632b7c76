// Package domain defines the core business entities for agenda.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Contact: A locally persisted address book entry
//   - RemoteUser: A transient record fetched from the sample-data API
//   - ConnectivityState: The latest reachability status of the host
//   - ContactsState: The combined snapshot consumed by the rendering layer
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
