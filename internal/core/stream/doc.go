// Package stream provides the small set of reactive primitives the core
// uses to model live data: replay-latest state holders, cold sources built
// from producer functions, a latest-of-each join and a ref-counted share
// with a release grace window.
//
// Delivery is conflating. Every subscription owns a one-slot buffer and a
// slow reader always observes the most recent value, never a stale backlog.
// Values on a single subscription are delivered in order by one goroutine,
// so a reader never processes two emissions concurrently.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package stream
