// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContactStore: Contact persistence with a live, ordered view
//   - RemoteContactSource: Fetches sample users from a remote service
//   - NetworkMonitor: Host reachability callbacks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - URLOpener: Hands tel: and https: links to the operating system.
//     Without it, contact actions only build URLs.
//
// # Import Rules
//
//   - Can Import: domain and stream packages only
//   - Cannot Import: Any adapter package
package driven
