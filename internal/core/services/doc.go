// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The StateAggregator is the heart of the package: it joins the contact
// feed, the loading flag, the error slot and connectivity into a single
// replay-latest ContactsState stream.
//
// Services are pure Go with no CGO or external dependencies.
package services
