package mcp

import (
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Contacts reads and modifies the address book.
	Contacts driving.ContactRepository

	// Actions builds call and chat links. Optional.
	Actions driving.ContactActionService

	// Connectivity reports the network state. Optional.
	Connectivity driving.ConnectivityObserver
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Contacts == nil {
		return ErrMissingContactRepository
	}
	return nil
}
