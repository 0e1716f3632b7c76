// Package tui provides an interactive terminal user interface for agenda.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// ViewModel supplies the combined contacts state and accepts intents.
	ViewModel driving.ContactsViewModel

	// Actions opens calls and chats for a contact.
	Actions driving.ContactActionService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	viewModel driving.ContactsViewModel,
	actions driving.ContactActionService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		ViewModel: viewModel,
		Actions:   actions,
		Settings:  settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.ViewModel == nil {
		return ErrMissingViewModel
	}
	if p.Actions == nil {
		return ErrMissingActionService
	}
	return nil
}
