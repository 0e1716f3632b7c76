package domain

import (
	"slices"
	"time"
)

// DefaultGraceWindow is how long the combined state keeps its upstream
// subscriptions alive after the last observer detaches.
const DefaultGraceWindow = 5 * time.Second

// DefaultImportCount is the number of contacts imported when no count is given.
const DefaultImportCount = 10

// ContactsState is the combined snapshot consumed by the rendering layer.
// A new value replaces the previous one wholesale on every change.
type ContactsState struct {
	// Contacts is ordered ascending by name.
	Contacts []Contact

	// IsLoading is true while an import is in flight.
	IsLoading bool

	// Error is the last failure message; empty means no error.
	Error string

	// IsConnected is true iff the latest connectivity state is Available.
	IsConnected bool
}

// InitialContactsState is published before any source has emitted.
func InitialContactsState() ContactsState {
	return ContactsState{
		Contacts:    []Contact{},
		IsLoading:   false,
		Error:       "",
		IsConnected: true,
	}
}

// HasError reports whether an error message is set.
func (s ContactsState) HasError() bool {
	return s.Error != ""
}

// CanImport reports whether an import may be started from this state.
func (s ContactsState) CanImport() bool {
	return s.IsConnected && !s.IsLoading
}

// Equal reports whether two snapshots carry the same values.
func (s ContactsState) Equal(other ContactsState) bool {
	return s.IsLoading == other.IsLoading &&
		s.Error == other.Error &&
		s.IsConnected == other.IsConnected &&
		slices.Equal(s.Contacts, other.Contacts)
}
