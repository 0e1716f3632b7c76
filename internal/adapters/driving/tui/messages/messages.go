// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/agenda/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewContacts is the contact list.
	ViewContacts ViewType = iota
	// ViewEdit is the contact edit form.
	ViewEdit
	// ViewSettings shows the current settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewContacts:
		return "contacts"
	case ViewEdit:
		return "edit"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// StateUpdated carries a new combined snapshot from the view model.
type StateUpdated struct {
	State domain.ContactsState
}

// StateStreamEnded signals the state subscription has finished.
type StateStreamEnded struct {
	Err error
}

// EditRequested asks the app to open the edit form for a contact.
type EditRequested struct {
	Contact domain.Contact
}

// EditSubmitted carries the edited contact back from the form.
type EditSubmitted struct {
	Contact domain.Contact
}

// ActionCompleted signals a call or message link was opened.
type ActionCompleted struct {
	Action string
	Link   string
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsChanged signals the configuration file was reloaded.
type SettingsChanged struct{}

// SettingsSaved signals a setting was saved.
type SettingsSaved struct {
	Key string
	Err error
}
