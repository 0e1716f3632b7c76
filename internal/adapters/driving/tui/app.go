package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/views/contacts"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/views/edit"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/stream"
	"github.com/custodia-labs/agenda/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// styles holds the TUI styles.
	styles *styles.Styles

	keymap *keymap.KeyMap

	contactsView *contacts.View
	editView     *edit.View
	settingsView *settings.View

	// sub is the live subscription to the view model state.
	mu  sync.Mutex
	sub *stream.Subscription[domain.ContactsState]

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	return &App{
		ports:        ports,
		styles:       s,
		keymap:       keymap.DefaultKeyMap(),
		contactsView: contacts.NewView(s, ports.ViewModel, ports.Actions),
		editView:     edit.NewView(s),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewContacts,
	}, nil
}

// WithContext sets the context used for contact actions.
func (a *App) WithContext(ctx context.Context) *App {
	a.contactsView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
// It subscribes to the view model state.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("agenda"),
		a.subscribe(),
	)
}

// subscribe attaches to the state stream and returns the first wait.
func (a *App) subscribe() tea.Cmd {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sub == nil {
		logger.Debug("tui: subscribing to contacts state")
		a.sub = a.ports.ViewModel.ObserveState().Subscribe()
	}
	return waitForState(a.sub)
}

// waitForState blocks until the next snapshot or the end of the stream.
func waitForState(sub *stream.Subscription[domain.ContactsState]) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-sub.C()
		if !ok {
			return messages.StateStreamEnded{Err: sub.Err()}
		}
		return messages.StateUpdated{State: state}
	}
}

// Close releases the state subscription. Safe to call more than once.
func (a *App) Close() {
	a.mu.Lock()
	sub := a.sub
	a.sub = nil
	a.mu.Unlock()
	if sub != nil {
		sub.Close()
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.contactsView.SetDimensions(msg.Width, msg.Height)
		a.editView.SetDimensions(msg.Width, msg.Height)
		a.settingsView, _ = a.settingsView.Update(msg)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewContacts:
			a.contactsView, cmd = a.contactsView.Update(msg)
		case messages.ViewEdit:
			a.editView, cmd = a.editView.Update(msg)
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
		case messages.ViewHelp:
			if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Help) {
				a.currentView = messages.ViewContacts
			}
		}
		return a, cmd

	case messages.StateUpdated:
		a.contactsView, _ = a.contactsView.Update(msg)
		a.mu.Lock()
		sub := a.sub
		a.mu.Unlock()
		if sub == nil {
			return a, nil
		}
		return a, waitForState(sub)

	case messages.StateStreamEnded:
		if msg.Err != nil {
			logger.Warn("tui: state stream ended: %v", msg.Err)
			a.err = msg.Err
		}
		return a, nil

	case messages.ActionCompleted:
		if msg.Err != nil {
			logger.Warn("tui: %s failed: %v", msg.Action, msg.Err)
		}
		a.contactsView, cmd = a.contactsView.Update(msg)
		return a, cmd

	case messages.EditRequested:
		a.currentView = messages.ViewEdit
		return a, a.editView.SetContact(msg.Contact)

	case messages.EditSubmitted:
		a.ports.ViewModel.UpdateContact(msg.Contact)
		a.currentView = messages.ViewContacts
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewSettings {
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		}
		return a, nil

	case messages.SettingsLoaded, messages.SettingsSaved, messages.SettingsChanged:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink and similar) to the active view
	switch a.currentView {
	case messages.ViewContacts:
		a.contactsView, cmd = a.contactsView.Update(msg)
	case messages.ViewEdit:
		a.editView, cmd = a.editView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewEdit:
		return a.editView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.contactsView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Contacts:
  j/k, ↑/↓    Navigate contacts
  i           Import contacts (disabled while offline or importing)
  e           Edit the selected contact
  d           Delete the selected contact
  c           Call the selected contact
  w           Open a WhatsApp chat
  x           Dismiss the current error
  s           Settings
  q           Quit

Edit:
  tab         Next field
  enter       Next field / save
  esc         Cancel

[esc] back`
}

// State returns the last snapshot rendered by the contacts view.
func (a *App) State() domain.ContactsState {
	return a.contactsView.State()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.contactsView.SetDimensions(width, height)
	a.editView.SetDimensions(width, height)
}
