// Package contacts provides the contact list view for the TUI.
package contacts

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
)

// Actions reported in messages.ActionCompleted.
const (
	ActionCall    = "call"
	ActionMessage = "whatsapp"
)

// View renders the combined contacts state and dispatches intents.
type View struct {
	ctx       context.Context
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	viewModel driving.ContactsViewModel
	actions   driving.ContactActionService

	list *list.ContactList
	bar  *status.Bar

	state      domain.ContactsState
	confirming *domain.Contact

	width  int
	height int
	ready  bool
}

// NewView creates a new contacts view.
func NewView(
	s *styles.Styles,
	viewModel driving.ContactsViewModel,
	actions driving.ContactActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	return &View{
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		viewModel: viewModel,
		actions:   actions,
		list:      list.NewContactList(s),
		bar:       status.NewBar(s, km),
		state:     domain.InitialContactsState(),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the contacts view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.StateUpdated:
		v.state = msg.State
		v.list.SetContacts(msg.State.Contacts)
		v.bar.SetSnapshot(msg.State)
		if v.confirming != nil && !v.contains(v.confirming.ID) {
			v.confirming = nil
		}
		return v, nil

	case messages.ActionCompleted:
		if msg.Err != nil {
			v.bar.SetState(status.StateError)
			v.bar.SetMessage(fmt.Sprintf("%s failed: %v", msg.Action, msg.Err))
		} else {
			v.bar.SetMessage("Opened " + msg.Link)
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirming != nil {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Quit):
		return v, func() tea.Msg { return messages.Quit{} }

	case keymap.Matches(k, v.keymap.Help):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewHelp} }

	case keymap.Matches(k, v.keymap.Settings):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSettings} }

	case keymap.Matches(k, v.keymap.Import):
		if v.viewModel != nil && v.state.CanImport() {
			v.viewModel.ImportContacts(0)
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Dismiss):
		if v.viewModel != nil {
			v.viewModel.DismissError()
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Delete):
		if c := v.list.SelectedContact(); c != nil {
			selected := *c
			v.confirming = &selected
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Edit):
		c := v.list.SelectedContact()
		if c == nil {
			return v, nil
		}
		selected := *c
		return v, func() tea.Msg { return messages.EditRequested{Contact: selected} }

	case keymap.Matches(k, v.keymap.Call):
		return v, v.runAction(ActionCall)

	case keymap.Matches(k, v.keymap.Message):
		return v, v.runAction(ActionMessage)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	contact := *v.confirming
	v.confirming = nil
	if keymap.Matches(msg.String(), v.keymap.Confirm) && v.viewModel != nil {
		v.viewModel.DeleteContact(contact)
	}
	return v, nil
}

// runAction returns a command that opens a call or chat for the selected contact.
func (v *View) runAction(action string) tea.Cmd {
	c := v.list.SelectedContact()
	if c == nil || v.actions == nil {
		return nil
	}
	contact := *c
	actions := v.actions
	ctx := v.ctx

	return func() tea.Msg {
		var link string
		var err error
		if action == ActionCall {
			link, err = actions.CallURL(contact)
			if err == nil {
				err = actions.Call(ctx, contact)
			}
		} else {
			link, err = actions.MessageURL(contact)
			if err == nil {
				err = actions.Message(ctx, contact)
			}
		}
		return messages.ActionCompleted{Action: action, Link: link, Err: err}
	}
}

func (v *View) contains(id string) bool {
	for i := range v.state.Contacts {
		if v.state.Contacts[i].ID == id {
			return true
		}
	}
	return false
}

// View renders the contacts view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Agenda"))
	b.WriteString("\n\n")

	if !v.state.IsConnected {
		b.WriteString(v.styles.OfflineBanner.Render("Offline: importing is unavailable until the network returns"))
		b.WriteString("\n")
	}
	if v.state.HasError() {
		b.WriteString(v.styles.ErrorBanner.Render(v.state.Error + "  [x] dismiss"))
		b.WriteString("\n")
	}
	if v.state.IsLoading {
		b.WriteString(v.styles.LoadingBanner.Render("Importing contacts..."))
		b.WriteString("\n")
	}
	if v.confirming != nil {
		prompt := fmt.Sprintf("Delete %s? [y/N]", v.confirming.Name)
		b.WriteString(v.styles.ConfirmPrompt.Render(prompt))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if c := v.list.SelectedContact(); c != nil {
		b.WriteString(v.renderDetail(c))
		b.WriteString("\n\n")
	}

	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) renderDetail(c *domain.Contact) string {
	lines := []string{v.styles.Subtitle.Render(c.Name)}
	if c.Phone != "" {
		lines = append(lines, v.styles.Label.Render("Phone")+v.styles.Link.Render(c.Phone))
	}
	if c.Email != "" {
		lines = append(lines, v.styles.Label.Render("Email")+v.styles.Normal.Render(c.Email))
	}
	if c.PictureURL != "" {
		lines = append(lines, v.styles.Label.Render("Picture")+v.styles.Muted.Render(c.PictureURL))
	}
	return v.styles.DetailCard.Render(strings.Join(lines, "\n"))
}

// SetContext sets the context passed to contact actions.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
	// Header, banners, detail box and status bar.
	listHeight := height - 14
	if listHeight < 4 {
		listHeight = 4
	}
	v.list.SetDimensions(width, listHeight)
}

// State returns the last snapshot received.
func (v *View) State() domain.ContactsState {
	return v.state
}

// SelectedContact returns the highlighted contact, or nil.
func (v *View) SelectedContact() *domain.Contact {
	return v.list.SelectedContact()
}

// Confirming reports whether a delete confirmation is pending.
func (v *View) Confirming() bool {
	return v.confirming != nil
}
