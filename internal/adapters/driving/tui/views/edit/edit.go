// Package edit provides the contact edit form for the TUI.
package edit

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agenda/internal/core/domain"
)

// Field indexes.
const (
	FieldName = iota
	FieldPhone
	FieldEmail
	fieldCount
)

// View is a form for editing a contact's name, phone and email.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	contact domain.Contact
	fields  [fieldCount]*input.Field
	focused int
	err     string

	width  int
	height int
}

// NewView creates a new edit view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		fields: [fieldCount]*input.Field{
			input.NewField(s, "Name", "Full name"),
			input.NewField(s, "Phone", "Phone number"),
			input.NewField(s, "Email", "Email address"),
		},
	}
}

// SetContact loads a contact into the form and focuses the name field.
func (v *View) SetContact(c domain.Contact) tea.Cmd {
	v.contact = c
	v.err = ""
	v.fields[FieldName].SetValue(c.Name)
	v.fields[FieldPhone].SetValue(c.Phone)
	v.fields[FieldEmail].SetValue(c.Email)
	return v.focus(FieldName)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.fields[v.focused].Init()
}

// Update handles messages for the edit view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewContacts} }
		case k == "ctrl+s":
			return v.submit()
		case k == "enter":
			if v.focused == fieldCount-1 {
				return v.submit()
			}
			return v, v.focus(v.focused + 1)
		case keymap.Matches(k, v.keymap.NextField):
			return v, v.focus((v.focused + 1) % fieldCount)
		case keymap.Matches(k, v.keymap.PrevField):
			return v, v.focus((v.focused + fieldCount - 1) % fieldCount)
		}
	}

	var cmd tea.Cmd
	v.fields[v.focused], cmd = v.fields[v.focused].Update(msg)
	return v, cmd
}

func (v *View) focus(i int) tea.Cmd {
	for j, f := range v.fields {
		if j != i {
			f.Blur()
		}
	}
	v.focused = i
	return v.fields[i].Focus()
}

func (v *View) submit() (*View, tea.Cmd) {
	edited := v.Contact()
	if err := edited.Validate(); err != nil {
		v.err = "Name is required"
		return v, v.focus(FieldName)
	}
	v.err = ""
	return v, func() tea.Msg { return messages.EditSubmitted{Contact: edited} }
}

// Contact returns the contact with the form's current values applied.
func (v *View) Contact() domain.Contact {
	c := v.contact
	c.Name = strings.TrimSpace(v.fields[FieldName].Value())
	c.Phone = strings.TrimSpace(v.fields[FieldPhone].Value())
	c.Email = strings.TrimSpace(v.fields[FieldEmail].Value())
	return c
}

// View renders the edit form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Edit Contact"))
	b.WriteString("\n\n")

	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}

	if v.err != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[tab] next field  [enter] next/save  [ctrl+s] save  [esc] cancel"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	for _, f := range v.fields {
		f.SetWidth(width)
	}
}

// Focused returns the index of the focused field.
func (v *View) Focused() int {
	return v.focused
}

// Err returns the current validation message.
func (v *View) Err() string {
	return v.err
}
