// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agenda/internal/core/domain"
)

// ContactList displays contacts in a navigable list.
type ContactList struct {
	contacts []domain.Contact
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewContactList creates a new contact list component.
func NewContactList(s *styles.Styles) *ContactList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ContactList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the contact list.
func (l *ContactList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ContactList) Update(msg tea.Msg) (*ContactList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the contact list.
func (l *ContactList) View() string {
	if len(l.contacts) == 0 {
		return l.styles.Muted.Render("No contacts. Press i to import some.")
	}

	lines := make([]string, 0, len(l.contacts)+2)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Contacts (%d)", len(l.contacts))), "")

	// Each contact takes two lines.
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.contacts) {
		end = len(l.contacts)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderContact(i, &l.contacts[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *ContactList) renderContact(index int, c *domain.Contact) string {
	// Avatar badge plus its gap.
	const badge = 5

	maxLen := l.width - badge - 2
	if maxLen < 10 {
		maxLen = 10
	}
	avatar := l.styles.Avatar.Render(styles.Initials(c.Name))
	name := truncate(c.Name, maxLen)

	nameStyle := l.styles.ContactName
	if index == l.selected {
		nameStyle = l.styles.Selected
		name = fmt.Sprintf("%-*s", maxLen, name)
	}

	detail := c.Phone
	if c.Email != "" {
		if detail != "" {
			detail += "  "
		}
		detail += c.Email
	}
	return avatar + " " + nameStyle.Render(name) + "\n" +
		strings.Repeat(" ", badge) + l.styles.ContactDetail.Render(truncate(detail, maxLen))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetContacts replaces the list contents. The selection follows the
// previously selected contact when it is still present.
func (l *ContactList) SetContacts(contacts []domain.Contact) {
	var selectedID string
	if c := l.SelectedContact(); c != nil {
		selectedID = c.ID
	}

	l.contacts = contacts
	for i := range contacts {
		if contacts[i].ID == selectedID {
			l.selected = i
			return
		}
	}
	if l.selected >= len(contacts) {
		l.selected = len(contacts) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// Contacts returns the current contacts.
func (l *ContactList) Contacts() []domain.Contact {
	return l.contacts
}

// Selected returns the index of the selected contact.
func (l *ContactList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *ContactList) SetSelected(index int) {
	if index >= 0 && index < len(l.contacts) {
		l.selected = index
	}
}

// SelectedContact returns the currently selected contact, or nil if none.
func (l *ContactList) SelectedContact() *domain.Contact {
	if len(l.contacts) == 0 || l.selected < 0 || l.selected >= len(l.contacts) {
		return nil
	}
	return &l.contacts[l.selected]
}

// MoveUp moves selection up.
func (l *ContactList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ContactList) MoveDown() {
	if l.selected < len(l.contacts)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ContactList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of contacts.
func (l *ContactList) Count() int {
	return len(l.contacts)
}
