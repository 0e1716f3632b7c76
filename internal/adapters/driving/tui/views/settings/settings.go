// Package settings provides the settings view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/agenda/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// Row is a single editable setting.
type Row struct {
	Label string
	Key   string
	Value string
}

// View lists the current settings and edits one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           ti,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// Reset returns the view to its initial browsing state.
func (v *View) Reset() {
	v.editing = false
	v.notice = ""
	v.input.Blur()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s", msg.Key)
		return v, v.loadSettings()

	case messages.SettingsChanged:
		v.notice = "Reloaded from disk"
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleBrowseKeys(msg)
	}

	return v, nil
}

func (v *View) handleBrowseKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	rows := v.Rows()
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(rows)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected < len(rows) {
			v.editing = true
			v.notice = ""
			v.input.SetValue(rows[v.selected].Value)
			v.input.CursorEnd()
			return v, v.input.Focus()
		}
	case "r":
		return v, v.loadSettings()
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewContacts}
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case keyEnter:
		v.editing = false
		v.input.Blur()
		rows := v.Rows()
		if v.selected >= len(rows) {
			return v, nil
		}
		return v, v.saveSetting(rows[v.selected].Key, v.input.Value())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// Rows returns the displayed settings in order. Empty until loaded.
func (v *View) Rows() []Row {
	if v.settings == nil {
		return nil
	}
	s := v.settings
	rps := "unlimited"
	if s.API.RequestsPerSecond > 0 {
		rps = strconv.FormatFloat(s.API.RequestsPerSecond, 'g', -1, 64)
	}
	return []Row{
		{"API base URL", "api.base_url", s.API.BaseURL},
		{"API timeout", "api.timeout", formatDuration(s.API.Timeout)},
		{"Requests per second", "api.requests_per_second", rps},
		{"Import count", "import.count", strconv.Itoa(s.Import.Count)},
		{"Grace window", "state.grace_window", formatDuration(s.State.GraceWindow)},
		{"Poll interval", "network.poll_interval", formatDuration(s.Connectivity.PollInterval)},
		{"Probe address", "network.probe_address", s.Connectivity.ProbeAddress},
	}
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0"
	}
	return d.String()
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	for i, row := range v.Rows() {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		if v.editing && i == v.selected {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("%s%s: ", indicator, row.Label)))
			b.WriteString(v.styles.InputField.Render(v.input.View()))
			b.WriteString("\n")
			continue
		}

		value := row.Value
		if value == "" {
			value = "(not set)"
		}
		line := fmt.Sprintf("%s%s: %s", indicator, row.Label, value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[enter] edit  [r] reload  [esc] back"))
	}
	return b.String()
}

// Selected returns the selected row index.
func (v *View) Selected() int {
	return v.selected
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
