// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the contact book palette. Colours are named by the role they
// play on screen rather than by hue.
type Theme struct {
	// Accent marks headings, the focused field and the selected row.
	Accent lipgloss.Color

	// Avatar fills the initials badge next to each contact.
	Avatar lipgloss.Color

	// Ink is body text; Faint is phone numbers, emails and hints.
	Ink   lipgloss.Color
	Faint lipgloss.Color

	// Canvas is the terminal background, Surface the status bar.
	Canvas  lipgloss.Color
	Surface lipgloss.Color

	// Rule draws borders around cards and inputs.
	Rule lipgloss.Color

	// Link colours tel: and WhatsApp targets.
	Link lipgloss.Color

	// Online, Offline and Alert follow connectivity and failures.
	Online  lipgloss.Color
	Offline lipgloss.Color
	Alert   lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#F59E0B"), // amber
		Avatar:  lipgloss.Color("#7C3AED"), // violet
		Ink:     lipgloss.Color("#E5E7EB"),
		Faint:   lipgloss.Color("#9CA3AF"),
		Canvas:  lipgloss.Color("#111827"),
		Surface: lipgloss.Color("#1F2937"),
		Rule:    lipgloss.Color("#374151"),
		Link:    lipgloss.Color("#38BDF8"), // sky
		Online:  lipgloss.Color("#34D399"), // emerald
		Offline: lipgloss.Color("#FBBF24"), // yellow
		Alert:   lipgloss.Color("#F87171"), // rose
	}
}

// Styles holds the lipgloss styles used across views.
type Styles struct {
	theme *Theme

	// Text.
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Label    lipgloss.Style
	Link     lipgloss.Style

	// Outcome colours.
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// Contact rows.
	Avatar        lipgloss.Style
	ContactName   lipgloss.Style
	ContactDetail lipgloss.Style
	Selected      lipgloss.Style
	DetailCard    lipgloss.Style

	// Banners and prompts above the list.
	OfflineBanner lipgloss.Style
	ErrorBanner   lipgloss.Style
	LoadingBanner lipgloss.Style
	ConfirmPrompt lipgloss.Style

	// Forms.
	InputField   lipgloss.Style
	FocusedInput lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	text := lipgloss.NewStyle().Foreground(theme.Ink)
	faint := lipgloss.NewStyle().Foreground(theme.Faint)
	banner := lipgloss.NewStyle().Foreground(theme.Canvas).Padding(0, 1)
	input := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Rule).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: faint.Bold(true),
		Normal:   text,
		Muted:    faint,
		Help:     faint.Italic(true),
		Label:    lipgloss.NewStyle().Width(8).Foreground(theme.Faint),
		Link:     lipgloss.NewStyle().Underline(true).Foreground(theme.Link),

		Error:   lipgloss.NewStyle().Foreground(theme.Alert),
		Success: lipgloss.NewStyle().Foreground(theme.Online),
		Warning: lipgloss.NewStyle().Foreground(theme.Offline),

		Avatar: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Ink).
			Background(theme.Avatar).
			Width(4).
			Align(lipgloss.Center),
		ContactName:   text,
		ContactDetail: faint,
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Canvas).
			Background(theme.Accent),
		DetailCard: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Rule).
			Padding(0, 1),

		OfflineBanner: banner.Bold(true).Background(theme.Offline),
		ErrorBanner:   banner.Background(theme.Alert),
		LoadingBanner: faint.Italic(true),
		ConfirmPrompt: lipgloss.NewStyle().Bold(true).Foreground(theme.Alert),

		InputField:   input,
		FocusedInput: input.BorderForeground(theme.Accent),

		StatusBar: faint.Background(theme.Surface).Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Initials returns up to two upper-case initials for a contact name,
// taken from the first and last words.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	first := []rune(words[0])[0]
	if len(words) == 1 {
		return string(unicode.ToUpper(first))
	}
	last := []rune(words[len(words)-1])[0]
	return string(unicode.ToUpper(first)) + string(unicode.ToUpper(last))
}
