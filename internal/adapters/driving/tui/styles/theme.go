// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Name is the preference this palette renders.
	Name domain.Theme

	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Background is the background colour.
	Background lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color

	// UserBubble is the background of the user's messages.
	UserBubble lipgloss.Color

	// AssistantBubble is the background of the assistant's messages.
	AssistantBubble lipgloss.Color
}

// LightTheme returns the light palette.
func LightTheme() *Theme {
	return &Theme{
		Name:            domain.ThemeLight,
		Primary:         lipgloss.Color("#2563EB"), // Blue
		Secondary:       lipgloss.Color("#0891B2"), // Teal
		Background:      lipgloss.Color("#F8FAFC"), // Off white
		Foreground:      lipgloss.Color("#1E293B"), // Slate
		Muted:           lipgloss.Color("#64748B"), // Grey
		Success:         lipgloss.Color("#15803D"), // Green
		Warning:         lipgloss.Color("#B45309"), // Amber
		Error:           lipgloss.Color("#B91C1C"), // Red
		Border:          lipgloss.Color("#CBD5E1"),
		Bar:             lipgloss.Color("#E2E8F0"),
		UserBubble:      lipgloss.Color("#DBEAFE"),
		AssistantBubble: lipgloss.Color("#F1F5F9"),
	}
}

// DarkTheme returns the dark palette.
func DarkTheme() *Theme {
	return &Theme{
		Name:            domain.ThemeDark,
		Primary:         lipgloss.Color("#7C3AED"), // Purple
		Secondary:       lipgloss.Color("#06B6D4"), // Cyan
		Background:      lipgloss.Color("#1E1E2E"), // Dark gray
		Foreground:      lipgloss.Color("#CDD6F4"), // Light gray
		Muted:           lipgloss.Color("#6C7086"), // Medium gray
		Success:         lipgloss.Color("#A6E3A1"), // Green
		Warning:         lipgloss.Color("#F9E2AF"), // Yellow
		Error:           lipgloss.Color("#F38BA8"), // Red
		Border:          lipgloss.Color("#45475A"), // Border gray
		Bar:             lipgloss.Color("#181825"),
		UserBubble:      lipgloss.Color("#313244"),
		AssistantBubble: lipgloss.Color("#24273A"),
	}
}

// DefaultTheme returns the palette for the default preference.
func DefaultTheme() *Theme {
	return LightTheme()
}

// ForPreference returns the palette for a stored preference.
func ForPreference(t domain.Theme) *Theme {
	if t.IsDark() {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted items.
	Selected lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// InputField style for input areas.
	InputField lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style

	// Border style for bordered containers.
	Border lipgloss.Style

	// UserLabel and AssistantLabel style the sender names.
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	// UserMessage and AssistantMessage style message bodies.
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style

	// Spinner styles the typing indicator.
	Spinner lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	s := &Styles{}
	s.Apply(theme)
	return s
}

// Apply rebuilds every style from theme in place, so components holding
// this *Styles re-theme on their next render.
func (s *Styles) Apply(theme *Theme) {
	if theme == nil {
		theme = DefaultTheme()
	}

	*s = Styles{
		theme: theme,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),
		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Background).
			Background(theme.Primary),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error),
		Success: lipgloss.NewStyle().
			Foreground(theme.Success),
		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),
		UserMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.UserBubble).
			Padding(0, 1),
		AssistantMessage: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.AssistantBubble).
			Padding(0, 1),
		Spinner: lipgloss.NewStyle().
			Foreground(theme.Secondary),
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
