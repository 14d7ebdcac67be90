// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionBackendURL
	SectionRateLimit
)

// Overview items.
const (
	itemBackendURL = iota
	itemRateLimit
	itemTheme
	itemCount
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyTab   = "tab"
)

// SavedNotice is shown after backend settings are stored.
const SavedNotice = "Saved. Restart ragchat to use the new backend settings."

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error
	notice   string

	// Navigation state
	section      Section
	selected     int // selection within the overview
	focusedField int // 0 = requests per second, 1 = burst

	urlInput   textinput.Model
	rateInput  textinput.Model
	burstInput textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	urlInput := textinput.New()
	urlInput.Placeholder = domain.DefaultBackendURL
	urlInput.CharLimit = 512

	rateInput := textinput.New()
	rateInput.Placeholder = strconv.FormatFloat(domain.DefaultRequestsPerSecond, 'g', -1, 64)
	rateInput.CharLimit = 16

	burstInput := textinput.New()
	burstInput.Placeholder = strconv.Itoa(domain.DefaultBurst)
	burstInput.CharLimit = 8

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		urlInput:        urlInput,
		rateInput:       rateInput,
		burstInput:      burstInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
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
		v.notice = SavedNotice
		v.section = SectionOverview
		return v, v.loadSettings()

	case messages.ThemeChanged:
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Global escape to go back
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewChat}
			}
		}
		v.section = SectionOverview
		v.err = nil
		v.urlInput.Blur()
		v.rateInput.Blur()
		v.burstInput.Blur()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionBackendURL:
		return v.handleBackendURLKeys(msg)
	case SectionRateLimit:
		return v.handleRateLimitKeys(msg)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < itemCount-1 {
			v.selected++
		}
	case keyEnter:
		if v.settings == nil {
			return v, nil
		}
		v.notice = ""
		switch v.selected {
		case itemBackendURL:
			v.section = SectionBackendURL
			v.urlInput.SetValue(v.settings.Backend.BaseURL)
			return v, v.urlInput.Focus()
		case itemRateLimit:
			v.section = SectionRateLimit
			v.focusedField = 0
			v.rateInput.SetValue(strconv.FormatFloat(v.settings.Backend.RequestsPerSecond, 'g', -1, 64))
			v.burstInput.SetValue(strconv.Itoa(v.settings.Backend.Burst))
			v.burstInput.Blur()
			return v, v.rateInput.Focus()
		case itemTheme:
			return v, func() tea.Msg { return messages.ToggleTheme{} }
		}
	}
	return v, nil
}

func (v *View) handleBackendURLKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		return v, v.saveBackendURL(strings.TrimSpace(v.urlInput.Value()))
	}

	var cmd tea.Cmd
	v.urlInput, cmd = v.urlInput.Update(msg)
	return v, cmd
}

func (v *View) handleRateLimitKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyTab, "shift+tab":
		v.focusedField = 1 - v.focusedField
		if v.focusedField == 0 {
			v.burstInput.Blur()
			return v, v.rateInput.Focus()
		}
		v.rateInput.Blur()
		return v, v.burstInput.Focus()

	case keyEnter:
		rps, err := strconv.ParseFloat(strings.TrimSpace(v.rateInput.Value()), 64)
		if err != nil {
			v.err = fmt.Errorf("%w: requests per second must be a number", domain.ErrInvalidInput)
			return v, nil
		}
		burst, err := strconv.Atoi(strings.TrimSpace(v.burstInput.Value()))
		if err != nil {
			v.err = fmt.Errorf("%w: burst must be a whole number", domain.ErrInvalidInput)
			return v, nil
		}
		return v, v.saveRateLimit(rps, burst)
	}

	var cmd tea.Cmd
	if v.focusedField == 0 {
		v.rateInput, cmd = v.rateInput.Update(msg)
	} else {
		v.burstInput, cmd = v.burstInput.Update(msg)
	}
	return v, cmd
}

func (v *View) saveBackendURL(url string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Err: svc.SetBackendURL(url)}
	}
}

func (v *View) saveRateLimit(rps float64, burst int) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Err: svc.SetRateLimit(rps, burst)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	// Error display
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Loading state
	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionBackendURL:
		b.WriteString(v.renderBackendURL())
	case SectionRateLimit:
		b.WriteString(v.renderRateLimit())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	items := []struct {
		label string
		value string
	}{
		{"Backend URL", v.settings.Backend.BaseURL},
		{"Rate limit", fmt.Sprintf("%g req/s, burst %d", v.settings.Backend.RequestsPerSecond, v.settings.Backend.Burst)},
		{"Theme", v.settings.UI.Theme.String()},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.settingsService != nil {
		b.WriteString(v.styles.Muted.Render("Config: " + v.settingsService.ConfigPath()))
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderBackendURL() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Backend URL"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.InputField.Render(v.urlInput.View()))
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderRateLimit() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Rate limit"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Normal.Render("Requests per second"))
	b.WriteString("\n")
	b.WriteString(v.styles.InputField.Render(v.rateInput.View()))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render("Burst"))
	b.WriteString("\n")
	b.WriteString(v.styles.InputField.Render(v.burstInput.View()))
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit / toggle  [esc] back")
	case SectionBackendURL:
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	case SectionRateLimit:
		return v.styles.Help.Render("[tab] switch field  [enter] save  [esc] cancel")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = 0
	v.err = nil
	v.notice = ""
	v.urlInput.SetValue("")
	v.urlInput.Blur()
	v.rateInput.SetValue("")
	v.rateInput.Blur()
	v.burstInput.SetValue("")
	v.burstInput.Blur()
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
