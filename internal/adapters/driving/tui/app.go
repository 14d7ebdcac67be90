package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/views/picker"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// WindowTitle is the terminal title set on start.
const WindowTitle = "ragchat"

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles. Views share the pointer so a theme
	// change reaches all of them.
	styles *styles.Styles

	keymap *keymap.KeyMap

	// chatView is the upload and conversation view.
	chatView *chat.View

	// pickerView is the document file picker.
	pickerView *picker.View

	// settingsView is the settings configuration view component.
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// theme is the palette currently applied.
	theme domain.Theme

	// themeUpdates delivers theme changes made outside this process.
	themeUpdates <-chan domain.Theme

	// initialFile is preselected on start when set.
	initialFile string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// themeUpdated carries a theme read back from disk.
type themeUpdated struct {
	theme domain.Theme
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	theme := ports.Theme.Current()
	s := styles.NewStyles(styles.ForPreference(theme))
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		chatView:     chat.NewView(s, km, ports.Chat),
		pickerView:   picker.NewView(s, km, ""),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewChat,
		theme:        theme,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// WithInitialFile preselects a document when the program starts.
// The picker opens in the file's directory.
func (a *App) WithInitialFile(path string) *App {
	a.initialFile = path
	if path != "" {
		a.pickerView = picker.NewView(a.styles, a.keymap, filepath.Dir(path))
	}
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle(WindowTitle),
		a.chatView.Init(),
	}

	if a.initialFile != "" {
		cmds = append(cmds, preselect(a.initialFile))
	}

	a.themeUpdates = a.ports.Theme.Subscribe(a.ctx)
	if a.themeUpdates != nil {
		cmds = append(cmds, waitForTheme(a.themeUpdates))
	}

	return tea.Batch(cmds...)
}

// preselect returns a command that selects path as if picked.
func preselect(path string) tea.Cmd {
	return func() tea.Msg {
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		return messages.FileSelected{Path: path, Size: size}
	}
}

// waitForTheme blocks until the next theme change.
func waitForTheme(ch <-chan domain.Theme) tea.Cmd {
	return func() tea.Msg {
		theme, ok := <-ch
		if !ok {
			return nil
		}
		return themeUpdated{theme: theme}
	}
}

// toggleTheme returns a command that flips and stores the theme.
func (a *App) toggleTheme() tea.Cmd {
	svc := a.ports.Theme
	return func() tea.Msg {
		theme, err := svc.Toggle()
		return messages.ThemeChanged{Theme: theme, Err: err}
	}
}

// applyTheme re-styles every view with the palette for theme.
func (a *App) applyTheme(theme domain.Theme) {
	a.theme = theme
	a.styles.Apply(styles.ForPreference(theme))
	a.chatView.Refresh()
	logger.Debug("Applied %s theme", theme)
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
		// Forward to all views for proper sizing
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.pickerView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.FileSelected, messages.UploadCompleted,
		messages.AnswerStarted, messages.FragmentReceived, messages.AnswerFinished,
		spinner.TickMsg:
		// Chat traffic keeps flowing while another view is active
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ToggleTheme:
		return a, a.toggleTheme()

	case messages.ThemeChanged:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.applyTheme(msg.Theme)
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case themeUpdated:
		next := waitForTheme(a.themeUpdates)
		if msg.theme == a.theme {
			return a, next
		}
		a.applyTheme(msg.theme)
		a.settingsView, cmd = a.settingsView.Update(messages.ThemeChanged{Theme: msg.theme})
		return a, tea.Batch(cmd, next)

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.Quit:
		a.chatView.Close()
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewPicker:
		a.pickerView, cmd = a.pickerView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// handleKeyMsg applies global bindings and forwards the rest.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global quit with ctrl+c
	if key.Matches(msg, a.keymap.Quit) {
		a.chatView.Close()
		return a, tea.Quit
	}
	if key.Matches(msg, a.keymap.ToggleTheme) {
		return a, a.toggleTheme()
	}

	switch a.currentView {
	case messages.ViewChat:
		switch {
		case key.Matches(msg, a.keymap.PickFile):
			return a, a.switchView(messages.ViewPicker)
		case key.Matches(msg, a.keymap.Settings):
			return a, a.switchView(messages.ViewSettings)
		case key.Matches(msg, a.keymap.Help):
			return a, a.switchView(messages.ViewHelp)
		}
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ViewPicker:
		a.pickerView, cmd = a.pickerView.Update(msg)
		return a, cmd

	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if key.Matches(msg, a.keymap.Back, a.keymap.Help) {
			a.currentView = messages.ViewChat
		}
		return a, nil
	}
	return a, nil
}

// switchView activates view and runs its initialisation.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewPicker:
		return a.pickerView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewChat, messages.ViewHelp:
		// No initialisation needed
	}
	return nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewPicker:
		return a.pickerView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.chatView.View()
	}
}

// viewHelp renders the help view from the key bindings.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("[esc] back to chat"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	a.chatView.Close()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Theme returns the applied theme.
func (a *App) Theme() domain.Theme {
	return a.theme
}

// Session returns the chat session state.
func (a *App) Session() domain.Session {
	return a.chatView.Session()
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
	a.chatView.SetDimensions(width, height)
	a.pickerView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
