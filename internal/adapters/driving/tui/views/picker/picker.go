// Package picker provides the document file picker view for the TUI.
package picker

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// View lets the user browse to a supported document.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	picker filepicker.Model

	notice string
	width  int
	height int
}

// NewView creates a new picker view rooted at dir.
// An empty dir starts in the working directory.
func NewView(s *styles.Styles, km *keymap.KeyMap, dir string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = append([]string(nil), domain.SupportedDocumentExtensions...)
	fp.AutoHeight = true
	fp.ShowHidden = false

	return &View{
		styles: s,
		keymap: km,
		picker: fp,
		width:  80,
		height: 24,
	}
}

// Init reads the starting directory.
func (v *View) Init() tea.Cmd {
	v.notice = ""
	return v.picker.Init()
}

// Update handles messages for the picker view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, v.keymap.Back) {
		return v, backToChat
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		return v, selectFile(path)
	}
	if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.notice = filepath.Base(path) + " is not a .pdf or .txt document."
		return v, cmd
	}

	return v, cmd
}

// selectFile reports the chosen file and returns to the chat view.
func selectFile(path string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg { return fileSelected(path) },
		backToChat,
	)
}

func fileSelected(path string) messages.FileSelected {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	return messages.FileSelected{Path: path, Size: size}
}

func backToChat() tea.Msg {
	return messages.ViewChanged{View: messages.ViewChat}
}

// View renders the picker view.
func (v *View) View() string {
	sections := []string{
		v.styles.Title.Render("Choose a document"),
		v.styles.Muted.Render(v.picker.CurrentDirectory),
		"",
		v.picker.View(),
	}
	if v.notice != "" {
		sections = append(sections, "", v.styles.Warning.Render(v.notice))
	}
	sections = append(sections, "", v.styles.Help.Render("enter: select | ←/h: up a directory | esc: cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Directory returns the directory being browsed.
func (v *View) Directory() string {
	return v.picker.CurrentDirectory
}

// Notice returns the last notice.
func (v *View) Notice() string {
	return v.notice
}
