// Package transcript renders the conversation in a scrollable viewport.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// EmptyText is shown when there are no messages.
const EmptyText = "No messages yet."

// Transcript displays chat messages in order, following the newest
// message unless the user scrolled up.
type Transcript struct {
	viewport viewport.Model
	messages []domain.Message
	styles   *styles.Styles
	width    int
	height   int
}

// New creates a new transcript component.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := &Transcript{
		viewport: viewport.New(80, 10),
		styles:   s,
		width:    80,
		height:   10,
	}
	t.render()
	return t
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update forwards scrolling messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// SetMessages replaces the displayed messages.
func (t *Transcript) SetMessages(messages []domain.Message) {
	t.messages = messages
	t.render()
}

// Messages returns the displayed messages.
func (t *Transcript) Messages() []domain.Message {
	return t.messages
}

// Refresh re-renders the content, e.g. after a theme change.
func (t *Transcript) Refresh() {
	t.render()
}

// SetDimensions sets the transcript size.
func (t *Transcript) SetDimensions(width, height int) {
	if height < 1 {
		height = 1
	}
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
	t.render()
}

// AtBottom reports whether the newest message is in view.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// Content returns the rendered text, for tests and copy.
func (t *Transcript) Content() string {
	return t.content()
}

// render redraws the content, keeping the view pinned to the bottom if
// it was there before.
func (t *Transcript) render() {
	follow := t.viewport.AtBottom()
	t.viewport.SetContent(t.content())
	if follow {
		t.viewport.GotoBottom()
	}
}

func (t *Transcript) content() string {
	if len(t.messages) == 0 {
		return t.styles.Muted.Render(EmptyText)
	}

	bodyWidth := t.width - 4
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	blocks := make([]string, 0, len(t.messages))
	for i := range t.messages {
		blocks = append(blocks, t.renderMessage(&t.messages[i], bodyWidth))
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) renderMessage(m *domain.Message, width int) string {
	var label, body string
	switch m.Sender {
	case domain.SenderUser:
		label = t.styles.UserLabel.Render(m.Sender.Label())
		body = t.styles.UserMessage.Width(width).Render(m.Text)
	default:
		label = t.styles.AssistantLabel.Render(m.Sender.Label())
		text := m.Text
		if text == "" {
			text = "…"
		}
		body = t.styles.AssistantMessage.Width(width).Render(text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, body)
}
