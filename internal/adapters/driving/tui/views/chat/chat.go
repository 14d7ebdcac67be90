// Package chat provides the upload and conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Notices shown for rejected actions.
const (
	NoticeUnsupported    = "⚠️ Only .pdf and .txt documents are supported."
	NoticeNoDocument     = "⚠️ Upload a document before asking questions."
	NoticeAnswering      = "⚠️ Wait for the current answer to finish."
	NoticeDocumentReady  = "Document already uploaded. Press ctrl+o to choose another file."
	NoticeFileSelected   = "Press ctrl+u to upload."
	typingIndicatorLabel = "Assistant is typing..."
)

// View holds the session and renders the upload and chat flow.
// All session changes happen in Update.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar
	spinner    spinner.Model

	chatService driving.ChatService
	ctx         context.Context
	newID       func() string

	session domain.Session

	// stream is the answer being read for streamID.
	stream   driving.AnswerStream
	streamID string

	notice string
	err    error

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:      s,
		keymap:      km,
		input:       input.NewQuestionInput(s),
		transcript:  transcript.New(s),
		statusbar:   status.NewBar(s, km),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		chatService: chatService,
		ctx:         context.Background(),
		newID:       uuid.NewString,
		width:       80,
		height:      24,
	}
	v.sync()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithIDGenerator sets the message ID generator.
func (v *View) WithIDGenerator(newID func() string) *View {
	v.newID = newID
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FileSelected:
		return v, v.selectFile(msg.Path, msg.Size)

	case messages.UploadCompleted:
		v.handleUploadCompleted(msg)
		return v, nil

	case messages.AnswerStarted:
		return v, v.handleAnswerStarted(msg)

	case messages.FragmentReceived:
		return v, v.handleFragment(msg)

	case messages.AnswerFinished:
		v.handleAnswerFinished(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.sync()
		return v, nil

	case spinner.TickMsg:
		if !v.busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Send):
		return v, v.submitQuestion()

	case key.Matches(msg, v.keymap.Upload):
		return v, v.startUpload()

	case key.Matches(msg, v.keymap.Clear):
		v.Clear()
		return v, nil

	case key.Matches(msg, v.keymap.ScrollUp, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// selectFile starts a new document scope for path.
func (v *View) selectFile(path string, size int64) tea.Cmd {
	v.closeStream()
	v.err = nil
	if !domain.IsSupportedDocument(path) {
		v.notice = NoticeUnsupported
		v.sync()
		return nil
	}

	v.session = v.session.SelectFile(domain.NewSelectedFile(path, size))
	v.notice = NoticeFileSelected
	v.sync()
	logger.Debug("Selected %s", path)
	return nil
}

// startUpload submits the selected file.
func (v *View) startUpload() tea.Cmd {
	next, err := v.session.BeginUpload()
	v.session = next
	v.notice = ""

	// A missing file is reported through the session's upload status.
	if errors.Is(err, domain.ErrDocumentReady) {
		v.notice = NoticeDocumentReady
	}
	v.sync()
	if err != nil {
		return nil
	}

	path := v.session.File.Path
	svc, ctx := v.chatService, v.ctx
	upload := func() tea.Msg {
		if svc == nil {
			return messages.UploadCompleted{Path: path, Err: ErrNoChatService}
		}
		res, err := svc.Upload(ctx, path)
		return messages.UploadCompleted{Path: path, Result: res, Err: err}
	}
	return tea.Batch(upload, v.spinner.Tick)
}

// handleUploadCompleted applies an upload outcome to the matching file.
func (v *View) handleUploadCompleted(msg messages.UploadCompleted) {
	if v.session.File == nil || v.session.File.Path != msg.Path {
		return
	}

	if msg.Err != nil {
		logger.Warn("upload %s: %v", msg.Path, msg.Err)
	}
	v.session = v.session.ApplyUpload(msg.Result, msg.Err)
	v.sync()
}

// submitQuestion appends the question and opens the answer stream.
func (v *View) submitQuestion() tea.Cmd {
	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		return nil
	}

	next, answerID, err := v.session.Ask(question, v.newID)
	switch {
	case errors.Is(err, domain.ErrNoDocument):
		v.notice = NoticeNoDocument
	case errors.Is(err, domain.ErrAnswerInProgress):
		v.notice = NoticeAnswering
	}
	if err != nil {
		v.sync()
		return nil
	}

	v.session = next
	v.notice = ""
	v.input.Reset()
	v.sync()

	documentID := v.session.DocumentID
	svc, ctx := v.chatService, v.ctx
	open := func() tea.Msg {
		if svc == nil {
			return messages.AnswerStarted{MessageID: answerID, Err: ErrNoChatService}
		}
		stream, err := svc.Ask(ctx, documentID, question)
		return messages.AnswerStarted{MessageID: answerID, Stream: stream, Err: err}
	}
	return tea.Batch(open, v.spinner.Tick)
}

// handleAnswerStarted starts reading a freshly opened stream.
func (v *View) handleAnswerStarted(msg messages.AnswerStarted) tea.Cmd {
	if _, ok := v.session.Message(msg.MessageID); !ok {
		// The scope changed while the request was in flight.
		if msg.Stream != nil {
			_ = msg.Stream.Close()
		}
		return nil
	}

	if msg.Err != nil {
		logger.Warn("ask: %v", msg.Err)
		v.session = v.session.FailAnswer(msg.MessageID)
		v.sync()
		return nil
	}

	v.stream = msg.Stream
	v.streamID = msg.MessageID
	return readNext(msg.MessageID, msg.Stream)
}

// handleFragment appends a fragment and schedules the next read.
func (v *View) handleFragment(msg messages.FragmentReceived) tea.Cmd {
	if msg.MessageID != v.streamID || v.stream == nil {
		return nil
	}

	v.session = v.session.AppendFragment(msg.MessageID, msg.Fragment)
	v.sync()
	return readNext(msg.MessageID, v.stream)
}

// handleAnswerFinished completes or fails the answer.
func (v *View) handleAnswerFinished(msg messages.AnswerFinished) {
	if msg.MessageID != v.streamID {
		return
	}
	v.closeStream()

	if msg.Err != nil {
		logger.Warn("answer stream: %v", msg.Err)
		v.session = v.session.FailAnswer(msg.MessageID)
	} else {
		v.session = v.session.FinishAnswer(msg.MessageID)
	}
	v.sync()
}

// readNext reads one fragment from stream.
func readNext(messageID string, stream driving.AnswerStream) tea.Cmd {
	return func() tea.Msg {
		fragment, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return messages.AnswerFinished{MessageID: messageID}
		}
		if err != nil {
			return messages.AnswerFinished{MessageID: messageID, Err: err}
		}
		return messages.FragmentReceived{MessageID: messageID, Fragment: fragment}
	}
}

// Clear drops the document and the conversation.
func (v *View) Clear() {
	v.closeStream()
	v.session = v.session.Clear()
	v.notice = ""
	v.err = nil
	v.input.Reset()
	v.sync()
}

// Close releases any open answer stream.
func (v *View) Close() {
	v.closeStream()
}

func (v *View) closeStream() {
	if v.stream != nil {
		_ = v.stream.Close()
	}
	v.stream = nil
	v.streamID = ""
}

func (v *View) busy() bool {
	return v.session.Uploading || v.session.Loading
}

// sync pushes session state into the components.
func (v *View) sync() {
	v.input.SetEnabled(v.session.CanAsk())
	v.transcript.SetMessages(v.session.Messages)
	v.statusbar.SetChunks(v.session.Chunks)
	v.statusbar.SetMessage("")

	switch {
	case v.err != nil:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(v.err.Error())
	case v.session.Uploading:
		v.statusbar.SetState(status.StateUploading)
	case v.session.Phase() == domain.PhaseAwaitingAnswer:
		v.statusbar.SetState(status.StateAnswering)
	case v.session.Phase() == domain.PhaseReady:
		v.statusbar.SetState(status.StateReady)
	default:
		v.statusbar.SetState(status.StateNoDocument)
	}
}

// Refresh re-renders styled content after a theme change.
func (v *View) Refresh() {
	v.transcript.Refresh()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("ragchat"),
		v.renderFile(),
		v.renderUploadStatus(),
		"",
		v.transcript.View(),
		v.renderTyping(),
		v.input.View(),
		v.renderNotice(),
		v.statusbar.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderFile() string {
	f := v.session.File
	if f == nil {
		return v.styles.Muted.Render("No file selected. Press ctrl+o to choose a .pdf or .txt document.")
	}
	return v.styles.Normal.Render(fmt.Sprintf("File: %s (%s)", f.Name, humanSize(f.Size)))
}

func (v *View) renderUploadStatus() string {
	text := v.session.UploadStatus
	switch {
	case text == "":
		return ""
	case strings.HasPrefix(text, "✅"):
		return v.styles.Success.Render(text)
	case strings.HasPrefix(text, "❌"):
		return v.styles.Error.Render(text)
	case strings.HasPrefix(text, "⚠️"):
		return v.styles.Warning.Render(text)
	}
	return v.styles.Muted.Render(text)
}

func (v *View) renderTyping() string {
	if !v.session.Loading {
		return ""
	}
	return v.styles.Spinner.Render(v.spinner.View()) + " " + v.styles.Muted.Render(typingIndicatorLabel)
}

func (v *View) renderNotice() string {
	if v.notice == "" {
		return ""
	}
	if strings.HasPrefix(v.notice, "⚠️") {
		return v.styles.Warning.Render(v.notice)
	}
	return v.styles.Muted.Render(v.notice)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Reserve space for header, file, status, typing, input, notice and status bar
	v.input.SetWidth(width)
	v.transcript.SetDimensions(width, height-12)
	v.statusbar.SetWidth(width)
}

// Session returns the current session state.
func (v *View) Session() domain.Session {
	return v.session
}

// Notice returns the last notice.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Streaming reports whether an answer stream is open.
func (v *View) Streaming() bool {
	return v.stream != nil
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
