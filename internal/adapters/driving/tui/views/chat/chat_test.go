package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	UploadFunc func(ctx context.Context, path string) (*domain.UploadResult, error)
	AskFunc    func(ctx context.Context, documentID, question string) (driving.AnswerStream, error)

	asked []string
}

func (m *mockChatService) Upload(ctx context.Context, path string) (*domain.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, path)
	}
	return &domain.UploadResult{FileID: "doc-1", Chunks: 5}, nil
}

func (m *mockChatService) Ask(ctx context.Context, documentID, question string) (driving.AnswerStream, error) {
	m.asked = append(m.asked, documentID+":"+question)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, documentID, question)
	}
	return &mockStream{}, nil
}

// mockStream implements driving.AnswerStream for testing.
type mockStream struct {
	fragments []string
	err       error
	closed    int
}

func (m *mockStream) Next() (string, error) {
	if len(m.fragments) == 0 {
		if m.err != nil {
			return "", m.err
		}
		return "", io.EOF
	}
	frag := m.fragments[0]
	m.fragments = m.fragments[1:]
	return frag, nil
}

func (m *mockStream) Close() error {
	m.closed++
	return nil
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("m%d", n)
	}
}

// collect runs cmd and returns the resulting messages, expanding batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// drive feeds the view's own messages back into Update until the flow settles.
func drive(v *View, cmd tea.Cmd) *View {
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch msg.(type) {
		case messages.UploadCompleted, messages.AnswerStarted,
			messages.FragmentReceived, messages.AnswerFinished:
			var next tea.Cmd
			v, next = v.Update(msg)
			queue = append(queue, collect(next)...)
		}
	}
	return v
}

func newTestView(svc driving.ChatService) *View {
	v := NewView(nil, nil, svc).WithIDGenerator(sequentialIDs())
	v.SetDimensions(100, 40)
	return v
}

func typeText(v *View, text string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return v
}

func send(v *View) *View {
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return drive(v, cmd)
}

// readyView returns a view with doc-1 uploaded.
func readyView(t *testing.T, svc *mockChatService) *View {
	t.Helper()
	v := newTestView(svc)
	v, _ = v.Update(messages.FileSelected{Path: "/docs/report.pdf", Size: 2048})
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	v = drive(v, cmd)
	require.Equal(t, "doc-1", v.Session().DocumentID)
	return v
}

// --- Tests ---

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
	assert.Equal(t, domain.PhaseNoDocument, v.Session().Phase())
	assert.False(t, v.input.Enabled())
	assert.Equal(t, status.StateNoDocument, v.statusbar.State())
	assert.NotNil(t, v.Init())
}

func TestView_FileSelected(t *testing.T) {
	v := newTestView(&mockChatService{})

	v, cmd := v.Update(messages.FileSelected{Path: "/docs/notes.txt", Size: 10})

	assert.Nil(t, cmd)
	require.NotNil(t, v.Session().File)
	assert.Equal(t, "notes.txt", v.Session().File.Name)
	assert.Equal(t, NoticeFileSelected, v.Notice())
	assert.Contains(t, v.View(), "File: notes.txt (10 B)")
}

func TestView_FileSelected_Unsupported(t *testing.T) {
	v := newTestView(&mockChatService{})

	v, _ = v.Update(messages.FileSelected{Path: "/img/cat.png", Size: 10})

	assert.Nil(t, v.Session().File)
	assert.Equal(t, NoticeUnsupported, v.Notice())
}

func TestView_Upload_WithoutFile(t *testing.T) {
	v := newTestView(&mockChatService{})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})

	assert.Nil(t, cmd)
	assert.Equal(t, domain.StatusSelectFile, v.Session().UploadStatus)
	assert.False(t, v.Session().Uploading)
}

func TestView_Upload_Success(t *testing.T) {
	svc := &mockChatService{}
	v := newTestView(svc)
	v, _ = v.Update(messages.FileSelected{Path: "/docs/report.pdf", Size: 2048})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	require.NotNil(t, cmd)
	assert.True(t, v.Session().Uploading)
	assert.Equal(t, domain.StatusUploading, v.Session().UploadStatus)
	assert.Equal(t, status.StateUploading, v.statusbar.State())

	v = drive(v, cmd)

	s := v.Session()
	assert.Equal(t, "doc-1", s.DocumentID)
	assert.Equal(t, 5, s.Chunks)
	assert.Empty(t, s.Messages)
	assert.Equal(t, "✅ Document uploaded! Ready for Q&A (5 chunks)", s.UploadStatus)
	assert.True(t, v.input.Enabled())
	assert.Equal(t, status.StateReady, v.statusbar.State())
}

func TestView_Upload_Failure(t *testing.T) {
	svc := &mockChatService{
		UploadFunc: func(context.Context, string) (*domain.UploadResult, error) {
			return nil, &domain.UploadError{StatusCode: 422, Message: "empty document"}
		},
	}
	v := newTestView(svc)
	v, _ = v.Update(messages.FileSelected{Path: "/docs/report.pdf"})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	v = drive(v, cmd)

	s := v.Session()
	assert.Empty(t, s.DocumentID)
	require.NotNil(t, s.File)
	assert.Equal(t, "/docs/report.pdf", s.File.Path)
	assert.Equal(t, "❌ Upload failed: empty document", s.UploadStatus)
	assert.False(t, v.input.Enabled())
}

func TestView_Upload_NetworkError(t *testing.T) {
	svc := &mockChatService{
		UploadFunc: func(context.Context, string) (*domain.UploadResult, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	v := newTestView(svc)
	v, _ = v.Update(messages.FileSelected{Path: "/docs/report.pdf"})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	v = drive(v, cmd)

	assert.Equal(t, domain.StatusNetworkError, v.Session().UploadStatus)
}

func TestView_Upload_AlreadyUploaded(t *testing.T) {
	v := readyView(t, &mockChatService{})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})

	assert.Nil(t, cmd)
	assert.Equal(t, NoticeDocumentReady, v.Notice())
}

func TestView_Upload_StaleCompletionIgnored(t *testing.T) {
	v := newTestView(&mockChatService{})
	v, _ = v.Update(messages.FileSelected{Path: "/docs/a.pdf"})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})

	// The user picks another file before the first upload returns.
	v, _ = v.Update(messages.FileSelected{Path: "/docs/b.pdf"})
	v, _ = v.Update(messages.UploadCompleted{Path: "/docs/a.pdf", Result: &domain.UploadResult{FileID: "doc-a"}})

	assert.Empty(t, v.Session().DocumentID)
	assert.Equal(t, "/docs/b.pdf", v.Session().File.Path)
}

func TestView_Ask_StreamsAnswer(t *testing.T) {
	stream := &mockStream{fragments: []string{"Hel", "lo, ", "world!"}}
	svc := &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return stream, nil
		},
	}
	v := readyView(t, svc)

	v = typeText(v, "  Who says hello?  ")
	v = send(v)

	s := v.Session()
	require.Len(t, s.Messages, 2)
	assert.Equal(t, domain.SenderUser, s.Messages[0].Sender)
	assert.Equal(t, "Who says hello?", s.Messages[0].Text)
	assert.Equal(t, domain.SenderAssistant, s.Messages[1].Sender)
	assert.Equal(t, "Hello, world!", s.Messages[1].Text)
	assert.False(t, s.Loading)
	assert.Equal(t, []string{"doc-1:Who says hello?"}, svc.asked)
	assert.Equal(t, 1, stream.closed)
	assert.False(t, v.Streaming())
	assert.Empty(t, v.input.Value())
	assert.Contains(t, v.transcript.Content(), "Hello, world!")
}

func TestView_Ask_RepeatedFragmentAppendedTwice(t *testing.T) {
	svc := &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return &mockStream{fragments: []string{"ha", "ha"}}, nil
		},
	}
	v := readyView(t, svc)

	v = send(typeText(v, "laugh"))

	assert.Equal(t, "haha", v.Session().Messages[1].Text)
}

func TestView_Ask_StreamFailureKeepsPartialText(t *testing.T) {
	stream := &mockStream{fragments: []string{"Hel"}, err: errors.New("connection reset")}
	svc := &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return stream, nil
		},
	}
	v := readyView(t, svc)

	v = send(typeText(v, "q"))

	s := v.Session()
	assert.Equal(t, "Hel"+domain.AnswerFailureText, s.Messages[1].Text)
	assert.False(t, s.Loading)
	assert.Equal(t, 1, stream.closed)
}

func TestView_Ask_OpenFailure(t *testing.T) {
	svc := &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return nil, domain.ErrStreamRejected
		},
	}
	v := readyView(t, svc)

	v = send(typeText(v, "q"))

	s := v.Session()
	assert.Equal(t, domain.AnswerFailureText, s.Messages[1].Text)
	assert.False(t, s.Loading)
	assert.Equal(t, domain.PhaseReady, s.Phase())
}

func TestView_Ask_WithoutDocument(t *testing.T) {
	svc := &mockChatService{}
	v := newTestView(svc)

	v = typeText(v, "anything?")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, v.Session().Messages)
	assert.Equal(t, NoticeNoDocument, v.Notice())
	assert.Empty(t, svc.asked)
}

func TestView_Ask_EmptyQuestionIgnored(t *testing.T) {
	v := readyView(t, &mockChatService{})

	v = typeText(v, "   ")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, v.Session().Messages)
}

func TestView_Ask_WhileAnswering(t *testing.T) {
	v := readyView(t, &mockChatService{})

	v = typeText(v, "first")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter}) // stream not driven yet
	require.True(t, v.Session().Loading)

	v = typeText(v, "second")
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Len(t, v.Session().Messages, 2)
	assert.Equal(t, NoticeAnswering, v.Notice())
	assert.Equal(t, status.StateAnswering, v.statusbar.State())
}

func TestView_Clear_MidStream(t *testing.T) {
	stream := &mockStream{fragments: []string{"Hel", "lo"}}
	svc := &mockChatService{
		AskFunc: func(context.Context, string, string) (driving.AnswerStream, error) {
			return stream, nil
		},
	}
	v := readyView(t, svc)
	v = typeText(v, "q")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	var started messages.AnswerStarted
	for _, msg := range collect(cmd) {
		if m, ok := msg.(messages.AnswerStarted); ok {
			started = m
		}
	}
	v, readCmd := v.Update(started)
	first := collect(readCmd)
	require.Len(t, first, 1)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

	assert.Equal(t, 1, stream.closed)
	assert.Empty(t, v.Session().Messages)
	assert.Nil(t, v.Session().File)

	// The fragment read before the clear arrives late and is dropped.
	v, next := v.Update(first[0])
	assert.Nil(t, next)
	assert.Empty(t, v.Session().Messages)
}

func TestView_AnswerStarted_AfterScopeChange(t *testing.T) {
	v := readyView(t, &mockChatService{})
	stream := &mockStream{}

	v, cmd := v.Update(messages.AnswerStarted{MessageID: "gone", Stream: stream})

	assert.Nil(t, cmd)
	assert.Equal(t, 1, stream.closed)
	assert.False(t, v.Streaming())
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newTestView(nil)

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
	assert.Equal(t, status.StateError, v.statusbar.State())
}

func TestView_NilService(t *testing.T) {
	v := newTestView(nil)
	v, _ = v.Update(messages.FileSelected{Path: "/docs/a.txt"})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	v = drive(v, cmd)

	assert.Equal(t, domain.StatusNetworkError, v.Session().UploadStatus)
}

func TestView_Render(t *testing.T) {
	v := readyView(t, &mockChatService{})

	out := v.View()

	assert.Contains(t, out, "ragchat")
	assert.Contains(t, out, "report.pdf (2.0 KB)")
	assert.Contains(t, out, "Ready for Q&A")
	assert.Contains(t, out, "Ask:")
}

func TestView_SetDimensions(t *testing.T) {
	v := NewView(nil, nil, nil)

	v.SetDimensions(120, 50)

	assert.Equal(t, 120, v.Width())
	assert.Equal(t, 50, v.Height())
	assert.True(t, v.Ready())
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanSize(tt.n))
	}
}
