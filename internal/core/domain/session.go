package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status texts shown for the upload flow.
const (
	StatusSelectFile     = "⚠️ Please select a file first."
	StatusUploading      = "Uploading document..."
	StatusNetworkError   = "❌ Network error during upload."
	StatusUnknownError   = "Unknown error"
	statusUploadedFormat = "✅ Document uploaded! Ready for Q&A (%d chunks)"
	statusFailedFormat   = "❌ Upload failed: %s"
)

// AnswerFailureText is appended to an assistant message whose stream failed.
const AnswerFailureText = "\n\nAn error occurred while fetching the answer. Please check the backend service."

// Phase is the externally observable state of a session.
type Phase string

const (
	// PhaseNoDocument means nothing is uploaded; questions are disabled.
	PhaseNoDocument Phase = "no_document"

	// PhaseReady means a document is uploaded and no answer is streaming.
	PhaseReady Phase = "ready"

	// PhaseAwaitingAnswer means an answer is streaming.
	PhaseAwaitingAnswer Phase = "awaiting_answer"
)

// String returns the string representation.
func (p Phase) String() string {
	return string(p)
}

// Session is the upload/chat state for one user.
// The message list is always scoped to exactly one document: selecting a
// new file or clearing resets DocumentID and Messages together.
//
// Every transition returns a new Session and leaves the receiver untouched,
// so callers always derive the next state from the latest one.
type Session struct {
	// File is the file picked for upload, if any.
	File *SelectedFile

	// DocumentID is set once an upload succeeds.
	DocumentID string

	// Chunks is the chunk count reported for DocumentID.
	Chunks int

	// UploadStatus is the human-readable upload status line.
	UploadStatus string

	// Messages is the ordered conversation for DocumentID.
	Messages []Message

	// Uploading is true while an upload request is in flight.
	Uploading bool

	// Loading is true while an answer is streaming.
	Loading bool
}

// Phase returns the current phase.
func (s Session) Phase() Phase {
	switch {
	case s.DocumentID == "":
		return PhaseNoDocument
	case s.Loading:
		return PhaseAwaitingAnswer
	default:
		return PhaseReady
	}
}

// CanAsk reports whether a question can be submitted now.
func (s Session) CanAsk() bool {
	return s.DocumentID != "" && !s.Loading
}

// CanUpload reports whether the selected file can be submitted now.
func (s Session) CanUpload() bool {
	return s.File != nil && s.DocumentID == "" && !s.Uploading
}

// SelectFile picks a new file and starts a fresh document scope.
func (s Session) SelectFile(f SelectedFile) Session {
	s.File = &f
	s.DocumentID = ""
	s.Chunks = 0
	s.UploadStatus = ""
	s.Messages = nil
	s.Uploading = false
	s.Loading = false
	return s
}

// Clear drops the file, the document and the whole conversation.
func (s Session) Clear() Session {
	s.File = nil
	s.DocumentID = ""
	s.Chunks = 0
	s.UploadStatus = ""
	s.Messages = nil
	s.Uploading = false
	s.Loading = false
	return s
}

// BeginUpload marks the selected file as being uploaded.
// Without a file it only sets the warning status.
func (s Session) BeginUpload() (Session, error) {
	switch {
	case s.File == nil:
		s.UploadStatus = StatusSelectFile
		return s, ErrNoFileSelected
	case s.Uploading:
		return s, ErrUploadInProgress
	case s.DocumentID != "":
		return s, ErrDocumentReady
	}

	s.Uploading = true
	s.UploadStatus = StatusUploading
	return s, nil
}

// CompleteUpload records a successful upload.
// A result without a file identifier is treated as a failure. Results
// arriving after the scope changed (no upload pending) are ignored.
func (s Session) CompleteUpload(res UploadResult) Session {
	if !s.Uploading {
		return s
	}
	if res.FileID == "" {
		return s.FailUpload(&UploadError{})
	}

	s.Uploading = false
	s.DocumentID = res.FileID
	s.Chunks = res.Chunks
	s.UploadStatus = fmt.Sprintf(statusUploadedFormat, res.Chunks)
	s.Messages = nil
	return s
}

// FailUpload records a failed upload. The selected file is kept so the
// user can resubmit it.
func (s Session) FailUpload(err error) Session {
	if !s.Uploading {
		return s
	}
	s.Uploading = false
	s.DocumentID = ""
	s.Chunks = 0
	s.UploadStatus = UploadFailureStatus(err)
	return s
}

// ApplyUpload records the outcome of an upload request.
// A nil result without an error counts as a response lacking a file
// identifier.
func (s Session) ApplyUpload(res *UploadResult, err error) Session {
	switch {
	case err != nil:
		return s.FailUpload(err)
	case res == nil:
		return s.FailUpload(&UploadError{})
	default:
		return s.CompleteUpload(*res)
	}
}

// UploadFailureStatus maps an upload error to its status text.
// Backend-reported failures quote the backend message; everything else is
// reported as a network error.
func UploadFailureStatus(err error) string {
	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		msg := uploadErr.Message
		if msg == "" {
			msg = StatusUnknownError
		}
		return fmt.Sprintf(statusFailedFormat, msg)
	}
	return StatusNetworkError
}

// Ask appends the user's question and an empty assistant placeholder.
// It returns the placeholder ID that fragments must be appended to.
// newID must return a fresh unique identifier on every call.
func (s Session) Ask(question string, newID func() string) (Session, string, error) {
	question = strings.TrimSpace(question)
	switch {
	case question == "":
		return s, "", ErrEmptyQuestion
	case s.DocumentID == "":
		return s, "", ErrNoDocument
	case s.Loading:
		return s, "", ErrAnswerInProgress
	}

	answerID := newID()
	messages := make([]Message, len(s.Messages), len(s.Messages)+2)
	copy(messages, s.Messages)
	messages = append(messages,
		Message{ID: newID(), Text: question, Sender: SenderUser},
		Message{ID: answerID, Text: "", Sender: SenderAssistant},
	)

	s.Messages = messages
	s.Loading = true
	return s, answerID, nil
}

// AppendFragment appends a decoded fragment to the assistant message.
// Every fragment is appended exactly once, even when it repeats the tail
// of the text. Unknown IDs are ignored.
func (s Session) AppendFragment(messageID, fragment string) Session {
	return s.updateMessage(messageID, func(m *Message) {
		m.Text += fragment
	})
}

// FinishAnswer marks the answer stream as complete.
func (s Session) FinishAnswer(messageID string) Session {
	if s.indexOf(messageID) < 0 {
		return s
	}
	s.Loading = false
	return s
}

// FailAnswer appends the failure text to the assistant message and ends
// the stream. Text streamed so far is preserved.
func (s Session) FailAnswer(messageID string) Session {
	if s.indexOf(messageID) < 0 {
		return s
	}
	s = s.updateMessage(messageID, func(m *Message) {
		m.Text += AnswerFailureText
	})
	s.Loading = false
	return s
}

// Message returns the message with the given ID.
func (s Session) Message(messageID string) (Message, bool) {
	i := s.indexOf(messageID)
	if i < 0 {
		return Message{}, false
	}
	return s.Messages[i], true
}

func (s Session) indexOf(messageID string) int {
	for i := range s.Messages {
		if s.Messages[i].ID == messageID {
			return i
		}
	}
	return -1
}

// updateMessage applies fn to a copy of the message list.
func (s Session) updateMessage(messageID string, fn func(*Message)) Session {
	i := s.indexOf(messageID)
	if i < 0 {
		return s
	}
	messages := make([]Message, len(s.Messages))
	copy(messages, s.Messages)
	fn(&messages[i])
	s.Messages = messages
	return s
}
