package domain

// Sender identifies who authored a message.
type Sender string

const (
	// SenderUser marks a question typed by the user.
	SenderUser Sender = "user"

	// SenderAssistant marks an answer streamed from the backend.
	SenderAssistant Sender = "assistant"
)

// IsValid returns true if the sender is recognised.
func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderAssistant
}

// String returns the string representation.
func (s Sender) String() string {
	return string(s)
}

// Label returns the heading shown above the message.
func (s Sender) Label() string {
	if s == SenderUser {
		return "You"
	}
	return "Assistant"
}

// Message is one entry of the conversation.
// Assistant messages grow by appended fragments while their answer streams.
type Message struct {
	// ID is opaque and unique within a session.
	ID string

	// Text is the message body.
	Text string

	// Sender is the author.
	Sender Sender
}
