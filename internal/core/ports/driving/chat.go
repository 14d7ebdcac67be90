package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// ChatService uploads documents and streams answers about them.
type ChatService interface {
	// Upload sends a local file to the backend.
	// Only supported document types are accepted.
	Upload(ctx context.Context, path string) (*domain.UploadResult, error)

	// Ask opens an answer stream for a question about an uploaded document.
	Ask(ctx context.Context, documentID, question string) (AnswerStream, error)
}

// AnswerStream yields the decoded fragments of one streamed answer.
type AnswerStream interface {
	// Next returns the next fragment, or io.EOF when the answer is complete.
	// Any other error means the stream failed; earlier fragments stay valid.
	Next() (string, error)

	// Close releases the underlying connection.
	Close() error
}
