package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// RAGBackend is the remote service that ingests documents and answers
// questions about them.
type RAGBackend interface {
	// Upload sends a document and returns the backend's identifier for it.
	// Backend-reported failures are returned as *domain.UploadError.
	Upload(ctx context.Context, filename string, content io.Reader) (*domain.UploadResult, error)

	// AskStream starts an answer for a question about a document.
	// The returned body is an unframed byte stream; the caller must close it.
	AskStream(ctx context.Context, documentID, question string) (io.ReadCloser, error)

	// BaseURL returns the backend root the client talks to.
	BaseURL() string
}
