package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
	"github.com/custodia-labs/ragchat/internal/streaming"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService uploads documents and opens answer streams.
type ChatService struct {
	backend driven.RAGBackend
}

// NewChatService creates a new chat service.
func NewChatService(backend driven.RAGBackend) *ChatService {
	return &ChatService{backend: backend}
}

// Upload sends a local document to the backend.
func (s *ChatService) Upload(ctx context.Context, path string) (*domain.UploadResult, error) {
	if path == "" {
		return nil, domain.ErrNoFileSelected
	}
	if !domain.IsSupportedDocument(path) {
		return nil, fmt.Errorf("%w: %s (supported: %s)", domain.ErrUnsupportedDocument,
			filepath.Base(path), strings.Join(domain.SupportedDocumentExtensions, ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	logger.Debug("Uploading %s (%d bytes) to %s", info.Name(), info.Size(), s.backend.BaseURL())

	res, err := s.backend.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	if res == nil || res.FileID == "" {
		return nil, fmt.Errorf("%w: %w", &domain.UploadError{}, domain.ErrMissingFileID)
	}

	logger.Info("Uploaded %s as %s (%d chunks)", info.Name(), res.FileID, res.Chunks)
	return res, nil
}

// Ask opens an answer stream for a question about an uploaded document.
func (s *ChatService) Ask(ctx context.Context, documentID, question string) (driving.AnswerStream, error) {
	question = strings.TrimSpace(question)
	if documentID == "" {
		return nil, domain.ErrNoDocument
	}
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	body, err := s.backend.AskStream(ctx, documentID, question)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, domain.ErrNoResponseBody
	}

	logger.Debug("Streaming answer for document %s", documentID)
	return &answerStream{
		reader: streaming.NewFragmentReader(body),
		closer: body,
	}, nil
}

// answerStream decodes one streamed answer.
type answerStream struct {
	reader *streaming.FragmentReader
	closer interface{ Close() error }
	once   sync.Once
	err    error
}

// Next returns the next decoded fragment.
func (a *answerStream) Next() (string, error) {
	return a.reader.Next()
}

// Close releases the response body. It is safe to call more than once.
func (a *answerStream) Close() error {
	a.once.Do(func() {
		a.err = a.closer.Close()
	})
	return a.err
}
