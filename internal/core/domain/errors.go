package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Upload Errors.

	// ErrNoFileSelected indicates an upload was requested without a file.
	ErrNoFileSelected = errors.New("no file selected")

	// ErrUnsupportedDocument indicates the file type is not a supported document.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrUploadInProgress indicates an upload is already running.
	ErrUploadInProgress = errors.New("upload in progress")

	// ErrDocumentReady indicates the selected file is already uploaded.
	// Selecting a new file starts a new document scope.
	ErrDocumentReady = errors.New("document already uploaded")

	// ErrMissingFileID indicates the backend accepted the upload but
	// returned no document identifier.
	ErrMissingFileID = errors.New("response has no file_id")

	// Chat Errors.

	// ErrNoDocument indicates a question was asked before a document was uploaded.
	ErrNoDocument = errors.New("no document uploaded")

	// ErrEmptyQuestion indicates the question is empty after trimming.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrAnswerInProgress indicates an answer is still streaming.
	ErrAnswerInProgress = errors.New("answer in progress")

	// ErrNoResponseBody indicates the streaming response carried no body.
	ErrNoResponseBody = errors.New("failed to get response body")

	// ErrStreamRejected indicates the backend refused to stream an answer.
	ErrStreamRejected = errors.New("answer stream rejected")

	// Preference Errors.

	// ErrInvalidTheme indicates an unknown theme name.
	ErrInvalidTheme = errors.New("invalid theme")
)

// UploadError is a failure reported by the backend for an upload request.
// Message is the backend's own error text and may be empty.
type UploadError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload rejected (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("upload rejected (status %d): %s", e.StatusCode, e.Message)
}
