package domain

import (
	"path/filepath"
	"strings"
)

// SupportedDocumentExtensions lists the file types offered for upload.
var SupportedDocumentExtensions = []string{".pdf", ".txt"}

// SelectedFile is a local file chosen for upload.
type SelectedFile struct {
	// Path is the file location on disk.
	Path string

	// Name is the base name sent to the backend.
	Name string

	// Size is the file size in bytes.
	Size int64
}

// NewSelectedFile builds a SelectedFile from a path.
func NewSelectedFile(path string, size int64) SelectedFile {
	return SelectedFile{
		Path: path,
		Name: filepath.Base(path),
		Size: size,
	}
}

// IsSupportedDocument reports whether the path has a supported extension.
func IsSupportedDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedDocumentExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// UploadResult is the backend's answer to a successful upload.
type UploadResult struct {
	// FileID is the document identifier scoping later questions.
	FileID string `json:"file_id"`

	// Chunks is the number of chunks the backend ingested.
	Chunks int `json:"chunks"`
}
