// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the upload and conversation view.
	ViewChat ViewType = iota

	// ViewPicker is the document file picker.
	ViewPicker

	// ViewSettings is the settings view.
	ViewSettings

	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewPicker:
		return "picker"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// FileSelected is sent when a document is picked for upload.
type FileSelected struct {
	Path string
	Size int64
}

// UploadCompleted carries the outcome of an upload request.
type UploadCompleted struct {
	// Path identifies the file that was uploaded.
	Path   string
	Result *domain.UploadResult
	Err    error
}

// AnswerStarted carries the opened answer stream for a placeholder message.
type AnswerStarted struct {
	MessageID string
	Stream    driving.AnswerStream
	Err       error
}

// FragmentReceived carries one decoded fragment of an answer.
type FragmentReceived struct {
	MessageID string
	Fragment  string
}

// AnswerFinished signals the end of an answer stream.
// Err is nil when the stream ended normally.
type AnswerFinished struct {
	MessageID string
	Err       error
}

// ThemeChanged signals the active theme changed, locally or on disk.
type ThemeChanged struct {
	Theme domain.Theme
	Err   error
}

// ToggleTheme requests switching between light and dark.
type ToggleTheme struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
