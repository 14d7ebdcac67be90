package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result    *domain.UploadResult
	uploadErr error
	stream    *mockStream
	askErr    error
	asked     []string
}

func (m *mockChatService) Upload(_ context.Context, _ string) (*domain.UploadResult, error) {
	return m.result, m.uploadErr
}

func (m *mockChatService) Ask(_ context.Context, documentID, question string) (driving.AnswerStream, error) {
	m.asked = append(m.asked, documentID+":"+question)
	if m.askErr != nil {
		return nil, m.askErr
	}
	if m.stream == nil {
		return &mockStream{}, nil
	}
	return m.stream, nil
}

// mockStream is a mock implementation of driving.AnswerStream.
type mockStream struct {
	fragments []string
	err       error
	closed    bool
}

func (m *mockStream) Next() (string, error) {
	if len(m.fragments) == 0 {
		if m.err != nil {
			return "", m.err
		}
		return "", io.EOF
	}
	f := m.fragments[0]
	m.fragments = m.fragments[1:]
	return f, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetBackendURL(_ string) error { return m.err }

func (m *mockSettingsService) SetRateLimit(_ float64, _ int) error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ConfigPath() string { return "/home/user/.ragchat/config.toml" }
