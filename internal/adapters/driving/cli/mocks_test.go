package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// mockChatService implements driving.ChatService for CLI tests.
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
	return &mockStream{fragments: []string{"Hel", "lo"}}, nil
}

// mockStream implements driving.AnswerStream over fixed fragments.
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

// mockThemeService implements driving.ThemeService for CLI tests.
type mockThemeService struct {
	theme   domain.Theme
	SetFunc func(theme domain.Theme) error
}

func (m *mockThemeService) Current() domain.Theme {
	return domain.ThemeOrDefault(string(m.theme))
}

func (m *mockThemeService) Set(theme domain.Theme) error {
	if m.SetFunc != nil {
		return m.SetFunc(theme)
	}
	m.theme = theme
	return nil
}

func (m *mockThemeService) Toggle() (domain.Theme, error) {
	m.theme = m.Current().Toggle()
	return m.theme, nil
}

func (m *mockThemeService) Subscribe(context.Context) <-chan domain.Theme {
	return nil
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	settings domain.AppSettings
	saved    *domain.AppSettings

	SetBackendURLFunc func(baseURL string) error
	SetRateLimitFunc  func(rps float64, burst int) error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetBackendURL(baseURL string) error {
	if m.SetBackendURLFunc != nil {
		return m.SetBackendURLFunc(baseURL)
	}
	m.settings.Backend.BaseURL = baseURL
	return nil
}

func (m *mockSettingsService) SetRateLimit(rps float64, burst int) error {
	if m.SetRateLimitFunc != nil {
		return m.SetRateLimitFunc(rps, burst)
	}
	m.settings.Backend.RequestsPerSecond = rps
	m.settings.Backend.Burst = burst
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ConfigPath() string {
	return "/home/user/.ragchat/config.toml"
}

// useServices installs services for the duration of a test.
func useServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(nil) })
}

// execute runs the root command with args and stdin, returning all output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag in the tree to its default and unmarks it
// as set, so required-flag checks see a fresh command line.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
