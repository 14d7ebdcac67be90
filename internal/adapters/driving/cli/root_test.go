package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "backend", "log-file", "config-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"tui", "upload", "ask", "chat", "theme", "settings", "mcp", "version"}

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range want {
		assert.True(t, names[name], "missing command %s", name)
	}
}

func TestResolveBackendURL(t *testing.T) {
	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"flag wins", "http://flag:1", "http://env:2", "http://flag:1"},
		{"env fallback", "", "http://env:2", "http://env:2"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvBackendURL, tt.env)
			backendFlag = tt.flag
			defer func() { backendFlag = "" }()

			assert.Equal(t, tt.want, resolveBackendURL())
		})
	}
}

func TestExecute_Bootstrap(t *testing.T) {
	t.Setenv(EnvBackendURL, "")
	var got Options
	cleaned := false
	SetBootstrap(func(_ context.Context, opts Options) (*Services, func(), error) {
		got = opts
		return &Services{Theme: &mockThemeService{}}, func() { cleaned = true }, nil
	})
	t.Cleanup(func() {
		SetBootstrap(nil)
		SetServices(nil)
	})

	rootCmd.SetArgs([]string{"--backend", "http://example:9", "--config-dir", "/tmp/cfg", "version"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "http://example:9", got.BackendURL)
	assert.Equal(t, "/tmp/cfg", got.ConfigDir)
	assert.NotNil(t, themeService)
	assert.True(t, cleaned)
}

func TestExecute_BootstrapError(t *testing.T) {
	bootErr := errors.New("no config dir")
	SetBootstrap(func(context.Context, Options) (*Services, func(), error) {
		return nil, nil, bootErr
	})
	t.Cleanup(func() { SetBootstrap(nil) })

	_, err := execute(t, "", "version")

	assert.ErrorIs(t, err, bootErr)
}

func TestSetServices_Nil(t *testing.T) {
	SetServices(&Services{Chat: &mockChatService{}})

	SetServices(nil)

	assert.Nil(t, chatService)
	assert.Nil(t, themeService)
	assert.Nil(t, settingsService)
}
