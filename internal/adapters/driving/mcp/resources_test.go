package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

func newReadRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleSettingsResource(t *testing.T) {
	ctx := context.Background()
	uri := uriScheme + "settings"

	t.Run("returns settings as JSON", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.UI.Theme = domain.ThemeDark
		server, err := NewServer(&Ports{
			Chat:     &mockChatService{},
			Settings: &mockSettingsService{settings: &settings},
		})
		require.NoError(t, err)

		result, err := server.handleSettingsResource(ctx, newReadRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uri, result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var info settingsInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, domain.DefaultBackendURL, info.BackendURL)
		assert.Equal(t, "dark", info.Theme)
		assert.Equal(t, "/home/user/.ragchat/config.toml", info.ConfigPath)
	})

	t.Run("not found without settings service", func(t *testing.T) {
		server, err := NewServer(&Ports{Chat: &mockChatService{}})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(ctx, newReadRequest(uri))

		assert.Error(t, err)
	})

	t.Run("propagates load errors", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Chat:     &mockChatService{},
			Settings: &mockSettingsService{err: errors.New("unreadable")},
		})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(ctx, newReadRequest(uri))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unreadable")
	})
}
