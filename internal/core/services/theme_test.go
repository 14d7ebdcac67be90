package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// mockWatcher implements driven.ConfigWatcher for testing.
// Each send on changes invokes the onChange callback.
type mockWatcher struct {
	changes chan struct{}
	err     error
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{changes: make(chan struct{})}
}

func (m *mockWatcher) Watch(ctx context.Context, onChange func()) error {
	if m.err != nil {
		return m.err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-m.changes:
			if !ok {
				return nil
			}
			onChange()
		}
	}
}

func (m *mockWatcher) Close() error {
	return nil
}

func TestThemeService_Current_DefaultsToLight(t *testing.T) {
	tests := []struct {
		name   string
		stored any
	}{
		{"missing", nil},
		{"unknown", "solarized"},
		{"wrong type", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			if tt.stored != nil {
				_ = store.Set("ui.theme", tt.stored)
			}
			service := NewThemeService(store, nil)

			assert.Equal(t, domain.ThemeLight, service.Current())
		})
	}
}

func TestThemeService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewThemeService(store, nil)

	require.NoError(t, service.Set(domain.ThemeDark))
	assert.Equal(t, "dark", store.GetString("ui.theme"))
	assert.Equal(t, domain.ThemeDark, service.Current())

	err := service.Set("neon")
	assert.ErrorIs(t, err, domain.ErrInvalidTheme)
	assert.Equal(t, domain.ThemeDark, service.Current())
}

func TestThemeService_Toggle(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewThemeService(store, nil)

	theme, err := service.Toggle()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)
	assert.Equal(t, "dark", store.GetString("ui.theme"))

	theme, err = service.Toggle()
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)
	assert.Equal(t, "light", store.GetString("ui.theme"))
}

func TestThemeService_ToggleTwice_RestoresPreference(t *testing.T) {
	for _, start := range []domain.Theme{domain.ThemeLight, domain.ThemeDark} {
		t.Run(start.String(), func(t *testing.T) {
			service := NewThemeService(memory.NewConfigStore(), nil)
			require.NoError(t, service.Set(start))

			_, err := service.Toggle()
			require.NoError(t, err)
			_, err = service.Toggle()
			require.NoError(t, err)

			assert.Equal(t, start, service.Current())
		})
	}
}

func TestThemeService_Subscribe_NilWithoutWatcher(t *testing.T) {
	service := NewThemeService(memory.NewConfigStore(), nil)

	assert.Nil(t, service.Subscribe(context.Background()))
}

func TestThemeService_Subscribe_DeliversChanges(t *testing.T) {
	store := memory.NewConfigStore()
	watcher := newMockWatcher()
	service := NewThemeService(store, watcher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := service.Subscribe(ctx)
	require.NotNil(t, ch)

	// Another process writes the config file.
	_ = store.Set("ui.theme", "dark")
	watcher.changes <- struct{}{}

	select {
	case theme := <-ch:
		assert.Equal(t, domain.ThemeDark, theme)
	case <-time.After(time.Second):
		t.Fatal("theme change not delivered")
	}

	// A change event that leaves the theme alone is not delivered.
	watcher.changes <- struct{}{}
	select {
	case theme := <-ch:
		t.Fatalf("unexpected theme %s", theme)
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}
