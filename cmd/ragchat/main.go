// Command ragchat is a terminal client for a retrieval-augmented-generation
// backend: upload a document, then ask questions and stream the answers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/backend/httpapi"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/services"
	"github.com/custodia-labs/ragchat/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(bootstrap)
	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires adapters into services once flags are known.
// An unusable config directory falls back to in-memory settings.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, func(), error) {
	logger.Section("Bootstrap")

	var (
		store   driven.ConfigStore
		watcher driven.ConfigWatcher
	)
	cleanup := func() {}

	fileStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		logger.Warn("config unavailable, settings will not persist: %v", err)
		store = memory.NewConfigStore()
	} else {
		store = fileStore
		w, err := file.NewWatcher(fileStore.Path())
		if err != nil {
			logger.Warn("config watcher unavailable: %v", err)
		} else {
			watcher = w
			cleanup = func() { _ = w.Close() }
		}
	}
	logger.Debug("Config: %s", store.Path())

	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	backend := settings.Backend
	if opts.BackendURL != "" {
		backend.BaseURL = opts.BackendURL
		if err := backend.Validate(); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("backend override: %w", err)
		}
	}

	client := httpapi.NewClient(httpapi.Config{
		BaseURL:           backend.BaseURL,
		RequestsPerSecond: backend.RequestsPerSecond,
		Burst:             backend.Burst,
	})
	logger.Debug("Backend: %s (%.2g req/s, burst %d)", client.BaseURL(), backend.RequestsPerSecond, backend.Burst)

	return &cli.Services{
		Chat:     services.NewChatService(client),
		Theme:    services.NewThemeService(store, watcher),
		Settings: settingsService,
	}, cleanup, nil
}
