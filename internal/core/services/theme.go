package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure ThemeService implements the interface.
var _ driving.ThemeService = (*ThemeService)(nil)

// ThemeService manages the persisted light/dark preference.
type ThemeService struct {
	configStore driven.ConfigStore
	watcher     driven.ConfigWatcher
}

// NewThemeService creates a new theme service.
// watcher may be nil, in which case Subscribe returns nil.
func NewThemeService(configStore driven.ConfigStore, watcher driven.ConfigWatcher) *ThemeService {
	return &ThemeService{
		configStore: configStore,
		watcher:     watcher,
	}
}

// Current returns the stored theme. Missing or unknown values read as light.
func (s *ThemeService) Current() domain.Theme {
	return domain.ThemeOrDefault(s.configStore.GetString(keyUITheme))
}

// Set stores a theme.
func (s *ThemeService) Set(theme domain.Theme) error {
	if _, err := domain.ParseTheme(theme.String()); err != nil {
		return err
	}
	if err := s.configStore.Set(keyUITheme, theme.String()); err != nil {
		return fmt.Errorf("save ui theme: %w", err)
	}
	logger.Debug("Theme set to %s", theme)
	return nil
}

// Toggle switches between light and dark and stores the result.
func (s *ThemeService) Toggle() (domain.Theme, error) {
	next := s.Current().Toggle()
	if err := s.Set(next); err != nil {
		return s.Current(), err
	}
	return next, nil
}

// Subscribe delivers the theme each time the config file changes it.
func (s *ThemeService) Subscribe(ctx context.Context) <-chan domain.Theme {
	if s.watcher == nil {
		return nil
	}

	ch := make(chan domain.Theme, 1)
	go func() {
		defer close(ch)

		last := s.Current()
		err := s.watcher.Watch(ctx, func() {
			if err := s.configStore.Load(); err != nil {
				logger.Warn("reload config: %v", err)
				return
			}
			current := s.Current()
			if current == last {
				return
			}
			last = current
			select {
			case ch <- current:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()

	return ch
}
