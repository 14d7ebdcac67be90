package services

import (
	"fmt"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBackendBaseURL = "backend.base_url"
	keyBackendRPS     = "backend.requests_per_second"
	keyBackendBurst   = "backend.burst"
	keyUITheme        = "ui.theme"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			BaseURL:           s.getString(keyBackendBaseURL, defaults.Backend.BaseURL),
			RequestsPerSecond: s.getPositiveFloat(keyBackendRPS, defaults.Backend.RequestsPerSecond),
			Burst:             s.getPositiveInt(keyBackendBurst, defaults.Backend.Burst),
		},
		UI: domain.UISettings{
			Theme: domain.ThemeOrDefault(s.configStore.GetString(keyUITheme)),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}
	if err := settings.Backend.Validate(); err != nil {
		return err
	}
	if !settings.UI.Theme.IsValid() {
		_, err := domain.ParseTheme(settings.UI.Theme.String())
		return err
	}

	if err := s.configStore.Set(keyBackendBaseURL, settings.Backend.BaseURL); err != nil {
		return fmt.Errorf("save backend base_url: %w", err)
	}
	if err := s.configStore.Set(keyBackendRPS, settings.Backend.RequestsPerSecond); err != nil {
		return fmt.Errorf("save backend requests_per_second: %w", err)
	}
	if err := s.configStore.Set(keyBackendBurst, settings.Backend.Burst); err != nil {
		return fmt.Errorf("save backend burst: %w", err)
	}
	if err := s.configStore.Set(keyUITheme, settings.UI.Theme.String()); err != nil {
		return fmt.Errorf("save ui theme: %w", err)
	}

	return nil
}

// SetBackendURL updates the backend root URL.
func (s *SettingsService) SetBackendURL(baseURL string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Backend.BaseURL = baseURL
	if err := settings.Backend.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyBackendBaseURL, baseURL); err != nil {
		return fmt.Errorf("save backend base_url: %w", err)
	}
	return nil
}

// SetRateLimit updates client-side request pacing.
func (s *SettingsService) SetRateLimit(requestsPerSecond float64, burst int) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Backend.RequestsPerSecond = requestsPerSecond
	settings.Backend.Burst = burst
	if err := settings.Backend.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyBackendRPS, requestsPerSecond); err != nil {
		return fmt.Errorf("save backend requests_per_second: %w", err)
	}
	if err := s.configStore.Set(keyBackendBurst, burst); err != nil {
		return fmt.Errorf("save backend burst: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns where settings are stored.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getPositiveFloat(key string, defaultVal float64) float64 {
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}
