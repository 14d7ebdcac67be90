package domain

import (
	"fmt"
	"net/url"
)

// Default backend settings.
const (
	DefaultBackendURL        = "http://localhost:8000"
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10
)

// BackendSettings configures how the RAG backend is reached.
type BackendSettings struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string

	// RequestsPerSecond paces requests sent to the backend.
	RequestsPerSecond float64

	// Burst is the number of requests allowed back to back.
	Burst int
}

// Validate checks the backend settings.
func (b BackendSettings) Validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: backend url: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: backend url must be http or https: %q", ErrInvalidInput, b.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: backend url has no host: %q", ErrInvalidInput, b.BaseURL)
	}
	if b.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: requests per second must be positive", ErrInvalidInput)
	}
	if b.Burst < 1 {
		return fmt.Errorf("%w: burst must be at least 1", ErrInvalidInput)
	}
	return nil
}

// UISettings holds display preferences.
type UISettings struct {
	// Theme is the light/dark preference.
	Theme Theme
}

// AppSettings holds all persisted application settings.
type AppSettings struct {
	Backend BackendSettings
	UI      UISettings
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			BaseURL:           DefaultBackendURL,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		UI: UISettings{
			Theme: ThemeLight,
		},
	}
}
