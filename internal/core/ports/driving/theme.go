package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// ThemeService manages the persisted light/dark preference.
type ThemeService interface {
	// Current returns the stored theme, light when unset.
	Current() domain.Theme

	// Set stores a theme.
	Set(theme domain.Theme) error

	// Toggle switches between light and dark and stores the result.
	Toggle() (domain.Theme, error)

	// Subscribe delivers the theme whenever it changes on disk.
	// The channel is closed when ctx is cancelled. It returns nil when
	// change notifications are unavailable.
	Subscribe(ctx context.Context) <-chan domain.Theme
}
