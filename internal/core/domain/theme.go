package domain

import "fmt"

// Theme is the persisted display preference.
type Theme string

const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"

	// ThemeDark is the dark theme.
	ThemeDark Theme = "dark"
)

// IsValid returns true if the theme is recognised.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// String returns the string representation.
func (t Theme) String() string {
	return string(t)
}

// IsDark returns true for the dark theme.
func (t Theme) IsDark() bool {
	return t == ThemeDark
}

// Toggle returns the other theme. Anything that is not dark toggles to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme parses a theme name.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidTheme, s, ThemeDark, ThemeLight)
	}
	return t, nil
}

// ThemeOrDefault returns the stored theme, falling back to light for
// missing or unknown values.
func ThemeOrDefault(s string) Theme {
	if t := Theme(s); t.IsValid() {
		return t
	}
	return ThemeLight
}
