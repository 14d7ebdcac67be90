package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTheme_Toggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, Theme("").Toggle())
}

func TestTheme_ToggleTwiceIsIdentity(t *testing.T) {
	for _, theme := range []Theme{ThemeLight, ThemeDark} {
		assert.Equal(t, theme, theme.Toggle().Toggle())
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		input   string
		want    Theme
		wantErr bool
	}{
		{input: "dark", want: ThemeDark},
		{input: "light", want: ThemeLight},
		{input: "Dark", wantErr: true},
		{input: "", wantErr: true},
		{input: "solarized", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTheme(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTheme)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestThemeOrDefault(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeOrDefault("dark"))
	assert.Equal(t, ThemeLight, ThemeOrDefault("light"))
	assert.Equal(t, ThemeLight, ThemeOrDefault(""))
	assert.Equal(t, ThemeLight, ThemeOrDefault("neon"))
}

func TestTheme_IsDark(t *testing.T) {
	assert.True(t, ThemeDark.IsDark())
	assert.False(t, ThemeLight.IsDark())
}
