package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the light/dark theme",
	Long: `Show or change the persisted theme preference.

A running TUI picks up changes made here immediately.`,
	RunE: runThemeShow,
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current theme",
	RunE:  runThemeShow,
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	RunE:  runThemeToggle,
}

var themeSetCmd = &cobra.Command{
	Use:       "set <dark|light>",
	Short:     "Set the theme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(domain.ThemeDark), string(domain.ThemeLight)},
	RunE:      runThemeSet,
}

func init() {
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeToggleCmd)
	themeCmd.AddCommand(themeSetCmd)
	rootCmd.AddCommand(themeCmd)
}

func runThemeShow(cmd *cobra.Command, _ []string) error {
	if themeService == nil {
		return errServiceNotConfigured("theme")
	}
	cmd.Println(themeService.Current())
	return nil
}

func runThemeToggle(cmd *cobra.Command, _ []string) error {
	if themeService == nil {
		return errServiceNotConfigured("theme")
	}
	theme, err := themeService.Toggle()
	if err != nil {
		return fmt.Errorf("failed to toggle theme: %w", err)
	}
	cmd.Printf("Theme set to: %s\n", theme)
	return nil
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	if themeService == nil {
		return errServiceNotConfigured("theme")
	}
	theme, err := domain.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := themeService.Set(theme); err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}
	cmd.Printf("Theme set to: %s\n", theme)
	return nil
}
