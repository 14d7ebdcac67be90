package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend endpoint, request pacing and theme.

Use subcommands to change specific settings or run the interactive wizard.
Backend changes apply the next time ragchat starts.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend <url>",
	Short: "Set the backend root URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsBackend,
}

var settingsRateCmd = &cobra.Command{
	Use:   "rate <requests-per-second> <burst>",
	Short: "Set client-side request pacing",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsRate,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	settingsCmd.AddCommand(settingsRateCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errServiceNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.Backend.BaseURL)
	cmd.Printf("  Rate limit: %s req/s, burst %d\n",
		strconv.FormatFloat(settings.Backend.RequestsPerSecond, 'g', -1, 64), settings.Backend.Burst)
	cmd.Println()

	cmd.Println("[UI]")
	cmd.Printf("  Theme: %s\n", settings.UI.Theme)
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	return nil
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errServiceNotConfigured("settings")
	}
	if err := settingsService.SetBackendURL(args[0]); err != nil {
		return fmt.Errorf("failed to set backend: %w", err)
	}
	cmd.Printf("Backend set to: %s\n", args[0])
	return nil
}

func runSettingsRate(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errServiceNotConfigured("settings")
	}

	rps, burst, err := parseRate(args[0], args[1])
	if err != nil {
		return err
	}
	if err := settingsService.SetRateLimit(rps, burst); err != nil {
		return fmt.Errorf("failed to set rate limit: %w", err)
	}
	cmd.Printf("Rate limit set to: %s req/s, burst %d\n", strconv.FormatFloat(rps, 'g', -1, 64), burst)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errServiceNotConfigured("settings")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	next := *current

	cmd.Println("ragchat Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Backend
	cmd.Printf("Backend URL [%s]: ", current.Backend.BaseURL)
	if input := readLine(reader); input != "" {
		next.Backend.BaseURL = input
	}

	// Step 2: Pacing
	cmd.Printf("Requests per second [%s]: ",
		strconv.FormatFloat(current.Backend.RequestsPerSecond, 'g', -1, 64))
	if input := readLine(reader); input != "" {
		rps, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return fmt.Errorf("%w: requests per second must be a number", domain.ErrInvalidInput)
		}
		next.Backend.RequestsPerSecond = rps
	}
	cmd.Printf("Burst [%d]: ", current.Backend.Burst)
	if input := readLine(reader); input != "" {
		burst, err := strconv.Atoi(input)
		if err != nil {
			return fmt.Errorf("%w: burst must be an integer", domain.ErrInvalidInput)
		}
		next.Backend.Burst = burst
	}

	// Step 3: Theme
	themes := []domain.Theme{domain.ThemeLight, domain.ThemeDark}
	cmd.Println()
	cmd.Println("Theme")
	defaultChoice := 1
	for i, t := range themes {
		cmd.Printf("  %d. %s\n", i+1, t)
		if t == current.UI.Theme {
			defaultChoice = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultChoice)
	next.UI.Theme = themes[parseChoice(readLine(reader), len(themes), defaultChoice)-1]

	if err := settingsService.Save(&next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Printf("Settings saved to %s\n", settingsService.ConfigPath())
	return nil
}

// Helper functions.

func parseRate(rpsArg, burstArg string) (float64, int, error) {
	rps, err := strconv.ParseFloat(rpsArg, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: requests per second must be a number", domain.ErrInvalidInput)
	}
	burst, err := strconv.Atoi(burstArg)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: burst must be an integer", domain.ErrInvalidInput)
	}
	return rps, burst, nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
