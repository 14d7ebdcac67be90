// Package cli provides the cobra command tree for ragchat.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// EnvBackendURL overrides the configured backend root URL.
const EnvBackendURL = "RAGCHAT_BACKEND_URL"

// version is set at build time via -ldflags.
var version = "dev"

// Services bundles the driving ports used by commands.
type Services struct {
	Chat     driving.ChatService
	Theme    driving.ThemeService
	Settings driving.SettingsService
}

// Options carries the global flags needed to build services.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// BackendURL overrides the configured backend. Empty keeps the setting.
	BackendURL string
}

// Bootstrap builds services once flags are parsed.
// The returned cleanup func is called when the command finishes.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	chatService     driving.ChatService
	themeService    driving.ThemeService
	settingsService driving.SettingsService

	bootstrap Bootstrap
	cleanup   func()
)

// Global flags.
var (
	verboseFlag   bool
	backendFlag   string
	logFileFlag   string
	configDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "ragchat [file]",
	Short: "Chat with your documents through a RAG backend",
	Long: `ragchat uploads a document to a retrieval-augmented-generation backend
and streams answers to your questions about it.

Run without a subcommand to open the interactive terminal UI.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "",
		"backend root URL (overrides "+EnvBackendURL+" and config)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "write logs to a rotating file")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.ragchat)")
}

// SetServices sets the services used by commands directly.
func SetServices(s *Services) {
	if s == nil {
		chatService, themeService, settingsService = nil, nil, nil
		return
	}
	chatService = s.Chat
	themeService = s.Theme
	settingsService = s.Settings
}

// SetBootstrap sets the function that builds services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
		logger.Close() //nolint:errcheck
	}()
	return rootCmd.ExecuteContext(ctx)
}

// setup configures logging and builds services.
// Precedence for the backend URL is flag, then environment, then config.
func setup(cmd *cobra.Command, _ []string) error {
	// A missing .env file is normal
	_ = godotenv.Load()

	logger.SetVerbose(verboseFlag)
	if logFileFlag != "" {
		if err := logger.SetFile(logFileFlag); err != nil {
			return err
		}
	}

	if bootstrap == nil {
		return nil
	}

	opts := Options{
		ConfigDir:  configDirFlag,
		BackendURL: resolveBackendURL(),
	}
	services, done, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if services == nil {
		return errors.New("bootstrap returned no services")
	}
	SetServices(services)
	cleanup = done
	return nil
}

// resolveBackendURL returns the flag value, else the environment value.
func resolveBackendURL() string {
	if backendFlag != "" {
		return backendFlag
	}
	return os.Getenv(EnvBackendURL)
}
