// Package cli provides the cobra command tree for atlas.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Injected from main via SetServices.
var (
	authService     driving.AuthService
	chatService     driving.ChatService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

// Services bundles everything the command tree needs.
type Services struct {
	Auth     driving.AuthService
	Chat     driving.ChatService
	Document driving.DocumentService
	Settings driving.SettingsService
}

// SetServices injects the core services into the command tree.
func SetServices(s Services) {
	authService = s.Auth
	chatService = s.Chat
	documentService = s.Document
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Terminal client for the Atlas knowledge-base assistant",
	Long: `Atlas is a terminal client for your organisation's knowledge-base
assistant. Ask questions against your documents, manage uploads, and browse
conversations - from the command line or the interactive TUI.

Run without arguments to launch the interactive TUI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
