package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

var scopeCmd = &cobra.Command{
	Use:   "scope [mine|company|all]",
	Short: "Show or set the knowledge scope",
	Long: `Show or set the knowledge scope used by chat and document queries.

Scopes:
  mine     - only your own documents
  company  - only the organisation's shared documents
  all      - both (default)

The scope is the only setting that persists across sessions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScope,
}

func init() {
	rootCmd.AddCommand(scopeCmd)
}

func runScope(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if len(args) == 0 {
		cmd.Printf("Knowledge scope: %s\n", settingsService.Scope())
		return nil
	}

	scope, err := domain.ParseScope(args[0])
	if err != nil {
		return fmt.Errorf("invalid scope %q (use mine, company, or all)", args[0])
	}
	if err := settingsService.SetScope(scope); err != nil {
		return fmt.Errorf("failed to set scope: %w", err)
	}

	cmd.Printf("Knowledge scope set to %s\n", scope)
	return nil
}
