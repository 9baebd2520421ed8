package driving

import "github.com/atlas-kb/atlas-cli/internal/core/domain"

// SettingsService manages user preferences. The knowledge scope is the only
// preference that survives a restart.
type SettingsService interface {
	// Scope returns the active knowledge scope.
	Scope() domain.Scope

	// SetScope changes and persists the knowledge scope.
	SetScope(scope domain.Scope) error
}
