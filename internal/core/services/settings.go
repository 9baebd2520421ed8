package services

import (
	"fmt"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// scopeKey is where the persisted scope lives in the config file.
const scopeKey = "settings.scope"

// SettingsService manages user preferences. The knowledge scope is held in
// the state store for live reads and written through to the config store,
// making it the only view state that survives a restart.
type SettingsService struct {
	config driven.ConfigStore
	state  *State
}

// NewSettingsService creates the settings service, seeding the state store
// with the persisted scope (or the default when none is stored).
func NewSettingsService(config driven.ConfigStore, state *State) *SettingsService {
	s := &SettingsService{config: config, state: state}

	if stored := config.GetString(scopeKey); stored != "" {
		if scope, err := domain.ParseScope(stored); err == nil {
			state.SetScope(scope)
		}
	}
	return s
}

// Scope returns the active knowledge scope.
func (s *SettingsService) Scope() domain.Scope {
	return s.state.Scope()
}

// SetScope changes the scope and persists it immediately.
func (s *SettingsService) SetScope(scope domain.Scope) error {
	if !scope.Valid() {
		return fmt.Errorf("%w: unknown scope %q", domain.ErrInvalidInput, scope)
	}

	s.state.SetScope(scope)
	if err := s.config.Set(scopeKey, scope.String()); err != nil {
		return fmt.Errorf("persist scope: %w", err)
	}
	return nil
}

// Reload re-reads the persisted scope into the state store. Called by the
// config watcher when the file changes outside this process.
func (s *SettingsService) Reload() {
	if stored := s.config.GetString(scopeKey); stored != "" {
		if scope, err := domain.ParseScope(stored); err == nil {
			s.state.SetScope(scope)
		}
	}
}
