// Package tui provides an interactive terminal user interface for atlas.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Auth reports the signed-in session.
	Auth driving.AuthService

	// Chat manages chat turns and the conversation list.
	Chat driving.ChatService

	// Document manages knowledge-base documents.
	Document driving.DocumentService

	// Settings manages the knowledge scope.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
