package mcp

import (
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions against the knowledge base.
	Chat driving.ChatService

	// Document manages knowledge-base documents.
	Document driving.DocumentService

	// Settings exposes the active knowledge scope.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Document and Settings are optional
	return nil
}
