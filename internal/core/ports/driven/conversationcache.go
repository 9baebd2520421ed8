package driven

import (
	"context"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// ConversationCache is a local read-through cache of the conversation
// sidebar. It is never a source of truth: entries are replaced wholesale
// after every fetch and mutated optimistically after rename/pin/delete so
// the sidebar stays responsive while the backend round-trip completes.
type ConversationCache interface {
	// Replace stores the given conversations, removing all prior entries.
	Replace(ctx context.Context, conversations []domain.Conversation) error

	// Put inserts or updates a single conversation.
	Put(ctx context.Context, conversation domain.Conversation) error

	// List returns cached conversations, pinned first, then most recent.
	List(ctx context.Context) ([]domain.Conversation, error)

	// Delete removes a conversation from the cache.
	Delete(ctx context.Context, id string) error

	// Close releases underlying resources.
	Close() error
}
