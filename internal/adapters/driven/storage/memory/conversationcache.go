package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
)

// Ensure ConversationCache implements the interface.
var _ driven.ConversationCache = (*ConversationCache)(nil)

// ConversationCache is an in-memory implementation of
// driven.ConversationCache.
type ConversationCache struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
}

// NewConversationCache creates a new in-memory conversation cache.
func NewConversationCache() *ConversationCache {
	return &ConversationCache{
		conversations: make(map[string]domain.Conversation),
	}
}

// Replace stores the given conversations, removing all prior entries.
func (c *ConversationCache) Replace(_ context.Context, conversations []domain.Conversation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations = make(map[string]domain.Conversation, len(conversations))
	for _, conversation := range conversations {
		c.conversations[conversation.ID] = conversation
	}
	return nil
}

// Put inserts or updates a single conversation.
func (c *ConversationCache) Put(_ context.Context, conversation domain.Conversation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations[conversation.ID] = conversation
	return nil
}

// List returns cached conversations, pinned first, then most recent.
func (c *ConversationCache) List(_ context.Context) ([]domain.Conversation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Conversation, 0, len(c.conversations))
	for _, conversation := range c.conversations {
		result = append(result, conversation)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Pinned != result[j].Pinned {
			return result[i].Pinned
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// Delete removes a conversation from the cache.
func (c *ConversationCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conversations, id)
	return nil
}

// Close is a no-op for the in-memory cache.
func (c *ConversationCache) Close() error {
	return nil
}
