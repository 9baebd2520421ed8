package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService runs chat turns against the assistant and maintains the
// conversation sidebar through a local read-through cache.
type ChatService struct {
	backend driven.Backend
	cache   driven.ConversationCache // optional
	state   *State
}

// NewChatService creates a chat service. The cache may be nil, in which
// case the sidebar is always fetched from the backend.
func NewChatService(backend driven.Backend, cache driven.ConversationCache, state *State) *ChatService {
	return &ChatService{
		backend: backend,
		cache:   cache,
		state:   state,
	}
}

// Send submits one chat turn. The user message is appended to the
// transcript with a client-generated id before the network call starts, so
// the ordering invariant (user message precedes the reply it provoked)
// holds regardless of network latency. On failure an error-role message is
// appended and the optimistic entry keeps its client id.
func (c *ChatService) Send(ctx context.Context, text string) (*domain.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}

	conversationID := c.state.ActiveConversation()
	clientID := uuid.NewString()
	c.state.AppendMessage(domain.Message{
		ID:             clientID,
		ConversationID: conversationID,
		Role:           domain.RoleUser,
		Content:        text,
		Pending:        true,
		CreatedAt:      time.Now(),
	})

	resp, err := c.backend.SendChat(ctx, driven.ChatRequest{
		Message:        text,
		ConversationID: conversationID,
		Scope:          c.state.Scope(),
	})
	if err != nil {
		c.state.AppendMessage(domain.Message{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			Role:           domain.RoleError,
			Content:        err.Error(),
			CreatedAt:      time.Now(),
		})
		return nil, fmt.Errorf("send message: %w", err)
	}

	// First turn of a new thread: adopt the backend-assigned id.
	if conversationID == "" {
		c.state.SetActiveConversation(resp.ConversationID)
	}
	// The response carries the reply's server id; the user entry keeps its
	// client id until a transcript reload but is no longer pending.
	c.state.ResolveMessage(clientID, "", resp.ConversationID)

	reply := domain.Message{
		ID:             resp.MessageID,
		ConversationID: resp.ConversationID,
		Role:           domain.RoleAssistant,
		Content:        resp.Response,
		Sources:        resp.Sources,
		CreatedAt:      time.Now(),
	}
	c.state.AppendMessage(reply)
	return &reply, nil
}

// Conversations refreshes the sidebar from the backend, replacing both the
// state store's list and the local cache. When the backend is unreachable
// the cached list is served instead so the sidebar still renders.
func (c *ChatService) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	conversations, err := c.backend.ListConversations(ctx)
	if err != nil {
		if c.cache != nil {
			if cached, cacheErr := c.cache.List(ctx); cacheErr == nil && len(cached) > 0 {
				logger.Debug("serving %d conversations from cache: %v", len(cached), err)
				c.state.SetConversations(cached)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	c.state.SetConversations(conversations)
	if c.cache != nil {
		if err := c.cache.Replace(ctx, conversations); err != nil {
			logger.Warn("conversation cache update failed: %v", err)
		}
	}
	return conversations, nil
}

// Open activates a conversation and loads its transcript.
func (c *ChatService) Open(ctx context.Context, conversationID string) ([]domain.Message, error) {
	messages, err := c.backend.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	c.state.SetActiveConversation(conversationID)
	c.state.SetMessages(messages)
	return messages, nil
}

// NewConversation clears the active thread and transcript.
func (c *ChatService) NewConversation() {
	c.state.SetActiveConversation("")
	c.state.ClearMessages()
}

// Transcript returns the active transcript from the state store.
func (c *ChatService) Transcript() []domain.Message {
	return c.state.Messages()
}

// ActiveConversation returns the active conversation id.
func (c *ChatService) ActiveConversation() string {
	return c.state.ActiveConversation()
}

// Rename sets a conversation's title and refreshes the cached entry.
func (c *ChatService) Rename(ctx context.Context, conversationID, title string) error {
	if title == "" {
		return fmt.Errorf("%w: empty title", domain.ErrInvalidInput)
	}
	updated, err := c.backend.UpdateConversation(ctx, conversationID, driven.ConversationUpdate{Title: &title})
	if err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}
	c.cachePut(ctx, *updated)
	return nil
}

// SetPinned pins or unpins a conversation.
func (c *ChatService) SetPinned(ctx context.Context, conversationID string, pinned bool) error {
	updated, err := c.backend.UpdateConversation(ctx, conversationID, driven.ConversationUpdate{Pinned: &pinned})
	if err != nil {
		return fmt.Errorf("pin conversation: %w", err)
	}
	c.cachePut(ctx, *updated)
	return nil
}

// Delete removes a conversation. If it was active, the transcript clears.
func (c *ChatService) Delete(ctx context.Context, conversationID string) error {
	if err := c.backend.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	if c.state.ActiveConversation() == conversationID {
		c.NewConversation()
	}
	if c.cache != nil {
		if err := c.cache.Delete(ctx, conversationID); err != nil {
			logger.Warn("conversation cache delete failed: %v", err)
		}
	}
	return nil
}

// cachePut updates a single cached conversation, logging failures.
func (c *ChatService) cachePut(ctx context.Context, conversation domain.Conversation) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, conversation); err != nil {
		logger.Warn("conversation cache put failed: %v", err)
	}
}
