package driving

import (
	"context"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// ChatService manages chat turns and the conversation list.
type ChatService interface {
	// Send submits one chat turn against the active conversation. The user
	// message is appended to the transcript before the network call starts;
	// on failure an error-role message is appended instead of a reply.
	Send(ctx context.Context, text string) (*domain.Message, error)

	// Conversations returns the sidebar list, pinned first. Results are
	// served through the local cache and refreshed from the backend.
	Conversations(ctx context.Context) ([]domain.Conversation, error)

	// Open makes a conversation active and loads its transcript into the
	// state store, replacing the current message list.
	Open(ctx context.Context, conversationID string) ([]domain.Message, error)

	// NewConversation clears the active conversation so the next Send
	// starts a fresh thread.
	NewConversation()

	// Transcript returns the active conversation's messages in submission
	// order, including optimistic entries still awaiting a reply.
	Transcript() []domain.Message

	// ActiveConversation returns the active conversation id. Empty until
	// the first reply of a fresh thread arrives.
	ActiveConversation() string

	// Rename sets a conversation's title.
	Rename(ctx context.Context, conversationID, title string) error

	// SetPinned pins or unpins a conversation.
	SetPinned(ctx context.Context, conversationID string, pinned bool) error

	// Delete removes a conversation and its messages.
	Delete(ctx context.Context, conversationID string) error
}
