package domain

import "time"

// Conversation is a chat thread as shown in the sidebar. The backend owns
// the durable record; the client keeps a read-through cache used for list
// rendering and optimistic updates after rename/pin/delete.
type Conversation struct {
	// ID is the backend-assigned identifier.
	ID string `json:"id"`
	// Title is the display title, backend-generated or user-set.
	Title string `json:"title"`
	// Pinned keeps the conversation at the top of the sidebar.
	Pinned bool `json:"is_pinned"`
	// Preview is a snippet of the most recent exchange.
	Preview string `json:"preview,omitempty"`
	// MessageCount is the number of messages, when the backend reports it.
	MessageCount int `json:"message_count,omitempty"`
	// CreatedAt is when the conversation started.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the last message arrived.
	UpdatedAt time.Time `json:"updated_at"`
}
