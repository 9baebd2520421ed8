package domain

import "time"

// Role identifies who produced a chat message.
type Role string

const (
	// RoleUser is a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant is a reply from the knowledge-base assistant.
	RoleAssistant Role = "assistant"
	// RoleError is a client-side entry recording a failed send. It lives
	// only in the transcript and is never submitted to the backend.
	RoleError Role = "error"
)

// Source is a citation attached to an assistant reply.
type Source struct {
	// DocumentID identifies the cited document.
	DocumentID string `json:"document_id"`
	// Title is the cited document's title.
	Title string `json:"title"`
	// Snippet is the passage the answer drew on.
	Snippet string `json:"snippet,omitempty"`
}

// Message is one entry in a conversation transcript. Messages are appended
// in submission order and never reordered; optimistic entries carry a
// client-generated id until the server responds with its own.
type Message struct {
	// ID is the message identifier. Client-generated (UUID) for optimistic
	// entries, replaced by the server id once the backend responds.
	ID string `json:"id"`
	// ConversationID links the message to its thread. Empty for the first
	// message of a new conversation until the backend assigns one.
	ConversationID string `json:"conversation_id,omitempty"`
	// Role is who produced the message.
	Role Role `json:"role"`
	// Content is the message text (markdown for assistant replies).
	Content string `json:"content"`
	// Sources are citations, present on assistant replies only.
	Sources []Source `json:"sources,omitempty"`
	// Pending marks an optimistic entry awaiting the server response.
	Pending bool `json:"-"`
	// CreatedAt is the message timestamp.
	CreatedAt time.Time `json:"created_at"`
}
