package driven

import (
	"context"
	"io"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// VerifyResult is the backend's response to an identity exchange.
type VerifyResult struct {
	// Token is the backend-issued session credential.
	Token string
	// User is the backend's record for the verified identity.
	User domain.User
}

// ListOptions controls pagination and scope filtering for listings.
type ListOptions struct {
	// Scope filters by document ownership.
	Scope domain.Scope
	// Limit caps the number of returned entries (0 means backend default).
	Limit int
	// Offset skips entries for pagination.
	Offset int
}

// UploadRequest describes a multipart file upload.
type UploadRequest struct {
	// Filename is the original file name, used for the multipart part.
	Filename string
	// Content is the file body. The caller retains ownership.
	Content io.Reader
	// Size is the file size in bytes (already validated client-side).
	Size int64
	// Category groups the document.
	Category string
	// CustomCategory holds the free-form label when Category is "custom".
	CustomCategory string
	// CompanyDoc shares the document with the whole organisation.
	CompanyDoc bool
}

// CreateDocumentRequest describes an inline (non-file) document creation.
type CreateDocumentRequest struct {
	// Title is the document title.
	Title string
	// Category groups the document.
	Category string
	// CustomCategory holds the free-form label when Category is "custom".
	CustomCategory string
	// Content is the document body as markdown or plain text.
	Content string
	// CompanyDoc shares the document with the whole organisation.
	CompanyDoc bool
}

// ChatRequest is one chat turn sent to the assistant.
type ChatRequest struct {
	// Message is the user's question.
	Message string
	// ConversationID continues an existing thread; empty starts a new one.
	ConversationID string
	// Scope filters which documents the assistant may draw on.
	Scope domain.Scope
}

// ChatResponse is the assistant's reply to a chat turn.
type ChatResponse struct {
	// ConversationID identifies the thread (newly assigned for first turns).
	ConversationID string
	// MessageID is the server id for the assistant reply.
	MessageID string
	// Response is the reply text (markdown).
	Response string
	// Sources are the citations backing the reply.
	Sources []domain.Source
}

// ConversationUpdate carries the mutable conversation fields for PATCH.
// Nil fields are left unchanged.
type ConversationUpdate struct {
	// Title renames the conversation when non-nil.
	Title *string
	// Pinned toggles the pin flag when non-nil.
	Pinned *bool
}

// Backend is the knowledge-base assistant HTTP API. Implementations attach
// the session credential, enforce the request timeout and translate
// transport outcomes into domain errors; they never retry.
type Backend interface {
	// VerifyIdentity exchanges a third-party ID token for a session
	// credential. A domain-policy rejection surfaces as ErrDomainRejected.
	VerifyIdentity(ctx context.Context, idToken string) (*VerifyResult, error)

	// VerifyEmail is the fallback exchange when no ID token is obtainable:
	// a verified email address plus the provider's subject identifier.
	VerifyEmail(ctx context.Context, email, externalUserID string) (*VerifyResult, error)

	// ListDocuments returns one page of documents visible in the scope.
	ListDocuments(ctx context.Context, opts ListOptions) (*domain.DocumentPage, error)

	// UploadDocument submits a multipart file upload.
	UploadDocument(ctx context.Context, req UploadRequest) (*domain.Document, error)

	// CreateDocument creates a document from inline content.
	CreateDocument(ctx context.Context, req CreateDocumentRequest) (*domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error

	// DocumentViewURL returns a short-lived link to the document content.
	DocumentViewURL(ctx context.Context, id string) (*domain.ViewURL, error)

	// DocumentStatus reports the storage/catalog convergence state.
	// Used by the poller; rate-limited by the implementation.
	DocumentStatus(ctx context.Context, id string) (*domain.ConvergenceCheck, error)

	// SendChat submits one chat turn and returns the assistant reply.
	SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ListConversations returns the user's chat threads.
	ListConversations(ctx context.Context) ([]domain.Conversation, error)

	// ListMessages returns the ordered transcript of a conversation.
	ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error)

	// UpdateConversation renames or pins a conversation.
	UpdateConversation(ctx context.Context, id string, update ConversationUpdate) (*domain.Conversation, error)

	// DeleteConversation removes a conversation and its messages.
	DeleteConversation(ctx context.Context, id string) error
}
