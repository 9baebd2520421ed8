// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the chat transcript and input view.
	ViewChat
	// ViewConversations is the conversation sidebar view.
	ViewConversations
	// ViewDocuments is the document list view.
	ViewDocuments
	// ViewUpload is the file upload form.
	ViewUpload
	// ViewScope is the knowledge scope picker.
	ViewScope
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewConversations:
		return "conversations"
	case ViewDocuments:
		return "documents"
	case ViewUpload:
		return "upload"
	case ViewScope:
		return "scope"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SendCompleted carries the outcome of a chat turn. The transcript in the
// state store already holds the user message (and the error entry on
// failure); this message just tells the view to re-read it.
type SendCompleted struct {
	Reply *domain.Message
	Err   error
}

// TranscriptUpdated tells the chat view to re-read the transcript from the
// state store, e.g. after an optimistic append.
type TranscriptUpdated struct{}

// ConversationsLoaded carries the sidebar list.
type ConversationsLoaded struct {
	Conversations []domain.Conversation
	Err           error
}

// ConversationSelected signals a conversation was chosen from the sidebar.
type ConversationSelected struct {
	Conversation domain.Conversation
}

// ConversationOpened signals a conversation's transcript was loaded.
type ConversationOpened struct {
	ConversationID string
	Messages       []domain.Message
	Err            error
}

// ConversationMutated signals a rename, pin toggle, or delete finished and
// the sidebar should be refreshed.
type ConversationMutated struct {
	ConversationID string
	Err            error
}

// DocumentsLoaded carries one page of documents.
type DocumentsLoaded struct {
	Page *domain.DocumentPage
	Err  error
}

// UploadCompleted signals an upload request was accepted (or rejected).
type UploadCompleted struct {
	Document *domain.Document
	Err      error
}

// DocumentDeleted signals a delete request was accepted (or rejected).
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// StatusTick prompts the documents view to re-read convergence statuses.
type StatusTick struct{}

// ScopeChanged signals the knowledge scope was updated.
type ScopeChanged struct {
	Scope domain.Scope
	Err   error
}
