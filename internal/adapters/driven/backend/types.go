package backend

import (
	"time"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// verifyRequest is the POST /auth/verify request format.
type verifyRequest struct {
	IdentityToken string `json:"identity_token"`
}

// verifyEmailRequest is the POST /auth/verify-email request format.
type verifyEmailRequest struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
}

// verifyResponse is the response for both verification endpoints.
type verifyResponse struct {
	Token string   `json:"token"`
	User  wireUser `json:"user"`
}

// wireUser is the backend's user record.
type wireUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"is_admin"`
}

// documentListResponse is the GET /documents response format.
type documentListResponse struct {
	Documents []domain.Document `json:"documents"`
	Total     int               `json:"total"`
}

// createDocumentRequest is the POST /documents/create request format.
type createDocumentRequest struct {
	Title          string `json:"title"`
	Category       string `json:"category"`
	CustomCategory string `json:"custom_category,omitempty"`
	Content        string `json:"content"`
	CompanyDoc     bool   `json:"is_company_doc"`
}

// statusResponse is the GET /documents/{id}/status response format.
type statusResponse struct {
	Available       bool `json:"available"`
	ExistsInStorage bool `json:"exists_in_storage"`
	ExistsInDB      bool `json:"exists_in_db"`
}

// chatRequest is the POST /chat request format.
type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	Scope          string `json:"scope"`
}

// chatResponse is the POST /chat response format.
type chatResponse struct {
	ConversationID string       `json:"conversation_id"`
	MessageID      string       `json:"message_id"`
	Response       string       `json:"response"`
	Sources        []wireSource `json:"sources"`
}

// wireSource is one retrieval citation attached to an assistant reply.
type wireSource struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
}

// conversationListResponse is the GET /chat/sessions response format.
type conversationListResponse struct {
	Conversations []wireConversation `json:"conversations"`
	Total         int                `json:"total"`
}

// wireConversation is the backend's conversation record.
type wireConversation struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Pinned       bool      `json:"is_pinned"`
	Preview      string    `json:"preview,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// wireMessage is one transcript entry from GET /chat/sessions/{id}/messages.
type wireMessage struct {
	ID             string       `json:"id"`
	ConversationID string       `json:"conversation_id"`
	Role           string       `json:"role"`
	Content        string       `json:"content"`
	Sources        []wireSource `json:"sources,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// updateConversationRequest is the PATCH /chat/sessions/{id} request format.
// Pointer fields distinguish "leave unchanged" from an explicit value.
type updateConversationRequest struct {
	Title  *string `json:"title,omitempty"`
	Pinned *bool   `json:"is_pinned,omitempty"`
}

func (u wireUser) toDomain() domain.User {
	return domain.User{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Admin: u.Admin,
	}
}

func (c wireConversation) toDomain() domain.Conversation {
	return domain.Conversation{
		ID:           c.ID,
		Title:        c.Title,
		Pinned:       c.Pinned,
		Preview:      c.Preview,
		MessageCount: c.MessageCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (m wireMessage) toDomain() domain.Message {
	msg := domain.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           domain.Role(m.Role),
		CreatedAt:      m.CreatedAt,
		Content:        m.Content,
	}
	for _, s := range m.Sources {
		msg.Sources = append(msg.Sources, domain.Source{
			DocumentID: s.DocumentID,
			Title:      s.Title,
			Snippet:    s.Snippet,
		})
	}
	return msg
}
