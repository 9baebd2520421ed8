package services

import (
	"context"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
)

// stubBackend is a configurable driven.Backend test double. Only the
// functions a test sets are used; unset functions return zero values.
type stubBackend struct {
	verifyIdentityFn     func(ctx context.Context, idToken string) (*driven.VerifyResult, error)
	verifyEmailFn        func(ctx context.Context, email, externalUserID string) (*driven.VerifyResult, error)
	listDocumentsFn      func(ctx context.Context, opts driven.ListOptions) (*domain.DocumentPage, error)
	uploadDocumentFn     func(ctx context.Context, req driven.UploadRequest) (*domain.Document, error)
	createDocumentFn     func(ctx context.Context, req driven.CreateDocumentRequest) (*domain.Document, error)
	deleteDocumentFn     func(ctx context.Context, id string) error
	documentViewURLFn    func(ctx context.Context, id string) (*domain.ViewURL, error)
	documentStatusFn     func(ctx context.Context, id string) (*domain.ConvergenceCheck, error)
	sendChatFn           func(ctx context.Context, req driven.ChatRequest) (*driven.ChatResponse, error)
	listConversationsFn  func(ctx context.Context) ([]domain.Conversation, error)
	listMessagesFn       func(ctx context.Context, conversationID string) ([]domain.Message, error)
	updateConversationFn func(ctx context.Context, id string, update driven.ConversationUpdate) (*domain.Conversation, error)
	deleteConversationFn func(ctx context.Context, id string) error
}

var _ driven.Backend = (*stubBackend)(nil)

func (s *stubBackend) VerifyIdentity(ctx context.Context, idToken string) (*driven.VerifyResult, error) {
	if s.verifyIdentityFn == nil {
		return &driven.VerifyResult{}, nil
	}
	return s.verifyIdentityFn(ctx, idToken)
}

func (s *stubBackend) VerifyEmail(ctx context.Context, email, externalUserID string) (*driven.VerifyResult, error) {
	if s.verifyEmailFn == nil {
		return &driven.VerifyResult{}, nil
	}
	return s.verifyEmailFn(ctx, email, externalUserID)
}

func (s *stubBackend) ListDocuments(ctx context.Context, opts driven.ListOptions) (*domain.DocumentPage, error) {
	if s.listDocumentsFn == nil {
		return &domain.DocumentPage{}, nil
	}
	return s.listDocumentsFn(ctx, opts)
}

func (s *stubBackend) UploadDocument(ctx context.Context, req driven.UploadRequest) (*domain.Document, error) {
	if s.uploadDocumentFn == nil {
		return &domain.Document{}, nil
	}
	return s.uploadDocumentFn(ctx, req)
}

func (s *stubBackend) CreateDocument(ctx context.Context, req driven.CreateDocumentRequest) (*domain.Document, error) {
	if s.createDocumentFn == nil {
		return &domain.Document{}, nil
	}
	return s.createDocumentFn(ctx, req)
}

func (s *stubBackend) DeleteDocument(ctx context.Context, id string) error {
	if s.deleteDocumentFn == nil {
		return nil
	}
	return s.deleteDocumentFn(ctx, id)
}

func (s *stubBackend) DocumentViewURL(ctx context.Context, id string) (*domain.ViewURL, error) {
	if s.documentViewURLFn == nil {
		return &domain.ViewURL{}, nil
	}
	return s.documentViewURLFn(ctx, id)
}

func (s *stubBackend) DocumentStatus(ctx context.Context, id string) (*domain.ConvergenceCheck, error) {
	if s.documentStatusFn == nil {
		return &domain.ConvergenceCheck{}, nil
	}
	return s.documentStatusFn(ctx, id)
}

func (s *stubBackend) SendChat(ctx context.Context, req driven.ChatRequest) (*driven.ChatResponse, error) {
	if s.sendChatFn == nil {
		return &driven.ChatResponse{}, nil
	}
	return s.sendChatFn(ctx, req)
}

func (s *stubBackend) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	if s.listConversationsFn == nil {
		return nil, nil
	}
	return s.listConversationsFn(ctx)
}

func (s *stubBackend) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if s.listMessagesFn == nil {
		return nil, nil
	}
	return s.listMessagesFn(ctx, conversationID)
}

func (s *stubBackend) UpdateConversation(ctx context.Context, id string, update driven.ConversationUpdate) (*domain.Conversation, error) {
	if s.updateConversationFn == nil {
		return &domain.Conversation{ID: id}, nil
	}
	return s.updateConversationFn(ctx, id, update)
}

func (s *stubBackend) DeleteConversation(ctx context.Context, id string) error {
	if s.deleteConversationFn == nil {
		return nil
	}
	return s.deleteConversationFn(ctx, id)
}

// stubIdentity is a configurable driven.IdentityProvider test double.
type stubIdentity struct {
	identity *driven.Identity
	err      error
}

var _ driven.IdentityProvider = (*stubIdentity)(nil)

func (s *stubIdentity) SignIn(_ context.Context) (*driven.Identity, error) {
	return s.identity, s.err
}
