package mcp

import (
	"context"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply         *domain.Message
	transcript    []domain.Message
	conversations []domain.Conversation
	activeConv    string
	opened        []string
	sent          []string
	err           error
}

func (m *mockChatService) Send(_ context.Context, content string) (*domain.Message, error) {
	m.sent = append(m.sent, content)
	return m.reply, m.err
}

func (m *mockChatService) Conversations(_ context.Context) ([]domain.Conversation, error) {
	return m.conversations, m.err
}

func (m *mockChatService) Open(_ context.Context, id string) ([]domain.Message, error) {
	m.opened = append(m.opened, id)
	if m.err != nil {
		return nil, m.err
	}
	m.activeConv = id
	return m.transcript, nil
}

func (m *mockChatService) NewConversation() {
	m.activeConv = ""
}

func (m *mockChatService) Transcript() []domain.Message {
	return m.transcript
}

func (m *mockChatService) ActiveConversation() string {
	return m.activeConv
}

func (m *mockChatService) Rename(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockChatService) SetPinned(_ context.Context, _ string, _ bool) error {
	return m.err
}

func (m *mockChatService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	page    *domain.DocumentPage
	doc     *domain.Document
	viewURL *domain.ViewURL
	limits  []int
	offsets []int
	err     error
}

func (m *mockDocumentService) List(_ context.Context, limit, offset int) (*domain.DocumentPage, error) {
	m.limits = append(m.limits, limit)
	m.offsets = append(m.offsets, offset)
	return m.page, m.err
}

func (m *mockDocumentService) Upload(_ context.Context, _ driving.UploadOptions) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockDocumentService) CreateNote(_ context.Context, _ driving.CreateNoteOptions) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) ViewURL(_ context.Context, _ string) (*domain.ViewURL, error) {
	return m.viewURL, m.err
}

func (m *mockDocumentService) Status(_ string) domain.ResourceStatus {
	return domain.StatusUntracked
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	scope domain.Scope
	err   error
}

func (m *mockSettingsService) Scope() domain.Scope {
	return m.scope
}

func (m *mockSettingsService) SetScope(scope domain.Scope) error {
	if m.err != nil {
		return m.err
	}
	m.scope = scope
	return nil
}
