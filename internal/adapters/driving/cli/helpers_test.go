package cli

import (
	"context"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// mockAuthService implements driving.AuthService for command tests.
type mockAuthService struct {
	signInFn  func(ctx context.Context) (*domain.Session, error)
	currentFn func() (*domain.Session, error)
	signedOut bool
}

func (m *mockAuthService) SignIn(ctx context.Context) (*domain.Session, error) {
	if m.signInFn != nil {
		return m.signInFn(ctx)
	}
	return domain.PresentSession("tok", domain.User{ID: "u-1", Email: "dev@acme.test"}), nil
}

func (m *mockAuthService) SignOut() error {
	m.signedOut = true
	return nil
}

func (m *mockAuthService) Current() (*domain.Session, error) {
	if m.currentFn != nil {
		return m.currentFn()
	}
	return domain.PresentSession("tok", domain.User{ID: "u-1", Email: "dev@acme.test"}), nil
}

// mockChatService implements driving.ChatService for command tests.
type mockChatService struct {
	sendFn          func(ctx context.Context, text string) (*domain.Message, error)
	conversationsFn func(ctx context.Context) ([]domain.Conversation, error)
	openFn          func(ctx context.Context, id string) ([]domain.Message, error)
	opened          []string
	newThreads      int
	renamed         map[string]string
	pinned          map[string]bool
	deleted         []string
}

func (m *mockChatService) Send(ctx context.Context, text string) (*domain.Message, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, text)
	}
	return &domain.Message{
		Role:           domain.RoleAssistant,
		Content:        "The expense policy caps meals at 40 EUR.",
		ConversationID: "conv-1",
	}, nil
}

func (m *mockChatService) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	if m.conversationsFn != nil {
		return m.conversationsFn(ctx)
	}
	return []domain.Conversation{
		{ID: "conv-1", Title: "Expense policy", Pinned: true},
		{ID: "conv-2", Title: "Onboarding", Preview: "where do I find..."},
	}, nil
}

func (m *mockChatService) Open(ctx context.Context, id string) ([]domain.Message, error) {
	m.opened = append(m.opened, id)
	if m.openFn != nil {
		return m.openFn(ctx, id)
	}
	return []domain.Message{
		{Role: domain.RoleUser, Content: "what is our expense policy?"},
		{Role: domain.RoleAssistant, Content: "Meals are capped at 40 EUR."},
	}, nil
}

func (m *mockChatService) NewConversation() {
	m.newThreads++
}

func (m *mockChatService) Transcript() []domain.Message {
	return nil
}

func (m *mockChatService) ActiveConversation() string {
	return ""
}

func (m *mockChatService) Rename(_ context.Context, id, title string) error {
	if m.renamed == nil {
		m.renamed = make(map[string]string)
	}
	m.renamed[id] = title
	return nil
}

func (m *mockChatService) SetPinned(_ context.Context, id string, pinned bool) error {
	if m.pinned == nil {
		m.pinned = make(map[string]bool)
	}
	m.pinned[id] = pinned
	return nil
}

func (m *mockChatService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// mockDocumentService implements driving.DocumentService for command tests.
type mockDocumentService struct {
	listFn   func(ctx context.Context, limit, offset int) (*domain.DocumentPage, error)
	uploadFn func(ctx context.Context, opts driving.UploadOptions) (*domain.Document, error)
	createFn func(ctx context.Context, opts driving.CreateNoteOptions) (*domain.Document, error)
	deleteFn func(ctx context.Context, id string) error
	statusFn func(id string) domain.ResourceStatus
}

func (m *mockDocumentService) List(ctx context.Context, limit, offset int) (*domain.DocumentPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return &domain.DocumentPage{
		Documents: []domain.Document{
			{ID: "doc-1", Title: "Handbook", Category: "hr", CompanyDoc: true},
			{ID: "doc-2", Title: "Notes"},
		},
		Total: 2,
	}, nil
}

func (m *mockDocumentService) Upload(ctx context.Context, opts driving.UploadOptions) (*domain.Document, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, opts)
	}
	return &domain.Document{ID: "doc-new", Title: opts.Filename}, nil
}

func (m *mockDocumentService) CreateNote(ctx context.Context, opts driving.CreateNoteOptions) (*domain.Document, error) {
	if m.createFn != nil {
		return m.createFn(ctx, opts)
	}
	return &domain.Document{ID: "doc-note", Title: opts.Title}, nil
}

func (m *mockDocumentService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockDocumentService) ViewURL(_ context.Context, id string) (*domain.ViewURL, error) {
	return &domain.ViewURL{URL: "https://storage.example/" + id, ExpiresIn: 300}, nil
}

func (m *mockDocumentService) Status(id string) domain.ResourceStatus {
	if m.statusFn != nil {
		return m.statusFn(id)
	}
	return domain.StatusUntracked
}

// mockSettingsService implements driving.SettingsService for command tests.
type mockSettingsService struct {
	scope  domain.Scope
	setErr error
}

func (m *mockSettingsService) Scope() domain.Scope {
	if m.scope == "" {
		return domain.ScopeAll
	}
	return m.scope
}

func (m *mockSettingsService) SetScope(scope domain.Scope) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.scope = scope
	return nil
}

// setupTestServices swaps the package-level services for mocks and returns
// a cleanup func that restores the originals.
func setupTestServices() func() {
	oldAuth := authService
	oldChat := chatService
	oldDocument := documentService
	oldSettings := settingsService

	authService = &mockAuthService{}
	chatService = &mockChatService{}
	documentService = &mockDocumentService{}
	settingsService = &mockSettingsService{}

	return func() {
		authService = oldAuth
		chatService = oldChat
		documentService = oldDocument
		settingsService = oldSettings
	}
}
