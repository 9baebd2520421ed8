package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/styles"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/views/chat"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/views/conversations"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/views/documents"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/views/menu"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/views/scope"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/views/upload"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// chatView is the chat transcript and input view.
	chatView *chat.View

	// conversationsView is the conversation sidebar view.
	conversationsView *conversations.View

	// documentsView is the document list view.
	documentsView *documents.View

	// uploadView is the file upload form.
	uploadView *upload.View

	// scopeView is the knowledge scope picker.
	scopeView *scope.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	menuView := menu.NewView(s)
	chatView := chat.NewView(s, nil, ports.Chat, ports.Settings)
	conversationsView := conversations.NewView(s, ports.Chat)
	documentsView := documents.NewView(s, ports.Document)
	uploadView := upload.NewView(s, ports.Document)
	scopeView := scope.NewView(s, ports.Settings)

	// The menu shows the signed-in account when a session exists.
	if ports.Auth != nil {
		if session, err := ports.Auth.Current(); err == nil && session.Email != "" {
			menuView.SetAccount(session.Email)
		}
	}

	return &App{
		ports:             ports,
		ctx:               context.Background(),
		styles:            s,
		menuView:          menuView,
		chatView:          chatView,
		conversationsView: conversationsView,
		documentsView:     documentsView,
		uploadView:        uploadView,
		scopeView:         scopeView,
		currentView:       messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("atlas - Knowledge Assistant"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.conversationsView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.uploadView.SetDimensions(msg.Width, msg.Height)
		a.scopeView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// "?" opens help from any view that is not a text entry.
		if msg.String() == "?" && a.currentView != messages.ViewChat && a.currentView != messages.ViewUpload {
			a.currentView = messages.ViewHelp
			return a, nil
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			a.err = a.chatView.Err()
			return a, cmd

		case messages.ViewConversations:
			a.conversationsView, cmd = a.conversationsView.Update(msg)
			return a, cmd

		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
			return a, cmd

		case messages.ViewUpload:
			a.uploadView, cmd = a.uploadView.Update(msg)
			return a, cmd

		case messages.ViewScope:
			a.scopeView, cmd = a.scopeView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewConversations:
			return a, a.conversationsView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewUpload:
			a.uploadView.Reset()
			return a, a.uploadView.Init()
		case messages.ViewScope:
			return a, a.scopeView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// No special initialisation
		}
		return a, nil

	case messages.ConversationSelected:
		// Navigate from the sidebar into the chat view.
		a.currentView = messages.ViewChat
		return a, tea.Batch(
			a.chatView.Init(),
			a.chatView.OpenConversation(msg.Conversation.ID),
		)

	case messages.ScopeChanged:
		// Selecting a scope returns to the menu.
		a.currentView = messages.ViewMenu
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewConversations:
			a.conversationsView, cmd = a.conversationsView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewUpload:
			a.uploadView, cmd = a.uploadView.Update(msg)
		case messages.ViewScope:
			a.scopeView, cmd = a.scopeView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
			// Other views don't handle error messages
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewConversations:
		a.conversationsView, cmd = a.conversationsView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewScope:
		a.scopeView, cmd = a.scopeView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewConversations:
		return a.conversationsView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewUpload:
		return a.uploadView.View()
	case messages.ViewScope:
		return a.scopeView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Chat:
  (type)      Compose a message
  enter       Send
  ctrl+n      New thread
  tab         Cycle knowledge scope
  ↑/↓         Scroll transcript

Conversations:
  enter       Open
  p           Pin / unpin
  d           Delete

Documents:
  u           Upload a file
  d           Delete
  h/l         Previous / next page

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}
