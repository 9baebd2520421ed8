// Package conversations provides the conversation sidebar view for the TUI.
package conversations

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/styles"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// View is the conversation list view.
type View struct {
	styles      *styles.Styles
	chatService driving.ChatService

	conversations []domain.Conversation
	selected      int
	width         int
	height        int
	ready         bool
	err           error
	loading       bool
}

// NewView creates a new conversations view.
func NewView(s *styles.Styles, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:      s,
		chatService: chatService,
	}
}

// Init initialises the view and loads the sidebar.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadConversations()
}

// loadConversations returns a command that refreshes the sidebar.
func (v *View) loadConversations() tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ConversationsLoaded{Err: fmt.Errorf("chat service not available")}
		}
		conversations, err := v.chatService.Conversations(context.Background())
		return messages.ConversationsLoaded{Conversations: conversations, Err: err}
	}
}

// Update handles messages for the conversations view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ConversationsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.conversations = msg.Conversations
			v.err = nil
			if v.selected >= len(v.conversations) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.ConversationMutated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, v.loadConversations()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case "down", "j":
		if v.selected < len(v.conversations)-1 {
			v.selected++
		}
		return v, nil

	case "enter":
		if conv := v.selectedConversation(); conv != nil {
			selected := *conv
			return v, func() tea.Msg {
				return messages.ConversationSelected{Conversation: selected}
			}
		}
		return v, nil

	case "p":
		if conv := v.selectedConversation(); conv != nil {
			return v, v.togglePin(*conv)
		}
		return v, nil

	case "d":
		if conv := v.selectedConversation(); conv != nil {
			return v, v.deleteConversation(conv.ID)
		}
		return v, nil

	case "r":
		v.loading = true
		return v, v.loadConversations()
	}

	return v, nil
}

func (v *View) selectedConversation() *domain.Conversation {
	if v.selected < 0 || v.selected >= len(v.conversations) {
		return nil
	}
	return &v.conversations[v.selected]
}

// togglePin flips the pinned state of a conversation.
func (v *View) togglePin(conv domain.Conversation) tea.Cmd {
	return func() tea.Msg {
		err := v.chatService.SetPinned(context.Background(), conv.ID, !conv.Pinned)
		return messages.ConversationMutated{ConversationID: conv.ID, Err: err}
	}
}

// deleteConversation removes a conversation.
func (v *View) deleteConversation(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.chatService.Delete(context.Background(), id)
		return messages.ConversationMutated{ConversationID: id, Err: err}
	}
}

// View renders the conversation list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Conversations"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.conversations) == 0:
		b.WriteString(v.styles.Muted.Render("No conversations yet."))
	default:
		for i := range v.conversations {
			conv := &v.conversations[i]

			cursor := "  "
			style := v.styles.Normal
			if i == v.selected {
				cursor = "> "
				style = v.styles.Selected
			}

			pin := "  "
			if conv.Pinned {
				pin = "* "
			}

			title := conv.Title
			if title == "" {
				title = conv.ID
			}
			b.WriteString(cursor + pin + style.Render(title))
			b.WriteString("\n")

			if conv.Preview != "" && i == v.selected {
				b.WriteString(v.styles.Muted.Render("      " + conv.Preview))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		"[enter] open  [p] pin/unpin  [d] delete  [r] refresh  [esc] back",
	))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Conversations returns the loaded sidebar list.
func (v *View) Conversations() []domain.Conversation {
	return v.conversations
}

// Err returns the last error that occurred.
func (v *View) Err() error {
	return v.err
}
