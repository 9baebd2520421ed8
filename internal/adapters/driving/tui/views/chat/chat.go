// Package chat provides the chat transcript and input view for the TUI.
package chat

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/components/input"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/components/status"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/keymap"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/styles"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// View is the chat view with transcript, input, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.ChatInput
	statusbar *status.Bar

	chatService     driving.ChatService
	settingsService driving.SettingsService
	ctx             context.Context

	renderer *glamour.TermRenderer

	transcript   []domain.Message
	lines        []string
	scrollOffset int
	followTail   bool

	width   int
	height  int
	ready   bool
	waiting bool
	err     error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:          s,
		keymap:          km,
		input:           input.NewChatInput(s),
		statusbar:       status.NewBar(s, km),
		chatService:     chatService,
		settingsService: settingsService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
		followTail:      true,
	}
	v.statusbar.SetState(status.StateChat)
	if settingsService != nil {
		v.statusbar.SetScope(settingsService.Scope())
	}
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	v.reloadTranscript()
	return v.input.Init()
}

// Reset clears the view for a fresh thread.
func (v *View) Reset() {
	if v.chatService != nil {
		v.chatService.NewConversation()
	}
	v.transcript = nil
	v.lines = nil
	v.scrollOffset = 0
	v.followTail = true
	v.err = nil
	v.input.Reset()
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateChat)
}

// OpenConversation loads an existing thread into the view.
func (v *View) OpenConversation(conversationID string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := v.chatService.Open(v.ctx, conversationID)
		return messages.ConversationOpened{
			ConversationID: conversationID,
			Messages:       msgs,
			Err:            err,
		}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TranscriptUpdated:
		v.reloadTranscript()
		return v, nil

	case messages.SendCompleted:
		v.waiting = false
		v.reloadTranscript()
		if msg.Err != nil {
			// The transcript already carries the error entry; the status
			// bar repeats it so it survives scrolling.
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
		} else {
			v.err = nil
			v.statusbar.SetState(status.StateChat)
			v.statusbar.SetMessage("")
		}
		return v, nil

	case messages.ConversationOpened:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.statusbar.SetState(status.StateChat)
		v.reloadTranscript()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	switch msg.String() {
	case "ctrl+n":
		v.Reset()
		return v, nil

	case "tab":
		v.cycleScope()
		return v, nil

	case "pgup":
		v.scrollBy(-v.visibleLines())
		return v, nil

	case "pgdown":
		v.scrollBy(v.visibleLines())
		return v, nil

	case "up":
		v.scrollBy(-1)
		return v, nil

	case "down":
		v.scrollBy(1)
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		return v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed message. The user entry lands in the transcript
// before the network call finishes, so a short tick re-reads it while the
// reply is still in flight.
func (v *View) submit() (*View, tea.Cmd) {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.waiting {
		return v, nil
	}

	v.waiting = true
	v.input.Reset()
	v.followTail = true
	v.statusbar.SetState(status.StateThinking)

	send := func() tea.Msg {
		reply, err := v.chatService.Send(v.ctx, text)
		return messages.SendCompleted{Reply: reply, Err: err}
	}
	refresh := tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return messages.TranscriptUpdated{}
	})

	return v, tea.Batch(send, refresh)
}

// cycleScope rotates mine -> company -> all.
func (v *View) cycleScope() {
	if v.settingsService == nil {
		return
	}

	var next domain.Scope
	switch v.settingsService.Scope() {
	case domain.ScopeMine:
		next = domain.ScopeCompany
	case domain.ScopeCompany:
		next = domain.ScopeAll
	default:
		next = domain.ScopeMine
	}

	if err := v.settingsService.SetScope(next); err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		return
	}
	v.statusbar.SetScope(next)
}

// reloadTranscript re-reads the transcript from the state store and
// re-renders the visible lines.
func (v *View) reloadTranscript() {
	if v.chatService == nil {
		return
	}
	v.transcript = v.chatService.Transcript()
	v.renderTranscript()
	if v.followTail {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// renderTranscript turns the message list into display lines.
func (v *View) renderTranscript() {
	var lines []string

	for i := range v.transcript {
		m := &v.transcript[i]
		switch m.Role {
		case domain.RoleUser:
			label := "You"
			if m.Pending {
				label = "You (sending...)"
			}
			lines = append(lines, v.styles.UserMessage.Render(label))
			lines = append(lines, v.wrapPlain(m.Content)...)

		case domain.RoleAssistant:
			lines = append(lines, v.styles.Subtitle.Render("Atlas"))
			lines = append(lines, v.renderMarkdown(m.Content)...)
			for _, source := range m.Sources {
				lines = append(lines, v.styles.Muted.Render("  · "+source.Title))
			}

		case domain.RoleError:
			lines = append(lines, v.styles.Error.Render("Failed: "+m.Content))
		}
		lines = append(lines, "")
	}

	v.lines = lines
}

// renderMarkdown renders assistant markdown, falling back to plain text.
func (v *View) renderMarkdown(content string) []string {
	if v.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(v.contentWidth()),
		)
		if err != nil {
			return v.wrapPlain(content)
		}
		v.renderer = r
	}

	rendered, err := v.renderer.Render(content)
	if err != nil {
		return v.wrapPlain(content)
	}
	return strings.Split(strings.TrimRight(rendered, "\n"), "\n")
}

// wrapPlain wraps plain text to the content width.
func (v *View) wrapPlain(content string) []string {
	wrapped := lipgloss.NewStyle().Width(v.contentWidth()).Render(content)
	return strings.Split(wrapped, "\n")
}

func (v *View) contentWidth() int {
	w := v.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (v *View) visibleLines() int {
	// Header, input, and status bar take the rest.
	n := v.height - 7
	if n < 3 {
		n = 3
	}
	return n
}

func (v *View) maxScrollOffset() int {
	max := len(v.lines) - v.visibleLines()
	if max < 0 {
		return 0
	}
	return max
}

func (v *View) scrollBy(delta int) {
	v.scrollOffset += delta
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
	if max := v.maxScrollOffset(); v.scrollOffset > max {
		v.scrollOffset = max
	}
	// Manual scrolling away from the tail stops auto-follow.
	v.followTail = v.scrollOffset == v.maxScrollOffset()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 6)

	header := v.styles.Title.Render("Atlas Chat")
	if id := v.chatService.ActiveConversation(); id != "" {
		header += v.styles.Muted.Render("  " + id)
	}
	sections = append(sections, header, "")

	start := v.scrollOffset
	end := start + v.visibleLines()
	if end > len(v.lines) {
		end = len(v.lines)
	}
	if start > end {
		start = end
	}
	body := strings.Join(v.lines[start:end], "\n")
	if len(v.lines) == 0 {
		body = v.styles.Muted.Render("Ask a question to get started.")
	}
	sections = append(sections, body, "")

	sections = append(sections, v.input.View(), "")
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Word wrap depends on the width, so drop the renderer and re-render.
	v.renderer = nil
	v.renderTranscript()
	if v.followTail {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Waiting returns whether a reply is in flight.
func (v *View) Waiting() bool {
	return v.waiting
}

// Err returns the last error that occurred.
func (v *View) Err() error {
	return v.err
}

// Transcript returns the messages currently rendered.
func (v *View) Transcript() []domain.Message {
	return v.transcript
}
