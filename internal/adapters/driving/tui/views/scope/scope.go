// Package scope provides the knowledge scope picker for the TUI.
package scope

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/styles"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// option pairs a scope value with its menu description.
type option struct {
	scope domain.Scope
	label string
}

// View is the scope picker view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	options  []option
	selected int
	width    int
	height   int
	ready    bool
	err      error
}

// NewView creates a new scope view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		options: []option{
			{scope: domain.ScopeMine, label: "mine - only your own documents"},
			{scope: domain.ScopeCompany, label: "company - only shared documents"},
			{scope: domain.ScopeAll, label: "all - both"},
		},
	}
}

// Init initialises the view, moving the cursor to the active scope.
func (v *View) Init() tea.Cmd {
	if v.settingsService != nil {
		active := v.settingsService.Scope()
		for i, opt := range v.options {
			if opt.scope == active {
				v.selected = i
				break
			}
		}
	}
	return nil
}

// Update handles messages for the scope view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
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
			if v.selected < len(v.options)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			chosen := v.options[v.selected].scope
			if err := v.settingsService.SetScope(chosen); err != nil {
				v.err = err
				return v, nil
			}
			v.err = nil
			return v, func() tea.Msg {
				return messages.ScopeChanged{Scope: chosen}
			}
		}

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// View renders the scope picker.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Knowledge Scope"))
	b.WriteString("\n\n")

	active := domain.DefaultScope
	if v.settingsService != nil {
		active = v.settingsService.Scope()
	}

	for i, opt := range v.options {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		}

		marker := "  "
		if opt.scope == active {
			marker = v.styles.Success.Render("● ")
		}

		b.WriteString(cursor + marker + style.Render(opt.label))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[enter] select  [esc] back"))

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

// Err returns the last error that occurred.
func (v *View) Err() error {
	return v.err
}
