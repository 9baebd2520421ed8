// Package documents provides the document list view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/styles"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// listPageSize is how many documents one page of the list requests.
const listPageSize = 50

// View is the document list view.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService

	page     *domain.DocumentPage
	selected int
	offset   int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
	}
}

// Init initialises the view and loads the first page.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return tea.Batch(v.loadDocuments(), v.statusTick())
}

// loadDocuments returns a command that loads the current page.
func (v *View) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}
		page, err := v.documentService.List(context.Background(), listPageSize, v.offset)
		return messages.DocumentsLoaded{Page: page, Err: err}
	}
}

// statusTick schedules a periodic re-render while uploads or deletes are
// still converging, so inline statuses stay fresh.
func (v *View) statusTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return messages.StatusTick{}
	})
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.page = msg.Page
			v.err = nil
			if v.page != nil && v.selected >= len(v.page.Documents) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		return v, tea.Batch(v.loadDocuments(), v.statusTick())

	case messages.StatusTick:
		if v.anyPending() {
			return v, v.statusTick()
		}
		return v, nil

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
		if v.page != nil && v.selected < len(v.page.Documents)-1 {
			v.selected++
		}
		return v, nil

	case "right", "l":
		// Next page.
		if v.page != nil && v.offset+listPageSize < v.page.Total {
			v.offset += listPageSize
			v.selected = 0
			v.loading = true
			return v, v.loadDocuments()
		}
		return v, nil

	case "left", "h":
		// Previous page.
		if v.offset > 0 {
			v.offset -= listPageSize
			if v.offset < 0 {
				v.offset = 0
			}
			v.selected = 0
			v.loading = true
			return v, v.loadDocuments()
		}
		return v, nil

	case "u":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewUpload}
		}

	case "d":
		if doc := v.selectedDocument(); doc != nil {
			return v, v.deleteDocument(doc.ID)
		}
		return v, nil

	case "r":
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

func (v *View) selectedDocument() *domain.Document {
	if v.page == nil || v.selected < 0 || v.selected >= len(v.page.Documents) {
		return nil
	}
	return &v.page.Documents[v.selected]
}

// deleteDocument removes a document and starts convergence tracking.
func (v *View) deleteDocument(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.documentService.Delete(context.Background(), id)
		return messages.DocumentDeleted{DocumentID: id, Err: err}
	}
}

// anyPending reports whether any listed document is still converging.
func (v *View) anyPending() bool {
	if v.page == nil || v.documentService == nil {
		return false
	}
	for i := range v.page.Documents {
		if v.documentService.Status(v.page.Documents[i].ID).Pending() {
			return true
		}
	}
	return false
}

// View renders the document list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.page == nil || len(v.page.Documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents in the active scope."))
	default:
		for i := range v.page.Documents {
			doc := &v.page.Documents[i]

			cursor := "  "
			style := v.styles.Normal
			if i == v.selected {
				cursor = "> "
				style = v.styles.Selected
			}

			line := cursor + style.Render(doc.Title)
			if doc.CompanyDoc {
				line += v.styles.Muted.Render("  (company)")
			}
			if status := v.documentService.Status(doc.ID); status.Pending() {
				line += v.styles.Warning.Render("  " + status.String())
			}
			b.WriteString(line)
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(
			fmt.Sprintf("%d-%d of %d", v.offset+1, v.offset+len(v.page.Documents), v.page.Total),
		))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(
		"[u] upload  [d] delete  [r] refresh  [h/l] page  [esc] back",
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

// Page returns the loaded document page.
func (v *View) Page() *domain.DocumentPage {
	return v.page
}

// Err returns the last error that occurred.
func (v *View) Err() error {
	return v.err
}
