// Package upload provides the file upload form for the TUI.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/styles"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// View is the upload form: a file path, an optional category, and a
// company-wide sharing toggle.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService

	pathInput     textinput.Model
	categoryInput textinput.Model
	companyDoc    bool
	focusCategory bool

	width     int
	height    int
	ready     bool
	err       error
	uploading bool
	lastDoc   *domain.Document
}

// NewView creates a new upload view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	path := textinput.New()
	path.Placeholder = "/path/to/file.pdf"
	path.Focus()
	path.CharLimit = 512
	path.Width = 50

	category := textinput.New()
	category.Placeholder = "category (optional)"
	category.CharLimit = 64
	category.Width = 30

	return &View{
		styles:          s,
		documentService: documentService,
		pathInput:       path,
		categoryInput:   category,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the form.
func (v *View) Reset() {
	v.pathInput.Reset()
	v.categoryInput.Reset()
	v.companyDoc = false
	v.focusCategory = false
	v.pathInput.Focus()
	v.categoryInput.Blur()
	v.err = nil
	v.uploading = false
	v.lastDoc = nil
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.UploadCompleted:
		v.uploading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.lastDoc = msg.Document
		// Back to the document list, which shows the convergence status.
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}

	return v.forwardToInputs(msg)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}

	case "tab":
		// Cycle focus: path -> category -> path.
		v.focusCategory = !v.focusCategory
		if v.focusCategory {
			v.pathInput.Blur()
			return v, v.categoryInput.Focus()
		}
		v.categoryInput.Blur()
		return v, v.pathInput.Focus()

	case "ctrl+s":
		v.companyDoc = !v.companyDoc
		return v, nil

	case "enter":
		return v.submit()
	}

	return v.forwardToInputs(msg)
}

func (v *View) forwardToInputs(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	v.pathInput, cmd = v.pathInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	v.categoryInput, cmd = v.categoryInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return v, tea.Batch(cmds...)
}

// submit validates the path and starts the upload.
func (v *View) submit() (*View, tea.Cmd) {
	if v.uploading {
		return v, nil
	}

	path := strings.TrimSpace(v.pathInput.Value())
	if path == "" {
		v.err = fmt.Errorf("enter a file path")
		return v, nil
	}

	v.uploading = true
	v.err = nil
	category := strings.TrimSpace(v.categoryInput.Value())
	companyDoc := v.companyDoc

	return v, func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return messages.UploadCompleted{Err: fmt.Errorf("open file: %w", err)}
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return messages.UploadCompleted{Err: fmt.Errorf("stat file: %w", err)}
		}

		doc, err := v.documentService.Upload(context.Background(), driving.UploadOptions{
			Filename:   filepath.Base(path),
			Content:    file,
			Size:       info.Size(),
			Category:   category,
			CompanyDoc: companyDoc,
		})
		return messages.UploadCompleted{Document: doc, Err: err}
	}
}

// View renders the upload form.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload Document"))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("File: "))
	b.WriteString(v.styles.InputField.Render(v.pathInput.View()))
	b.WriteString("\n\n")

	b.WriteString(v.styles.Subtitle.Render("Category: "))
	b.WriteString(v.styles.InputField.Render(v.categoryInput.View()))
	b.WriteString("\n\n")

	sharing := "personal"
	if v.companyDoc {
		sharing = "company-wide"
	}
	b.WriteString(v.styles.Normal.Render("Sharing: " + sharing))
	b.WriteString("\n\n")

	if v.uploading {
		b.WriteString(v.styles.Muted.Render("Uploading..."))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		"[enter] upload  [tab] next field  [ctrl+s] toggle sharing  [esc] back",
	))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Err returns the last error that occurred.
func (v *View) Err() error {
	return v.err
}

// Uploading returns whether an upload is in flight.
func (v *View) Uploading() bool {
	return v.uploading
}
