package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
)

func newTestView() *View {
	v := NewView(nil)
	v.SetDimensions(80, 24)
	return v
}

func TestMenuView_RendersItems(t *testing.T) {
	v := newTestView()

	out := v.View()
	assert.Contains(t, out, "Atlas")
	assert.Contains(t, out, "Knowledge-Base Assistant")
	for _, label := range []string{"Chat", "Conversations", "Documents", "Scope", "Help", "Quit"} {
		assert.Contains(t, out, label)
	}
}

func TestMenuView_ShowsAccount(t *testing.T) {
	v := newTestView()
	v.SetAccount("dev@example.com")

	assert.Contains(t, v.View(), "Signed in as dev@example.com")
}

func TestMenuView_NoAccountLineWhenSignedOut(t *testing.T) {
	v := newTestView()

	assert.NotContains(t, v.View(), "Signed in as")
}

func TestMenuView_Navigation(t *testing.T) {
	v := newTestView()

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.Selected())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, v.Selected())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, v.Selected(), "does not run past the top")
}

func TestMenuView_EnterOpensSelectedView(t *testing.T) {
	v := newTestView()

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewDocuments, msg.View)
}

func TestMenuView_QuitItem(t *testing.T) {
	v := newTestView()

	for i := 0; i < 5; i++ {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	}
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestMenuView_QKeyQuits(t *testing.T) {
	v := newTestView()

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestMenuView_NotReady(t *testing.T) {
	v := NewView(nil)

	assert.Contains(t, v.View(), "Initialising")
}
