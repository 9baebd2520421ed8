package scope

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-kb/atlas-cli/internal/adapters/driving/tui/messages"
	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// fakeSettings implements driving.SettingsService for picker tests.
type fakeSettings struct {
	scope  domain.Scope
	setErr error
}

var _ driving.SettingsService = (*fakeSettings)(nil)

func (f *fakeSettings) Scope() domain.Scope { return f.scope }

func (f *fakeSettings) SetScope(scope domain.Scope) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.scope = scope
	return nil
}

func newTestView(settings *fakeSettings) *View {
	v := NewView(nil, settings)
	v.SetDimensions(80, 24)
	v.Init()
	return v
}

func TestScopeView_CursorStartsOnActiveScope(t *testing.T) {
	v := newTestView(&fakeSettings{scope: domain.ScopeCompany})

	assert.Equal(t, 1, v.Selected())
}

func TestScopeView_RendersActiveMarker(t *testing.T) {
	v := newTestView(&fakeSettings{scope: domain.ScopeAll})

	out := v.View()
	assert.Contains(t, out, "Knowledge Scope")
	assert.Contains(t, out, "mine - only your own documents")
	assert.Contains(t, out, "● ")
}

func TestScopeView_EnterSetsScope(t *testing.T) {
	settings := &fakeSettings{scope: domain.ScopeAll}
	v := newTestView(settings)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	require.Equal(t, 0, v.Selected())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.ScopeChanged)
	require.True(t, ok)
	assert.Equal(t, domain.ScopeMine, msg.Scope)
	assert.Equal(t, domain.ScopeMine, settings.scope)
}

func TestScopeView_SetScopeFailureStaysOnPicker(t *testing.T) {
	v := newTestView(&fakeSettings{scope: domain.ScopeAll, setErr: errors.New("write config: disk full")})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Error(t, v.Err())
	assert.Contains(t, v.View(), "disk full")
}

func TestScopeView_EscReturnsToMenu(t *testing.T) {
	v := newTestView(&fakeSettings{scope: domain.ScopeAll})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewMenu, msg.View)
}
