package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

func TestBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, domain.DefaultScope, bar.Scope())
	assert.Contains(t, bar.View(), "[all]")
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_ThinkingState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateThinking)

	assert.Contains(t, bar.View(), "Thinking...")
}

func TestBar_ErrorState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("request timed out")

	assert.Contains(t, bar.View(), "Error: request timed out")
}

func TestBar_ErrorStateWithoutMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)

	assert.Contains(t, bar.View(), "Error")
}

func TestBar_ScopeChanges(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetScope(domain.ScopeCompany)

	assert.Equal(t, domain.ScopeCompany, bar.Scope())
	assert.Contains(t, bar.View(), "[company]")
}

func TestBar_ChatStateShowsChatHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateChat)

	assert.Contains(t, bar.View(), "enter")
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetScope(domain.ScopeMine)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, domain.ScopeMine, bar.Scope(), "scope survives a clear")
}

func TestBar_Width(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
