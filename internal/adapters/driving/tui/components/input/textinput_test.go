package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatInput_Defaults(t *testing.T) {
	in := NewChatInput(nil)
	require.NotNil(t, in)

	assert.True(t, in.Focused())
	assert.Empty(t, in.Value())
	assert.Equal(t, 60, in.Width())
}

func TestChatInput_TypingUpdatesValue(t *testing.T) {
	in := NewChatInput(nil)

	for _, r := range "hello" {
		in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "hello", in.Value())
}

func TestChatInput_SetValueAndReset(t *testing.T) {
	in := NewChatInput(nil)

	in.SetValue("draft question")
	assert.Equal(t, "draft question", in.Value())

	in.Reset()
	assert.Empty(t, in.Value())
}

func TestChatInput_FocusBlur(t *testing.T) {
	in := NewChatInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestChatInput_BlurredIgnoresKeys(t *testing.T) {
	in := NewChatInput(nil)
	in.Blur()

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Empty(t, in.Value())
}

func TestChatInput_SetWidthClampsMinimum(t *testing.T) {
	in := NewChatInput(nil)

	in.SetWidth(10)
	assert.Equal(t, 10, in.Width())

	in.SetWidth(120)
	assert.Equal(t, 120, in.Width())
}

func TestChatInput_ViewShowsPrompt(t *testing.T) {
	in := NewChatInput(nil)

	assert.Contains(t, in.View(), ">")
}
