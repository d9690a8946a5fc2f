package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles(), true)

	require.NotNil(t, view)
	assert.Len(t, view.Items(), 4)
	assert.Equal(t, messages.ViewAssess, view.Items()[0].View)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestNewView_WithoutAssess(t *testing.T) {
	view := NewView(nil, false)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Len(t, view.Items(), 3)
	for _, item := range view.Items() {
		assert.NotEqual(t, messages.ViewAssess, item.View, "assess needs an LLM")
	}
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, true)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil, true)

	view.Update(key("down"))
	assert.Equal(t, 1, view.Selected())
	view.Update(key("j"))
	view.Update(key("j"))
	assert.Equal(t, 3, view.Selected())
	view.Update(key("j"))
	assert.Equal(t, 3, view.Selected(), "cannot go past last item")

	view.Update(key("k"))
	view.Update(key("up"))
	view.Update(key("up"))
	view.Update(key("up"))
	assert.Equal(t, 0, view.Selected(), "cannot go before first item")
}

func TestView_Select(t *testing.T) {
	view := NewView(nil, true)
	view.Update(key("down"))

	_, cmd := view.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewCalculate}, cmd())
}

func TestView_SelectQuit(t *testing.T) {
	view := NewView(nil, false)
	for range view.Items() {
		view.Update(key("down"))
	}

	_, cmd := view.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_QuitKey(t *testing.T) {
	_, cmd := NewView(nil, true).Update(key("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_View(t *testing.T) {
	view := NewView(nil, true)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	out := view.View()

	assert.Contains(t, out, "phenoage")
	assert.Contains(t, out, "> ")
	assert.Contains(t, out, "Assess a lab report")
	assert.Contains(t, out, "Enter values")
}
