// Package input provides text input components for the TUI.
package input

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// NumberInput is a labelled single-line field for one biomarker value.
type NumberInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	biomarker domain.Biomarker
}

// NewNumberInput creates an unfocused input for the given biomarker.
func NewNumberInput(s *styles.Styles, b domain.Biomarker) *NumberInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = b.Unit()
	ti.CharLimit = 16
	ti.Width = 16
	ti.Validate = func(v string) error {
		if strings.Trim(v, "0123456789.-+eE") != "" {
			return fmt.Errorf("%q is not a number", v)
		}
		return nil
	}

	return &NumberInput{
		textinput: ti,
		styles:    s,
		biomarker: b,
	}
}

// Init initialises the input.
func (n *NumberInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (n *NumberInput) Update(msg tea.Msg) (*NumberInput, tea.Cmd) {
	var cmd tea.Cmd
	n.textinput, cmd = n.textinput.Update(msg)
	return n, cmd
}

// View renders the label and the field.
func (n *NumberInput) View() string {
	label := n.styles.Label.Render(fmt.Sprintf("%s (%s)", n.biomarker.Description(), n.biomarker.Unit()))
	field := n.styles.InputField
	if n.textinput.Focused() {
		field = n.styles.FocusedField
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field.Render(n.textinput.View()))
}

// Biomarker returns the biomarker this input sets.
func (n *NumberInput) Biomarker() domain.Biomarker {
	return n.biomarker
}

// Float parses the entered value. ok is false when the field is empty.
func (n *NumberInput) Float() (v float64, ok bool, err error) {
	raw := strings.TrimSpace(n.textinput.Value())
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("%w: %s: %q is not a number", domain.ErrInvalidInput, n.biomarker, raw)
	}
	return v, true, nil
}

// Value returns the raw text.
func (n *NumberInput) Value() string {
	return n.textinput.Value()
}

// SetValue sets the raw text.
func (n *NumberInput) SetValue(value string) {
	n.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (n *NumberInput) Focus() tea.Cmd {
	return n.textinput.Focus()
}

// Blur removes focus from the input.
func (n *NumberInput) Blur() {
	n.textinput.Blur()
}

// Focused returns whether the input is focused.
func (n *NumberInput) Focused() bool {
	return n.textinput.Focused()
}

// Reset clears the input.
func (n *NumberInput) Reset() {
	n.textinput.Reset()
}
