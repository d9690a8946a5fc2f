// Package calculate provides the view where the ten values are typed in.
package calculate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/views/shared"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
)

// View is a form with one field per biomarker.
type View struct {
	ctx        context.Context
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	calculator driving.CalculatorService

	fields  []*input.NumberInput
	focus   int
	working bool
	result  *domain.PhenoAgeResult
	err     error

	width  int
	height int
}

// NewView creates the form with the first field focused.
func NewView(s *styles.Styles, calculator driving.CalculatorService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	all := domain.AllBiomarkers()
	fields := make([]*input.NumberInput, len(all))
	for i, b := range all {
		fields[i] = input.NewNumberInput(s, b)
	}
	fields[0].Focus()

	return &View{
		ctx:        context.Background(),
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		calculator: calculator,
		fields:     fields,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context passed to the calculator.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.fields[v.focus].Init()
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.CalculationCompleted:
		v.working = false
		v.result = msg.Result
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		if v.working {
			return v, nil
		}
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Select), keymap.Matches(k, v.keymap.Submit):
			return v, v.submit()
		case keymap.Matches(k, v.keymap.Reset):
			return v, v.Reset()
		case keymap.Matches(k, v.keymap.NextField):
			return v, v.moveFocus(1)
		case keymap.Matches(k, v.keymap.PrevField):
			return v, v.moveFocus(-1)
		}

		var cmd tea.Cmd
		v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *View) moveFocus(delta int) tea.Cmd {
	v.fields[v.focus].Blur()
	v.focus = (v.focus + delta + len(v.fields)) % len(v.fields)
	return v.fields[v.focus].Focus()
}

// Extraction collects the entered values. Empty fields are absent.
func (v *View) Extraction() (domain.Extraction, error) {
	e := domain.NewExtraction()
	var errs []error
	for _, f := range v.fields {
		val, ok, err := f.Float()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			e.Set(f.Biomarker(), val)
		}
	}
	if age, ok := e.Get(domain.BiomarkerAge); ok {
		if err := domain.ValidateAge(age); err != nil {
			errs = append(errs, err)
		}
	}
	return e, errors.Join(errs...)
}

func (v *View) submit() tea.Cmd {
	e, err := v.Extraction()
	if err != nil {
		v.result = nil
		v.err = err
		return nil
	}
	panel, err := e.Panel()
	if err != nil {
		v.result = nil
		v.err = err
		return nil
	}

	v.working = true
	v.err = nil
	ctx, calc := v.ctx, v.calculator
	return func() tea.Msg {
		result, err := calc.Calculate(ctx, panel)
		return messages.CalculationCompleted{Extraction: e, Result: result, Err: err}
	}
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Enter values"))
	b.WriteString("\n\n")

	for _, f := range v.fields {
		b.WriteString(f.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.working:
		b.WriteString(v.styles.Muted.Render("Calculating..."))
	case v.err != nil:
		b.WriteString(v.errorView())
	case v.result != nil:
		b.WriteString(shared.Outcome(v.styles, v.result, nil))
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("[tab] Next  [Enter] Calculate  [ctrl+r] Clear  [esc] Back"))

	return b.String()
}

func (v *View) errorView() string {
	if errors.Is(v.err, domain.ErrIncompletePanel) {
		e, _ := v.Extraction()
		names := make([]string, 0, len(e.Missing()))
		for _, b := range e.Missing() {
			names = append(names, b.Description())
		}
		return v.styles.Warning.Render(fmt.Sprintf("Missing: %s", strings.Join(names, ", ")))
	}
	return shared.Outcome(v.styles, nil, v.err)
}

// Reset clears every field and focuses the first one.
func (v *View) Reset() tea.Cmd {
	for _, f := range v.fields {
		f.Reset()
		f.Blur()
	}
	v.focus = 0
	v.result = nil
	v.err = nil
	v.working = false
	return v.fields[0].Focus()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// SetValue fills the field for b.
func (v *View) SetValue(b domain.Biomarker, value string) {
	for _, f := range v.fields {
		if f.Biomarker() == b {
			f.SetValue(value)
			return
		}
	}
}

// Focused returns the biomarker whose field has focus.
func (v *View) Focused() domain.Biomarker {
	return v.fields[v.focus].Biomarker()
}

// Result returns the last result, if any.
func (v *View) Result() *domain.PhenoAgeResult {
	return v.result
}

// Err returns the last validation or calculation error.
func (v *View) Err() error {
	return v.err
}
