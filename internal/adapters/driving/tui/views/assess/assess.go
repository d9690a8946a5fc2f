// Package assess provides the view that reads a pasted lab report.
package assess

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/views/shared"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
)

// State is the step the view is on.
type State int

const (
	// StateInput accepts the report text.
	StateInput State = iota
	// StateWorking waits for the model.
	StateWorking
	// StateAge asks for the age the report did not state.
	StateAge
	// StateResult shows the outcome.
	StateResult
)

// ErrEmptyReport is shown when ctrl+s is pressed with nothing pasted.
var ErrEmptyReport = errors.New("paste a lab report first")

// View lets the user paste a report, then shows the values found and the result.
type View struct {
	ctx        context.Context
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	assessment driving.AssessmentService
	calculator driving.CalculatorService

	report   textarea.Model
	age      *input.NumberInput
	state    State
	current  *domain.Assessment
	values   domain.Extraction
	result   *domain.PhenoAgeResult
	err      error
	inputErr error

	width  int
	height int
}

// NewView creates the assess view.
func NewView(
	s *styles.Styles,
	assessment driving.AssessmentService,
	calculator driving.CalculatorService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ta := textarea.New()
	ta.Placeholder = "Paste the lab report here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(12)
	ta.Focus()

	return &View{
		ctx:        context.Background(),
		styles:     s,
		keymap:     keymap.DefaultKeyMap(),
		assessment: assessment,
		calculator: calculator,
		report:     ta,
		age:        input.NewNumberInput(s, domain.BiomarkerAge),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context passed to the services.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the assess view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.AssessCompleted:
		return v, v.handleAssessed(msg)

	case messages.CalculationCompleted:
		v.values = msg.Extraction
		v.result = msg.Result
		v.err = msg.Err
		v.state = StateResult
		v.age.Blur()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	if keymap.Matches(k, v.keymap.Reset) && v.state != StateWorking {
		return v, v.Reset()
	}

	var cmd tea.Cmd
	switch v.state {
	case StateInput:
		if keymap.Matches(k, v.keymap.Submit) {
			return v, v.submit()
		}
		v.report, cmd = v.report.Update(msg)
		return v, cmd

	case StateAge:
		if keymap.Matches(k, v.keymap.Select) {
			return v, v.submitAge()
		}
		v.age, cmd = v.age.Update(msg)
		return v, cmd
	}

	return v, nil
}

func (v *View) submit() tea.Cmd {
	text := v.report.Value()
	if strings.TrimSpace(text) == "" {
		v.inputErr = ErrEmptyReport
		return nil
	}
	if v.assessment == nil {
		v.inputErr = domain.ErrLLMUnavailable
		return nil
	}

	v.inputErr = nil
	v.state = StateWorking
	v.report.Blur()

	ctx, svc := v.ctx, v.assessment
	return func() tea.Msg {
		a, err := svc.Assess(ctx, text, domain.AssessOptions{})
		return messages.AssessCompleted{Assessment: a, Err: err}
	}
}

func (v *View) handleAssessed(msg messages.AssessCompleted) tea.Cmd {
	v.current = msg.Assessment
	v.err = msg.Err
	v.result = nil
	v.values = nil
	if msg.Assessment != nil {
		v.values = msg.Assessment.Extraction
		v.result = msg.Assessment.Result
	}

	if errors.Is(msg.Err, domain.ErrIncompletePanel) && onlyAgeMissing(msg.Assessment) {
		v.state = StateAge
		v.err = nil
		v.age.Reset()
		return v.age.Focus()
	}

	v.state = StateResult
	return nil
}

// submitAge completes the panel with the entered age and calculates without
// asking the model again.
func (v *View) submitAge() tea.Cmd {
	age, ok, err := v.age.Float()
	if err == nil && !ok {
		err = domain.ErrInvalidInput
	}
	if err == nil {
		err = domain.ValidateAge(age)
	}
	if err != nil {
		v.inputErr = err
		return nil
	}

	v.inputErr = nil
	v.state = StateWorking
	filled := v.current.Extraction.WithAge(age)

	ctx, calc := v.ctx, v.calculator
	return func() tea.Msg {
		panel, err := filled.Panel()
		if err != nil {
			return messages.CalculationCompleted{Extraction: filled, Err: err}
		}
		result, err := calc.Calculate(ctx, panel)
		return messages.CalculationCompleted{Extraction: filled, Result: result, Err: err}
	}
}

func onlyAgeMissing(a *domain.Assessment) bool {
	if a == nil || a.Extraction == nil {
		return false
	}
	missing := a.Missing()
	return len(missing) == 1 && missing[0] == domain.BiomarkerAge
}

// View renders the assess view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Assess a lab report"))
	b.WriteString("\n\n")

	switch v.state {
	case StateInput:
		b.WriteString(v.report.View())
		b.WriteString("\n")
		if v.inputErr != nil {
			b.WriteString(v.styles.Error.Render(domain.PresentError(v.inputErr)))
			b.WriteString("\n")
		}
		b.WriteString(v.styles.Muted.Render("[ctrl+s] Assess  [esc] Back"))

	case StateWorking:
		b.WriteString(v.styles.Muted.Render("Reading the report..."))

	case StateAge:
		b.WriteString(shared.Extraction(v.styles, v.values))
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("The report does not state an age."))
		b.WriteString("\n")
		b.WriteString(v.age.View())
		b.WriteString("\n")
		if v.inputErr != nil {
			b.WriteString(v.styles.Error.Render(v.inputErr.Error()))
			b.WriteString("\n")
		}
		b.WriteString(v.styles.Muted.Render("[Enter] Calculate  [ctrl+r] Start over"))

	case StateResult:
		if v.values != nil {
			b.WriteString(shared.Extraction(v.styles, v.values))
		}
		b.WriteString(shared.Outcome(v.styles, v.result, v.err))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("[ctrl+r] Start over  [esc] Back"))
	}

	return b.String()
}

// Reset clears the report and any result.
func (v *View) Reset() tea.Cmd {
	v.report.Reset()
	v.age.Reset()
	v.age.Blur()
	v.state = StateInput
	v.current = nil
	v.values = nil
	v.result = nil
	v.err = nil
	v.inputErr = nil
	return v.report.Focus()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	if width > 4 {
		v.report.SetWidth(width - 4)
	}
	if height > 12 {
		v.report.SetHeight(height - 10)
	}
}

// State returns the current step.
func (v *View) State() State {
	return v.state
}

// Result returns the last result, if any.
func (v *View) Result() *domain.PhenoAgeResult {
	return v.result
}

// Err returns the last service error.
func (v *View) Err() error {
	return v.err
}

// Report returns the pasted text.
func (v *View) Report() string {
	return v.report.Value()
}

// SetReport replaces the pasted text.
func (v *View) SetReport(text string) {
	v.report.SetValue(text)
}
