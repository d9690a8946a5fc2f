package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/views/assess"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/views/calculate"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	assessView    *assess.View
	calculateView *calculate.View
	settingsView  *settings.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		menuView:      menu.NewView(s, ports.Assessment != nil),
		assessView:    assess.NewView(s, ports.Assessment, ports.Calculator),
		calculateView: calculate.NewView(s, ports.Calculator),
		settingsView:  settings.NewView(s, ports.Settings),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context passed to the services.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.assessView.WithContext(ctx)
	a.calculateView.WithContext(ctx)
	return a
}

// WithReport opens the assess view with text already pasted.
func (a *App) WithReport(text string) *App {
	a.assessView.SetReport(text)
	a.switchTo(messages.ViewAssess)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	title := tea.SetWindowTitle("phenoage")
	if a.currentView == messages.ViewAssess {
		return tea.Batch(title, a.assessView.Init())
	}
	return title
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Leave a line for the status bar.
		a.menuView.SetDimensions(msg.Width, msg.Height-1)
		a.assessView.SetDimensions(msg.Width, msg.Height-1)
		a.calculateView.SetDimensions(msg.Width, msg.Height-1)
		a.settingsView.SetDimensions(msg.Width, msg.Height-1)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.AssessCompleted:
		a.assessView, cmd = a.assessView.Update(msg)
		if a.assessView.State() == assess.StateAge {
			a.statusBar.SetState(status.StateReady, "")
			return a, cmd
		}
		a.reportOutcome(msg.Err, resultOf(msg.Assessment))
		return a, cmd

	case messages.CalculationCompleted:
		// Both the report view (after an age prompt) and the form calculate.
		if a.currentView == messages.ViewAssess {
			a.assessView, cmd = a.assessView.Update(msg)
		} else {
			a.calculateView, cmd = a.calculateView.Update(msg)
		}
		a.reportOutcome(msg.Err, msg.Result)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.statusBar.SetState(status.StateError, domain.PresentError(msg.Err))
		return a, nil
	}

	return a, a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
		return cmd

	case messages.ViewAssess:
		if keymap.Matches(k, a.keymap.Back) {
			return a.switchTo(messages.ViewMenu)
		}
		before := a.assessView.State()
		a.assessView, cmd = a.assessView.Update(msg)
		if before != assess.StateWorking && a.assessView.State() == assess.StateWorking {
			a.statusBar.SetState(status.StateWorking, "Working...")
		}
		return cmd

	case messages.ViewCalculate:
		if keymap.Matches(k, a.keymap.Back) {
			return a.switchTo(messages.ViewMenu)
		}
		a.calculateView, cmd = a.calculateView.Update(msg)
		if err := a.calculateView.Err(); err != nil {
			a.statusBar.SetState(status.StateError, domain.PresentError(err))
		}
		return cmd

	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return cmd
	}

	return nil
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAssess:
		a.assessView, cmd = a.assessView.Update(msg)
	case messages.ViewCalculate:
		a.calculateView, cmd = a.calculateView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}
	return cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.statusBar.Clear()

	switch view {
	case messages.ViewAssess:
		a.statusBar.SetBindings(a.keymap.ReportHelp())
		return a.assessView.Init()
	case messages.ViewCalculate:
		a.statusBar.SetBindings(a.keymap.FormHelp())
		return a.calculateView.Init()
	case messages.ViewSettings:
		a.statusBar.SetBindings(a.keymap.ShortHelp())
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu:
		a.statusBar.SetBindings(a.keymap.ShortHelp())
	}
	return nil
}

func (a *App) reportOutcome(err error, result *domain.PhenoAgeResult) {
	switch {
	case err != nil:
		a.statusBar.SetState(status.StateError, domain.PresentError(err))
	case result != nil:
		a.statusBar.SetState(status.StateDone, domain.ResultMessage(*result))
	default:
		a.statusBar.Clear()
	}
}

func resultOf(a *domain.Assessment) *domain.PhenoAgeResult {
	if a == nil {
		return nil
	}
	return a.Result
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewAssess:
		body = a.assessView.View()
	case messages.ViewCalculate:
		body = a.calculateView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	default:
		body = a.menuView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// Status returns the status bar state and message.
func (a *App) Status() (status.State, string) {
	return a.statusBar.State(), a.statusBar.Message()
}
