// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionLLM
)

// ErrNoSettingsService is reported when the view has nothing to load from.
var ErrNoSettingsService = errors.New("settings service not available")

// View shows the current settings and lets the user pick a model provider.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	saved    bool

	section      Section
	selected     int
	focusedField int // 1 when the API key input has focus

	apiKeyInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "Enter API key"
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.CharLimit = 256

	return &View{
		styles:          s,
		keymap:          keymap.DefaultKeyMap(),
		settingsService: settingsService,
		section:         SectionOverview,
		apiKeyInput:     apiKeyInput,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = true
		v.section = SectionOverview
		v.selected = 0
		v.focusedField = 0
		v.apiKeyInput.SetValue("")
		v.apiKeyInput.Blur()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Back) {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.section = SectionOverview
		v.selected = 0
		v.focusedField = 0
		v.apiKeyInput.Blur()
		return v, nil
	}

	if v.section == SectionLLM {
		return v.handleLLMKeys(msg)
	}

	if keymap.Matches(msg.String(), v.keymap.Select) && v.settings != nil {
		v.section = SectionLLM
		v.selected = v.llmProviderIndex()
		v.saved = false
	}
	return v, nil
}

func (v *View) handleLLMKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := domain.AllLLMProviders()
	k := msg.String()

	if v.focusedField == 1 {
		switch {
		case keymap.Matches(k, v.keymap.NextField), keymap.Matches(k, v.keymap.PrevField):
			v.focusedField = 0
			v.apiKeyInput.Blur()
			return v, nil
		case keymap.Matches(k, v.keymap.Select):
			return v, v.setLLMProvider(providers[v.selected], v.apiKeyInput.Value())
		}
		var cmd tea.Cmd
		v.apiKeyInput, cmd = v.apiKeyInput.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case k == "tab", keymap.Matches(k, v.keymap.Select):
		provider := providers[v.selected]
		if provider.RequiresAPIKey() {
			v.focusedField = 1
			return v, v.apiKeyInput.Focus()
		}
		if k != "tab" {
			return v, v.setLLMProvider(provider, "")
		}
	}
	return v, nil
}

// setLLMProvider saves the provider with its default model. An empty key
// keeps the key already stored for that provider.
func (v *View) setLLMProvider(provider domain.AIProvider, apiKey string) tea.Cmd {
	svc := v.settingsService
	current := v.settings
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		if apiKey == "" && current != nil && current.LLM.Provider == provider {
			apiKey = current.LLM.APIKey
		}
		model := domain.DefaultLLMModels()[provider]
		return messages.SettingsSaved{Err: svc.SetLLMProvider(provider, model, apiKey)}
	}
}

func (v *View) llmProviderIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, p := range domain.AllLLMProviders() {
		if p == v.settings.LLM.Provider {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionLLM:
		b.WriteString(v.renderLLMSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	llm := v.settings.LLM

	b.WriteString(v.styles.Subtitle.Render("Language model"))
	b.WriteString("\n")
	b.WriteString(v.row("Provider", llm.Provider.Description()))
	b.WriteString(v.row("Model", llm.Model))
	if llm.BaseURL != "" {
		b.WriteString(v.row("Base URL", llm.BaseURL))
	}
	if llm.Provider.RequiresAPIKey() {
		key := logger.Redact(llm.APIKey)
		if key == "" {
			key = "not set (export " + llm.Provider.APIKeyEnv() + ")"
		}
		b.WriteString(v.row("API key", key))
	}
	b.WriteString(v.row("Temperature", fmt.Sprintf("%g", llm.Temperature)))
	b.WriteString(v.row("Status", v.llmStatus()))

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Extraction"))
	b.WriteString("\n")
	b.WriteString(v.row("Concurrency", fmt.Sprintf("%d", v.settings.Extraction.Concurrency)))
	b.WriteString(v.row("Rate limit", fmt.Sprintf("%g requests/s", v.settings.Extraction.RateLimit)))

	if v.saved {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("Saved. Restart phenoage to use the new provider."))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) row(label, value string) string {
	return v.styles.Label.Render("  "+label) + v.styles.Normal.Render(value) + "\n"
}

func (v *View) llmStatus() string {
	if v.settings.LLM.IsConfigured() {
		return "configured"
	}
	return "needs API key"
}

func (v *View) renderLLMSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select LLM Provider"))
	b.WriteString("\n\n")

	providers := domain.AllLLMProviders()
	defaults := domain.DefaultLLMModels()
	for i, provider := range providers {
		indicator := "  "
		if i == v.selected && v.focusedField == 0 {
			indicator = "> "
		}

		current := ""
		if provider == v.settings.LLM.Provider {
			current = " (current)"
		}

		line := fmt.Sprintf("%s%s%s", indicator, provider.Description(), current)
		if i == v.selected && v.focusedField == 0 {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("    Model: %s", defaults[provider])))
		b.WriteString("\n")
	}

	if providers[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(v.apiKeyInput.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch {
	case v.section == SectionOverview:
		return v.styles.Muted.Render("[enter] change provider  [esc] back")
	case v.focusedField == 1:
		return v.styles.Muted.Render("[tab] back to list  [enter] save  [esc] back")
	default:
		return v.styles.Muted.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] back")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Selected returns the highlighted provider index.
func (v *View) Selected() int {
	return v.selected
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = 0
	v.err = nil
	v.saved = false
	v.apiKeyInput.SetValue("")
	v.apiKeyInput.Blur()
}
