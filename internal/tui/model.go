package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/resumotube/internal/api"
	"github.com/csheth/resumotube/internal/session"
)

// Config wires runtime options into the TUI program. Session is required.
type Config struct {
	Session  *session.ViewModel
	Provider api.Provider
	BaseURL  string
	Now      func() time.Time
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Provider == "" {
		config.Provider = api.DefaultProvider
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	urlInput := textinput.New()
	urlInput.Placeholder = urlPlaceholder
	urlInput.Focus()
	urlInput.CharLimit = 300
	urlInput.Width = 70

	promptInput := textinput.New()
	promptInput.Placeholder = promptPlaceholder
	promptInput.CharLimit = 500
	promptInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 12)
	vp.MouseWheelEnabled = true

	return &model{
		config:        config,
		vm:            config.Session,
		layout:        newPageLayout(),
		mode:          modeInsert,
		focus:         focusURL,
		provider:      config.Provider,
		urlInput:      urlInput,
		promptInput:   promptInput,
		geminiInput:   newKeyInput(),
		openaiInput:   newKeyInput(),
		spinner:       spin,
		viewport:      vp,
		viewportDirty: true,
	}
}

func newKeyInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = keyPlaceholder
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 200
	input.Width = 60
	return input
}

type model struct {
	config Config
	vm     *session.ViewModel
	layout pageLayout

	mode     interactionMode
	focus    focusTarget
	provider api.Provider

	urlInput    textinput.Model
	promptInput textinput.Model
	geminiInput textinput.Model
	openaiInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	settingsField   session.Field
	settingsWasOpen bool
	viewportDirty   bool
	helpVisible     bool
	spinning        bool
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.vm.Init())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.urlInput.Width = m.layout.inputWidth
		m.promptInput.Width = m.layout.inputWidth
		m.markViewportDirty()
		return m, nil
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.vm.State().SettingsOpen {
			return m.handleSettingsKey(msg)
		}
		if m.mode == modeInsert {
			return m.handleInsertKey(msg)
		}
		return m.handleNormalKey(msg)
	}

	cmd, handled := m.vm.Update(msg)
	if !handled {
		return m, nil
	}
	if m.settingsWasOpen && !m.vm.State().SettingsOpen {
		m.closeSettingsInputs()
	} else if m.settingsWasOpen {
		m.syncSettingsInputs()
	}
	m.markViewportDirty()
	return m, tea.Batch(cmd, m.ensureSpinner())
}

func (m *model) handleInsertKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.enterNormalMode()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		if m.focus == focusURL {
			return m, m.focusInput(focusPrompt)
		}
		return m, m.focusInput(focusURL)
	case tea.KeyCtrlT:
		m.cycleProvider()
		return m, nil
	case tea.KeyEnter:
		return m, m.submit()
	}
	var cmd tea.Cmd
	if m.focus == focusPrompt {
		m.promptInput, cmd = m.promptInput.Update(key)
	} else {
		m.urlInput, cmd = m.urlInput.Update(key)
	}
	return m, cmd
}

func (m *model) handleNormalKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "i", "u":
		return m, m.focusInput(focusURL)
	case "e":
		return m, m.focusInput(focusPrompt)
	case "enter":
		return m, m.submit()
	case "p":
		m.cycleProvider()
	case "s":
		return m, m.openSettings()
	case "c":
		return m, m.vm.Copy()
	case "a":
		return m, m.vm.Archive()
	case "r":
		return m, m.vm.ReloadCredentials()
	case "?":
		m.helpVisible = !m.helpVisible
	case "esc":
		m.helpVisible = false
	case "up", "k":
		m.viewport.LineUp(1)
	case "down", "j":
		m.viewport.LineDown(1)
	case "pgup", "b":
		m.viewport.HalfViewUp()
	case "pgdown", " ":
		m.viewport.HalfViewDown()
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) handleSettingsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.vm.CancelSettings()
		m.closeSettingsInputs()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		return m, m.switchSettingsField()
	case tea.KeyEnter:
		cmd := m.vm.SaveSettings()
		if cmd == nil {
			return m, nil
		}
		return m, tea.Batch(cmd, m.ensureSpinner())
	}
	if m.vm.State().Saving {
		return m, nil
	}
	var cmd tea.Cmd
	if m.settingsField == session.FieldOpenAIKey {
		m.openaiInput, cmd = m.openaiInput.Update(key)
		m.vm.EditSetting(session.FieldOpenAIKey, m.openaiInput.Value())
	} else {
		m.geminiInput, cmd = m.geminiInput.Update(key)
		m.vm.EditSetting(session.FieldGeminiKey, m.geminiInput.Value())
	}
	return m, cmd
}

func (m *model) submit() tea.Cmd {
	cmd := m.vm.Submit(m.urlInput.Value(), m.provider, m.promptInput.Value())
	m.viewport.GotoTop()
	m.markViewportDirty()
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.ensureSpinner())
}

func (m *model) cycleProvider() {
	m.provider = m.provider.Next()
}

func (m *model) focusInput(target focusTarget) tea.Cmd {
	m.mode = modeInsert
	m.focus = target
	if target == focusPrompt {
		m.urlInput.Blur()
		return m.promptInput.Focus()
	}
	m.promptInput.Blur()
	return m.urlInput.Focus()
}

func (m *model) enterNormalMode() {
	m.mode = modeNormal
	m.urlInput.Blur()
	m.promptInput.Blur()
}

func (m *model) openSettings() tea.Cmd {
	m.vm.OpenSettings()
	draft := m.vm.State().Draft
	m.geminiInput.SetValue(draft.GeminiKey)
	m.openaiInput.SetValue(draft.OpenAIKey)
	m.settingsField = session.FieldGeminiKey
	m.settingsWasOpen = true
	m.urlInput.Blur()
	m.promptInput.Blur()
	m.openaiInput.Blur()
	return m.geminiInput.Focus()
}

func (m *model) switchSettingsField() tea.Cmd {
	if m.settingsField == session.FieldGeminiKey {
		m.settingsField = session.FieldOpenAIKey
		m.geminiInput.Blur()
		return m.openaiInput.Focus()
	}
	m.settingsField = session.FieldGeminiKey
	m.openaiInput.Blur()
	return m.geminiInput.Focus()
}

// syncSettingsInputs picks up draft values filled in by a late load.
func (m *model) syncSettingsInputs() {
	draft := m.vm.State().Draft
	if m.geminiInput.Value() != draft.GeminiKey {
		m.geminiInput.SetValue(draft.GeminiKey)
	}
	if m.openaiInput.Value() != draft.OpenAIKey {
		m.openaiInput.SetValue(draft.OpenAIKey)
	}
}

func (m *model) closeSettingsInputs() {
	m.settingsWasOpen = false
	m.geminiInput.Blur()
	m.openaiInput.Blur()
	m.geminiInput.SetValue("")
	m.openaiInput.SetValue("")
	if m.mode == modeInsert {
		m.focusInput(m.focus)
	}
}

func (m *model) busy() bool {
	state := m.vm.State()
	return state.Loading || state.Saving
}

// ensureSpinner starts the spinner tick loop unless it is already running.
func (m *model) ensureSpinner() tea.Cmd {
	if m.spinning || !m.busy() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty(state session.State) {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	m.viewport.SetContent(buildResultContent(state, m.wrapWidth(2)))
}
