package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pdfchat/internal/config"
)

// CustomURLStep asks for the base URL of an OpenAI compatible server.
type CustomURLStep struct {
	input textinput.Model
}

func NewCustomURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = "https://api.example.com"
	ti.Width = 50
	return &CustomURLStep{input: ti}
}

func (s *CustomURLStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *CustomURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.Provider() != config.ProviderCustom {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val != "" {
			state.App.CustomOpenAIBaseURL = strings.TrimRight(val, "/")
			return nil, nil
		}
	}
	return s, cmd
}

func (s *CustomURLStep) View(state *InstallState) string {
	return "Enter Custom OpenAI Base URL:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}

type OllamaURLStep struct {
	input textinput.Model
}

func NewOllamaURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Placeholder = "http://localhost:11434"
	return &OllamaURLStep{input: ti}
}

func (s *OllamaURLStep) Init() tea.Cmd { return nil }

func (s *OllamaURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.Provider() != config.ProviderOllama {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.input.Placeholder
		}
		state.App.OllamaBaseURL = val
		return nil, nil
	}

	return s, cmd
}

func (s *OllamaURLStep) View(state *InstallState) string {
	return "Enter Ollama Base URL:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
