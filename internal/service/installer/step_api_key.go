package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pdfchat/internal/config"
)

// APIKeyStep collects the key of the selected provider (optional for Ollama)
type APIKeyStep struct {
	input      textinput.Model
	provider   string
	title      string
	isOptional bool
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) initProvider(state *InstallState) bool {
	s.provider = state.Provider()

	s.input = newSecretInput()
	switch s.provider {
	case config.ProviderAnthropic:
		s.title = "Anthropic API Key"
		s.input.Placeholder = "sk-ant-..."
	case config.ProviderOpenAI:
		s.title = "OpenAI API Key"
		s.input.Placeholder = "sk-..."
	case config.ProviderOpenRouter:
		s.title = "OpenRouter API Key"
		s.input.Placeholder = "sk-or-v1-..."
	case config.ProviderOllama:
		s.title = "Ollama API Key"
		s.isOptional = true
		s.input.Placeholder = "Optional - press Enter to skip"
		s.input.EchoMode = textinput.EchoNormal
	case config.ProviderCustom:
		s.title = "API Key"
		s.isOptional = true
		s.input.Placeholder = "Optional - press Enter to skip"
	default:
		s.provider = ""
		return false
	}
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.provider == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && !s.isOptional {
			return s, cmd
		}
		state.App.SetAPIKey(val)
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if s.provider == "" {
		return "Loading..."
	}

	optionalHint := ""
	if s.isOptional {
		optionalHint = " (optional - press Enter to skip)"
	}

	return fmt.Sprintf("Enter your %s%s:\n\n%s\n\n(press enter to confirm)\n",
		s.title, optionalHint, s.input.View())
}

// EmbeddingStep picks where document embeddings come from. Ollama setups
// embed locally, OpenAI setups reuse the chat key, everyone else is asked
// for an OpenAI key.
type EmbeddingStep struct {
	input textinput.Model
}

func NewEmbeddingStep() Step {
	ti := newSecretInput()
	ti.Placeholder = "sk-..."
	return &EmbeddingStep{input: ti}
}

func (s *EmbeddingStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *EmbeddingStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch state.Provider() {
	case config.ProviderOpenAI:
		return nil, nil
	case config.ProviderOllama:
		state.RAG.EmbeddingProvider = config.ProviderOllama
		state.RAG.EmbeddingModel = "nomic-embed-text"
		state.RAG.EmbeddingBaseURL = state.App.OllamaBaseURL
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if val := strings.TrimSpace(s.input.Value()); val != "" {
			state.RAG.EmbeddingAPIKey = val
			return nil, nil
		}
	}
	return s, cmd
}

func (s *EmbeddingStep) View(state *InstallState) string {
	return "Documents are embedded with OpenAI. Enter an OpenAI API Key:\n\n" +
		s.input.View() + "\n\n(press enter to confirm)\n"
}

func newSecretInput() textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return ti
}
