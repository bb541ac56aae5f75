package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pdfchat/internal/config"
)

type choice struct {
	label string
	value string
}

// ProviderStep allows selection of the chat model provider
type ProviderStep struct {
	choices []choice
	cursor  int
}

func NewProviderStep() Step {
	return &ProviderStep{
		choices: []choice{
			{"OpenAI", config.ProviderOpenAI},
			{"Anthropic", config.ProviderAnthropic},
			{"OpenRouter", config.ProviderOpenRouter},
			{"Ollama", config.ProviderOllama},
			{"Custom (OpenAI compatible)", config.ProviderCustom},
		},
	}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.App.Provider = s.choices[s.cursor].value
			return nil, nil
		}
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	return renderChoices("Select your AI Provider:", s.choices, s.cursor)
}

func renderChoices(title string, choices []choice, cursor int) string {
	var b strings.Builder
	b.WriteString(title + "\n\n")
	for i, c := range choices {
		if cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
