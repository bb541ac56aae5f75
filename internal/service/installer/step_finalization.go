package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pdfchat/internal/config"
)

// FinalizationStep drops answers that do not apply to the chosen setup
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return nil
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.App.EnableTelegram {
		state.Telegram = config.TelegramConfig{}
	}
	if state.Provider() != config.ProviderOllama {
		state.App.OllamaBaseURL = ""
	}
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}
