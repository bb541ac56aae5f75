package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

const (
	channelTerminal = "terminal"
	channelTelegram = "telegram"
)

// ChannelStep decides whether `pdfchat start` also runs the Telegram bot
type ChannelStep struct {
	choices []choice
	cursor  int
}

func NewChannelStep() Step {
	return &ChannelStep{
		choices: []choice{
			{"Terminal only", channelTerminal},
			{"Terminal and Telegram", channelTelegram},
		},
	}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
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
			state.App.EnableTelegram = s.choices[s.cursor].value == channelTelegram
			return nil, nil
		}
	}
	return s, nil
}

func (s *ChannelStep) View(state *InstallState) string {
	return renderChoices("Where do you want to chat?", s.choices, s.cursor)
}
