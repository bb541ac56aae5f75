package installer

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramTokenStep collects the Telegram bot token
type TelegramTokenStep struct {
	input textinput.Model
}

func NewTelegramTokenStep() Step {
	ti := newSecretInput()
	ti.Placeholder = "123456789:ABCDEF..."

	return &TelegramTokenStep{
		input: ti,
	}
}

func (s *TelegramTokenStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramTokenStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.App.EnableTelegram {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if val := strings.TrimSpace(s.input.Value()); val != "" {
			state.Telegram.Token = val
			return nil, nil
		}
	}
	return s, cmd
}

func (s *TelegramTokenStep) View(state *InstallState) string {
	return "Enter your Telegram Bot Token:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}

// TelegramOwnerStep collects the Telegram owner ID
type TelegramOwnerStep struct {
	input   textinput.Model
	invalid bool
}

func NewTelegramOwnerStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 20
	ti.Width = 40
	ti.Placeholder = "123456789"

	return &TelegramOwnerStep{
		input: ti,
	}
}

func (s *TelegramOwnerStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramOwnerStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !state.App.EnableTelegram {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		id, err := strconv.ParseInt(strings.TrimSpace(s.input.Value()), 10, 64)
		if err != nil || id <= 0 {
			s.invalid = true
			return s, cmd
		}
		state.Telegram.OwnerID = id
		return nil, nil
	}
	return s, cmd
}

func (s *TelegramOwnerStep) View(state *InstallState) string {
	hint := ""
	if s.invalid {
		hint = errorStyle.Render("The owner ID is a positive number.") + "\n\n"
	}
	return "Enter your Telegram User ID (Owner):\n\n" +
		hint +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
