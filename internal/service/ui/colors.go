package ui

import "github.com/charmbracelet/lipgloss"

// ANSI colors only, so the help output follows the terminal theme.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// AnswerStyle frames answers in the interactive chat.
	AnswerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).PaddingLeft(2)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)
