package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pdfchat/internal/providers/rag"
)

type tokenizerReadyMsg struct{}

// TokenizerStep loads the BPE vocabulary once so the first chat does not
// stall on the download.
type TokenizerStep struct {
	spinner spinner.Model
	err     error
}

func NewTokenizerStep() Step {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle
	return &TokenizerStep{spinner: sp}
}

func (s *TokenizerStep) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		if _, err := rag.NewTiktoken(rag.DefaultEncoding); err != nil {
			return errMsg(err)
		}
		return tokenizerReadyMsg{}
	})
}

func (s *TokenizerStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tokenizerReadyMsg:
		return nil, nil
	case errMsg:
		s.err = msg
		return s, nil
	case tea.KeyMsg:
		// The vocabulary is fetched again on first use.
		if s.err != nil && msg.String() == "enter" {
			return nil, nil
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *TokenizerStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Tokenizer download failed: %v", s.err)) +
			"\n\n(press enter to continue anyway, ctrl+c to quit)\n"
	}
	return s.spinner.View() + " Preparing the " + rag.DefaultEncoding + " tokenizer...\n"
}
