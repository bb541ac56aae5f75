package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/pdfchat/internal/providers/llm"
)

const listModelsTimeout = 30 * time.Second

// ModelStep lets the user pick one of the models the provider offers
type ModelStep struct {
	ctx      context.Context
	list     list.Model
	loading  bool
	fetching bool // Ensures we only trigger the API call once
	err      error
}

func NewModelStep(ctx context.Context) Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{
		ctx:     ctx,
		list:    l,
		loading: true,
	}
}

func (s *ModelStep) Init() tea.Cmd {
	return nil
}

func (s *ModelStep) fetch(state *InstallState) tea.Cmd {
	cfg := state.App
	cfg.RequestTimeout = listModelsTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(s.ctx, listModelsTimeout)
		defer cancel()

		p, err := llm.NewProvider(ctx, cfg)
		if err != nil {
			return errMsg(err)
		}
		models, err := p.Models(ctx)
		if err != nil {
			return errMsg(err)
		}
		return modelsMsg(modelItems(models))
	}
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.loading && !s.fetching {
		s.fetching = true
		return s, s.fetch(state)
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case modelsMsg:
		s.list.SetItems(msg)
		s.loading = false
		s.fetching = false
		return s, nil

	case errMsg:
		s.loading = false
		s.fetching = false
		s.err = msg
		return s, nil

	case tea.KeyMsg:
		if s.err != nil {
			switch msg.String() {
			case "enter":
				s.err = nil
				s.loading = true
				return s, nil
			case "s":
				// keep the default model
				return nil, nil
			}
			return s, nil
		}

		if msg.String() == "enter" {
			wasFiltering := s.list.FilterState() == list.Filtering
			s.list, cmd = s.list.Update(msg)

			if wasFiltering || s.list.FilterState() == list.Filtering {
				return s, cmd
			}

			if i, ok := s.list.SelectedItem().(item); ok {
				state.App.Model = i.id
				return nil, nil
			}
			return s, cmd
		}
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error fetching models: %v", s.err)) +
			"\n\nCheck your API key and connection.\n\n(press enter to retry, s to keep the default model, ctrl+c to quit)\n"
	}
	if s.loading {
		return fmt.Sprintf("Fetching models from %s...\n", state.Provider())
	}
	return s.list.View()
}
