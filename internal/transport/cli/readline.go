package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/ui"
	"github.com/sandevgo/pdfchat/pkg/conv"
	"github.com/sandevgo/pdfchat/pkg/log"
)

// Asker answers one question inside a session.
type Asker interface {
	Ask(ctx context.Context, handle, question string) (string, error)
}

type ReadLine struct {
	asker  Asker
	router core.CmdRouter
	handle string
	rl     *readline.Instance
}

func NewReadLine(cfg *config.AppConfig, asker Asker, router core.CmdRouter, handle string) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pdf> ",
		HistoryFile:     filepath.Join(cfg.GetRuntimePath(), "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    commandCompleter(router),
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		asker:  asker,
		router: router,
		handle: handle,
		rl:     rl,
	}, nil
}

func commandCompleter(router core.CmdRouter) readline.AutoCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range router.ListCommands() {
		items = append(items, readline.PcItem("/"+cmd.Name()))
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Str("session", r.handle).Msg("chat started, type /help for commands or 'exit' to quit")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprintln(r.rl.Stdout(), r.respond(ctx, line))
	}
}

// respond runs a slash command or asks the documents, rendering the result
// for the terminal.
func (r *ReadLine) respond(ctx context.Context, line string) string {
	if out, ok := r.router.Execute(ctx, r.handle, line); ok {
		return conv.MarkdownToPlain(out)
	}

	answer, err := r.asker.Ask(ctx, r.handle, line)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("question failed")
		return ui.ErrorStyle.Render(describeError(err))
	}
	return ui.AnswerStyle.Render(conv.MarkdownToPlain(answer))
}

func describeError(err error) string {
	var genErr *core.GenerationError
	switch {
	case errors.Is(err, core.ErrEmptyQuestion):
		return "Please type a question."
	case errors.Is(err, core.ErrSessionNotFound):
		return "The session expired. Restart the chat."
	case errors.As(err, &genErr):
		return fmt.Sprintf("Could not answer (%s step): %v", genErr.Stage, genErr.Err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
