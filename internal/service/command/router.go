package command

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sandevgo/pdfchat/internal/core"
)

type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	c.commands["help"] = NewHelpCommand(c.ListCommands)
	return c
}

func (c *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	// Telegram appends the bot name in group chats: /history@pdfchat_bot
	name, _, _ = strings.Cut(name, "@")
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s\nSend /help for the list.", name), true
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		return NewResponseFormatter().Error(name, err), true
	}
	return result, true
}

// ListCommands returns the commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	slices.SortFunc(res, func(a, b core.Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return res
}
