package command

import (
	"context"

	"github.com/sandevgo/pdfchat/internal/core"
)

type ModelCommand struct {
	cfg       core.ProviderConfig
	formatter *ResponseFormatter
}

func NewModelCommand(cfg core.ProviderConfig) *ModelCommand {
	return &ModelCommand{
		cfg:       cfg,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Show the configured model"
}

func (c *ModelCommand) Execute(_ context.Context, _ string, _ []string) (string, error) {
	return c.formatter.Combine(
		c.formatter.Info("Current Model"),
		c.formatter.Label("Provider", c.cfg.GetProvider()),
		c.formatter.Label("Model", c.cfg.GetModel()),
		c.formatter.Tip("Run `pdfchat install` to change it"),
	), nil
}

type HelpCommand struct {
	list      func() []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(list func() []core.Command) *HelpCommand {
	return &HelpCommand{list: list, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(_ context.Context, _ string, _ []string) (string, error) {
	cmds := c.list()
	items := make([]string, len(cmds))
	for i, cmd := range cmds {
		items[i] = "**/" + cmd.Name() + "**  " + cmd.Description()
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("Anything else is a question about your documents"),
	), nil
}
