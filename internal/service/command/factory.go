package command

import (
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/session"
)

// Sessions resolves a handle to a live session.
type Sessions interface {
	Get(handle string) (*session.Session, error)
}

func NewCommands(cfg core.ProviderConfig, sessions Sessions) []core.Command {
	return []core.Command{
		NewHistoryCommand(sessions),
		NewResetCommand(sessions),
		NewSourcesCommand(sessions),
		NewTraceCommand(sessions),
		NewLoadCommand(sessions),
		NewModelCommand(cfg),
	}
}
