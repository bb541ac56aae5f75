package memory

import (
	"strings"

	"github.com/sandevgo/pdfchat/internal/core"
)

const (
	humanPrefix = "Human: "
	aiPrefix    = "AI: "
)

// Conversation is an append-only log of answered questions. It is a value:
// Append returns a new Conversation and never changes the receiver, so a
// failed turn can simply drop the result.
type Conversation struct {
	turns []core.Turn
}

func New() Conversation {
	return Conversation{}
}

// FromTurns copies turns into a new Conversation.
func FromTurns(turns []core.Turn) Conversation {
	return Conversation{turns: append([]core.Turn(nil), turns...)}
}

func (c Conversation) Append(question, answer string) Conversation {
	next := make([]core.Turn, len(c.turns), len(c.turns)+1)
	copy(next, c.turns)
	return Conversation{turns: append(next, core.Turn{Question: question, Answer: answer})}
}

func (c Conversation) Len() int {
	return len(c.turns)
}

func (c Conversation) Turns() []core.Turn {
	return append([]core.Turn(nil), c.turns...)
}

func (c Conversation) Last() (core.Turn, bool) {
	if len(c.turns) == 0 {
		return core.Turn{}, false
	}
	return c.turns[len(c.turns)-1], true
}

// Render flattens the last window turns (all when window <= 0) into
// "Human:/AI:" lines. An empty conversation renders as "".
func (c Conversation) Render(window int) string {
	turns := c.turns
	if window > 0 && len(turns) > window {
		turns = turns[len(turns)-window:]
	}

	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(humanPrefix)
		b.WriteString(t.Question)
		b.WriteByte('\n')
		b.WriteString(aiPrefix)
		b.WriteString(t.Answer)
	}
	return b.String()
}
