package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/prompt"
)

func ask(ctx context.Context, llm core.AIProvider, content string) (string, error) {
	msg, err := llm.Chat(ctx, []core.Message{{Role: core.RoleUser, Content: content}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(msg.Content), nil
}

// QuestionBooster rewrites a question into a search query.
type QuestionBooster struct {
	llm core.AIProvider
}

func NewBooster(llm core.AIProvider) *QuestionBooster {
	return &QuestionBooster{llm: llm}
}

// Boost falls back to the original question when the model returns nothing.
func (b *QuestionBooster) Boost(ctx context.Context, question, history string) (string, error) {
	p, err := prompt.Booster(question, history)
	if err != nil {
		return "", fmt.Errorf("render booster prompt: %w", err)
	}
	boosted, err := ask(ctx, b.llm, p)
	if err != nil {
		return "", err
	}
	if boosted == "" {
		return question, nil
	}
	return boosted, nil
}

// DocumentCondenser merges retrieved segments into one short context.
type DocumentCondenser struct {
	llm core.AIProvider
}

func NewCondenser(llm core.AIProvider) *DocumentCondenser {
	return &DocumentCondenser{llm: llm}
}

func (c *DocumentCondenser) Condense(ctx context.Context, question string, segments []core.Segment) (string, error) {
	if len(segments) == 0 {
		return "", nil
	}
	docs := make([]string, len(segments))
	for i, s := range segments {
		docs[i] = s.Text
	}

	p, err := prompt.Condenser(question, docs)
	if err != nil {
		return "", fmt.Errorf("render condenser prompt: %w", err)
	}
	return ask(ctx, c.llm, p)
}

// AnswerGenerator produces the final answer with or without document context.
type AnswerGenerator struct {
	llm core.AIProvider
}

func NewGenerator(llm core.AIProvider) *AnswerGenerator {
	return &AnswerGenerator{llm: llm}
}

// WithContext answers from context only. Empty context yields the fallback
// answer without calling the model.
func (g *AnswerGenerator) WithContext(ctx context.Context, question, history, docContext string) (string, error) {
	if strings.TrimSpace(docContext) == "" {
		return prompt.FallbackAnswer, nil
	}
	p, err := prompt.WithContext(question, history, docContext)
	if err != nil {
		return "", fmt.Errorf("render generation prompt: %w", err)
	}
	return g.answer(ctx, p)
}

func (g *AnswerGenerator) WithoutContext(ctx context.Context, question, history string) (string, error) {
	p, err := prompt.WithoutContext(question, history)
	if err != nil {
		return "", fmt.Errorf("render generation prompt: %w", err)
	}
	return g.answer(ctx, p)
}

func (g *AnswerGenerator) answer(ctx context.Context, p string) (string, error) {
	answer, err := ask(ctx, g.llm, p)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("model returned an empty answer")
	}
	return answer, nil
}
