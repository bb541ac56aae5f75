package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/service/memory"
	"github.com/sandevgo/pdfchat/pkg/log"
)

type Stage string

const (
	StageRouting                  Stage = "routing"
	StageBoosting                 Stage = "boosting"
	StageRetrieving               Stage = "retrieving"
	StageCondensing               Stage = "condensing"
	StageGeneratingWithContext    Stage = "generating_with_context"
	StageGeneratingWithoutContext Stage = "generating_without_context"
	StageDone                     Stage = "done"
)

type Classifier interface {
	Route(ctx context.Context, question, history string) (core.Route, error)
}

type Booster interface {
	Boost(ctx context.Context, question, history string) (string, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]core.Segment, error)
}

type Condenser interface {
	Condense(ctx context.Context, question string, segments []core.Segment) (string, error)
}

type Generator interface {
	WithContext(ctx context.Context, question, history, docContext string) (string, error)
	WithoutContext(ctx context.Context, question, history string) (string, error)
}

type Options struct {
	BoostQuestion     bool
	CondenseDocuments bool
	// K is the number of segments to retrieve.
	K int
	// HistoryWindow limits how many recent turns are rendered into prompts; 0 means all.
	HistoryWindow int
}

func DefaultOptions() Options {
	return Options{BoostQuestion: true, CondenseDocuments: true, K: 2}
}

// Result describes one answered question.
type Result struct {
	Answer      string
	Route       core.Route
	SearchQuery string
	Documents   []core.Segment
	Context     string
	Trace       []Stage
	// Memory is the conversation with this turn appended.
	Memory memory.Conversation
}

type Pipeline struct {
	classifier Classifier
	booster    Booster
	retriever  Retriever
	condenser  Condenser
	generator  Generator
	opts       Options
}

func New(
	classifier Classifier,
	booster Booster,
	retriever Retriever,
	condenser Condenser,
	generator Generator,
	opts Options,
) *Pipeline {
	if opts.K <= 0 {
		opts.K = 2
	}
	return &Pipeline{
		classifier: classifier,
		booster:    booster,
		retriever:  retriever,
		condenser:  condenser,
		generator:  generator,
		opts:       opts,
	}
}

// state is the per-question record carried between stages.
type state struct {
	question    string
	history     string
	route       core.Route
	searchQuery string
	documents   []core.Segment
	context     string
	answer      string
	trace       []Stage
}

// Run answers question against conv. conv is read once before routing; on
// success the returned Result.Memory holds conv plus exactly one new turn.
// On error conv is the caller's to keep: nothing was appended.
func (p *Pipeline) Run(ctx context.Context, question string, conv memory.Conversation) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, core.ErrEmptyQuestion
	}

	logger := log.FromCtx(ctx)
	st := &state{
		question: question,
		history:  conv.Render(p.opts.HistoryWindow),
	}

	start := time.Now()
	stage := StageRouting
	for stage != StageDone {
		st.trace = append(st.trace, stage)
		stageStart := time.Now()

		next, err := p.step(ctx, stage, st)
		if err != nil {
			logger.Error().Err(err).Str("stage", string(stage)).Msg("pipeline stage failed")
			return Result{}, err
		}

		logger.Debug().
			Str("stage", string(stage)).
			Dur("duration", time.Since(stageStart)).
			Msg("stage complete")
		stage = next
	}
	st.trace = append(st.trace, StageDone)

	logger.Info().
		Str("route", string(st.route)).
		Int("segments", len(st.documents)).
		Dur("duration", time.Since(start)).
		Msg("question answered")

	return Result{
		Answer:      st.answer,
		Route:       st.route,
		SearchQuery: st.searchQuery,
		Documents:   st.documents,
		Context:     st.context,
		Trace:       st.trace,
		Memory:      conv.Append(question, st.answer),
	}, nil
}

func (p *Pipeline) step(ctx context.Context, stage Stage, st *state) (Stage, error) {
	switch stage {
	case StageRouting:
		return p.routing(ctx, st), nil

	case StageBoosting:
		boosted, err := p.booster.Boost(ctx, st.question, st.history)
		if err != nil {
			return "", &core.GenerationError{Stage: "boost", Err: err}
		}
		st.searchQuery = boosted
		log.FromCtx(ctx).Debug().Str("query", boosted).Msg("question boosted")
		return StageRetrieving, nil

	case StageRetrieving:
		if st.searchQuery == "" {
			st.searchQuery = st.question
		}
		docs, err := p.retriever.Retrieve(ctx, st.searchQuery, p.opts.K)
		if err != nil {
			return "", &core.GenerationError{Stage: "retrieve", Err: err}
		}
		st.documents = docs
		if len(docs) > 0 && p.opts.CondenseDocuments && p.condenser != nil {
			return StageCondensing, nil
		}
		st.context = joinSegments(docs)
		return StageGeneratingWithContext, nil

	case StageCondensing:
		condensed, err := p.condenser.Condense(ctx, st.question, st.documents)
		if err != nil {
			return "", &core.GenerationError{Stage: "condense", Err: err}
		}
		st.context = condensed
		if strings.TrimSpace(condensed) == "" {
			st.context = joinSegments(st.documents)
		}
		return StageGeneratingWithContext, nil

	case StageGeneratingWithContext:
		answer, err := p.generator.WithContext(ctx, st.question, st.history, st.context)
		if err != nil {
			return "", &core.GenerationError{Stage: "generate", Err: err}
		}
		st.answer = answer
		return StageDone, nil

	case StageGeneratingWithoutContext:
		answer, err := p.generator.WithoutContext(ctx, st.question, st.history)
		if err != nil {
			return "", &core.GenerationError{Stage: "generate", Err: err}
		}
		st.answer = answer
		return StageDone, nil
	}

	return "", errors.New("pipeline: unknown stage " + string(stage))
}

// routing never fails: an error or unknown label sends the question to retrieval.
func (p *Pipeline) routing(ctx context.Context, st *state) Stage {
	route, err := p.classifier.Route(ctx, st.question, st.history)
	if err != nil || !route.Valid() {
		log.FromCtx(ctx).Warn().Err(err).Msg("routing failed, falling back to retrieval")
		route = core.RouteRetrieve
	}
	st.route = route

	if route == core.RouteMemory {
		return StageGeneratingWithoutContext
	}
	if p.opts.BoostQuestion && p.booster != nil {
		return StageBoosting
	}
	return StageRetrieving
}

func joinSegments(segments []core.Segment) string {
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}
	return strings.Join(texts, "\n\n")
}
