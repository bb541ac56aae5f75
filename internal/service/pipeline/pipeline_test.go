package pipeline

import (
	"context"
	"errors"
	"hash/fnv"
	"regexp"
	"strings"
	"testing"
	"unicode"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/index"
	"github.com/sandevgo/pdfchat/internal/service/memory"
	"github.com/sandevgo/pdfchat/internal/service/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	route core.Route
	err   error
	calls int
}

func (s *stubClassifier) Route(context.Context, string, string) (core.Route, error) {
	s.calls++
	return s.route, s.err
}

type stubBooster struct {
	out   string
	err   error
	calls int
}

func (s *stubBooster) Boost(_ context.Context, q, _ string) (string, error) {
	s.calls++
	if s.out == "" && s.err == nil {
		return q, nil
	}
	return s.out, s.err
}

type stubRetriever struct {
	docs    []core.Segment
	err     error
	queries []string
}

func (s *stubRetriever) Retrieve(_ context.Context, q string, _ int) ([]core.Segment, error) {
	s.queries = append(s.queries, q)
	return s.docs, s.err
}

type stubCondenser struct {
	calls int
	err   error
}

func (s *stubCondenser) Condense(_ context.Context, _ string, segs []core.Segment) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "condensed: " + joinSegments(segs), nil
}

type stubGenerator struct {
	withCalls    int
	withoutCalls int
	lastContext  string
	err          error
}

func (s *stubGenerator) WithContext(_ context.Context, q, _, docContext string) (string, error) {
	s.withCalls++
	s.lastContext = docContext
	if s.err != nil {
		return "", s.err
	}
	if docContext == "" {
		return prompt.FallbackAnswer, nil
	}
	return "answer to " + q, nil
}

func (s *stubGenerator) WithoutContext(_ context.Context, q, _ string) (string, error) {
	s.withoutCalls++
	if s.err != nil {
		return "", s.err
	}
	return "chat answer to " + q, nil
}

type fixture struct {
	classifier *stubClassifier
	booster    *stubBooster
	retriever  *stubRetriever
	condenser  *stubCondenser
	generator  *stubGenerator
}

func newFixture() *fixture {
	return &fixture{
		classifier: &stubClassifier{route: core.RouteRetrieve},
		booster:    &stubBooster{},
		retriever:  &stubRetriever{docs: []core.Segment{{ID: "1", Text: "alpha"}, {ID: "2", Text: "beta"}}},
		condenser:  &stubCondenser{},
		generator:  &stubGenerator{},
	}
}

func (f *fixture) pipeline(opts Options) *Pipeline {
	return New(f.classifier, f.booster, f.retriever, f.condenser, f.generator, opts)
}

func TestPipeline_Branches(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(f *fixture)
		opts        Options
		wantTrace   []Stage
		wantRoute   core.Route
		wantContext string
	}{
		{
			name:        "retrieval with every stage",
			opts:        DefaultOptions(),
			wantTrace:   []Stage{StageRouting, StageBoosting, StageRetrieving, StageCondensing, StageGeneratingWithContext, StageDone},
			wantRoute:   core.RouteRetrieve,
			wantContext: "condensed: alpha\n\nbeta",
		},
		{
			name:        "optional stages off",
			opts:        Options{K: 2},
			wantTrace:   []Stage{StageRouting, StageRetrieving, StageGeneratingWithContext, StageDone},
			wantRoute:   core.RouteRetrieve,
			wantContext: "alpha\n\nbeta",
		},
		{
			name:      "memory only",
			setup:     func(f *fixture) { f.classifier.route = core.RouteMemory },
			opts:      DefaultOptions(),
			wantTrace: []Stage{StageRouting, StageGeneratingWithoutContext, StageDone},
			wantRoute: core.RouteMemory,
		},
		{
			name:        "router error fails closed",
			setup:       func(f *fixture) { f.classifier.err = errors.New("timeout") },
			opts:        Options{K: 2},
			wantTrace:   []Stage{StageRouting, StageRetrieving, StageGeneratingWithContext, StageDone},
			wantRoute:   core.RouteRetrieve,
			wantContext: "alpha\n\nbeta",
		},
		{
			name:        "unknown label fails closed",
			setup:       func(f *fixture) { f.classifier.route = "web" },
			opts:        Options{K: 2},
			wantTrace:   []Stage{StageRouting, StageRetrieving, StageGeneratingWithContext, StageDone},
			wantRoute:   core.RouteRetrieve,
			wantContext: "alpha\n\nbeta",
		},
		{
			name:        "empty retrieval skips condensing",
			setup:       func(f *fixture) { f.retriever.docs = nil },
			opts:        DefaultOptions(),
			wantTrace:   []Stage{StageRouting, StageBoosting, StageRetrieving, StageGeneratingWithContext, StageDone},
			wantRoute:   core.RouteRetrieve,
			wantContext: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			res, err := f.pipeline(tt.opts).Run(context.Background(), "question?", memory.New())
			require.NoError(t, err)

			assert.Equal(t, tt.wantTrace, res.Trace)
			assert.Equal(t, tt.wantRoute, res.Route)
			assert.Equal(t, tt.wantContext, res.Context)
			assert.Equal(t, 1, res.Memory.Len())
		})
	}
}

func TestPipeline_BoostedQueryOnlyUsedForSearch(t *testing.T) {
	f := newFixture()
	f.booster.out = "boosted search query"

	res, err := f.pipeline(DefaultOptions()).Run(context.Background(), "original?", memory.New())
	require.NoError(t, err)

	assert.Equal(t, []string{"boosted search query"}, f.retriever.queries)
	assert.Equal(t, "boosted search query", res.SearchQuery)
	assert.Equal(t, "answer to original?", res.Answer)

	last, _ := res.Memory.Last()
	assert.Equal(t, "original?", last.Question)
}

func TestPipeline_FailuresLeaveMemoryUntouched(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *fixture)
		wantStage string
	}{
		{name: "booster", setup: func(f *fixture) { f.booster.err = errors.New("quota") }, wantStage: "boost"},
		{name: "retriever", setup: func(f *fixture) { f.retriever.err = errors.New("embed down") }, wantStage: "retrieve"},
		{name: "condenser", setup: func(f *fixture) { f.condenser.err = errors.New("timeout") }, wantStage: "condense"},
		{name: "generator", setup: func(f *fixture) { f.generator.err = errors.New("500") }, wantStage: "generate"},
		{name: "generator without context", setup: func(f *fixture) {
			f.classifier.route = core.RouteMemory
			f.generator.err = errors.New("500")
		}, wantStage: "generate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			conv := memory.New().Append("earlier", "answer")
			res, err := f.pipeline(DefaultOptions()).Run(context.Background(), "question?", conv)
			require.Error(t, err)

			var genErr *core.GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantStage, genErr.Stage)
			assert.Equal(t, 1, conv.Len())
			assert.Zero(t, res.Memory.Len())
		})
	}
}

func TestPipeline_EmptyQuestion(t *testing.T) {
	_, err := newFixture().pipeline(DefaultOptions()).Run(context.Background(), "   ", memory.New())
	assert.ErrorIs(t, err, core.ErrEmptyQuestion)
}

func TestPipeline_MemoryGrowsOncePerQuestion(t *testing.T) {
	f := newFixture()
	p := f.pipeline(DefaultOptions())

	conv := memory.New()
	questions := []string{"one?", "two?", "three?", "four?"}
	for i, q := range questions {
		if i%2 == 1 {
			f.classifier.route = core.RouteMemory
		} else {
			f.classifier.route = core.RouteRetrieve
		}
		res, err := p.Run(context.Background(), q, conv)
		require.NoError(t, err)
		conv = res.Memory
	}

	assert.Equal(t, len(questions), conv.Len())
	assert.Equal(t, 2, f.generator.withCalls)
	assert.Equal(t, 2, f.generator.withoutCalls)
}

// Scenarios below run the real stages over a scripted model and a real index.

const testDim = 128

type bagEmbedder struct{}

func bag(text string) []float32 {
	v := make([]float32, testDim)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%testDim]++
	}
	return v
}

func (bagEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = bag(t)
	}
	return out, nil
}

func (bagEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return bag(text), nil
}

var emailRe = regexp.MustCompile(`[\w.]+@[\w.]+\w`)

// scriptedModel plays every role: it routes follow-ups to memory, leaves
// queries alone, copies context through the condenser and quotes emails.
type scriptedModel struct {
	generations int
}

func (m *scriptedModel) Chat(_ context.Context, msgs []core.Message, opts ...core.ChatOption) (core.Message, error) {
	o := core.ApplyChatOptions(opts)
	last := msgs[len(msgs)-1].Content
	answer := func(s string) (core.Message, error) {
		return core.Message{Role: core.RoleAssistant, Content: s}, nil
	}

	switch {
	case o.Schema != nil:
		if strings.Contains(strings.ToLower(last), "just ask") {
			return answer(`{"datasource":"memory"}`)
		}
		return answer(`{"datasource":"vectorstore"}`)
	case strings.Contains(last, "search query"):
		q := last[strings.LastIndex(last, "Question: ")+len("Question: "):]
		return answer(q)
	case strings.Contains(last, "Restructure the documents"):
		return answer(last[strings.Index(last, "Documents:"):strings.LastIndex(last, "Question:")])
	case strings.Contains(last, "Context:"):
		m.generations++
		ctxPart := last[strings.Index(last, "Context:"):strings.LastIndex(last, "Question:")]
		if email := emailRe.FindString(ctxPart); email != "" {
			return answer("The contact email is " + email + ".")
		}
		return answer(prompt.FallbackAnswer)
	default:
		m.generations++
		hist := last[strings.Index(last, "Conversation history:"):strings.LastIndex(last, "Question:")]
		if i := strings.Index(hist, "Human: "); i >= 0 {
			prev := strings.SplitN(hist[i+len("Human: "):], "\n", 2)[0]
			return answer("You asked: " + prev)
		}
		return answer(prompt.FallbackAnswer)
	}
}

func realPipeline(t *testing.T, model core.AIProvider, retriever Retriever) *Pipeline {
	t.Helper()
	return New(NewRouter(model), NewBooster(model), retriever, NewCondenser(model), NewGenerator(model), DefaultOptions())
}

type countingRetriever struct {
	inner Retriever
	calls int
}

func (c *countingRetriever) Retrieve(ctx context.Context, q string, k int) ([]core.Segment, error) {
	c.calls++
	return c.inner.Retrieve(ctx, q, k)
}

func contactIndex(t *testing.T) *index.Retriever {
	t.Helper()
	segs := []core.Segment{
		{ID: "s1", Source: "contact.pdf", Page: 1, Text: "For questions about the email list. Contact: jane@example.com"},
		{ID: "s2", Source: "contact.pdf", Page: 1, Text: "Our offices are closed on public holidays."},
	}
	idx, err := index.Build(context.Background(), bagEmbedder{}, index.NewMemoryStore(), segs)
	require.NoError(t, err)
	return index.NewRetriever(idx, bagEmbedder{}, index.DefaultRetrieverOptions())
}

func TestScenario_ContactEmailVerbatim(t *testing.T) {
	model := &scriptedModel{}
	retriever := &countingRetriever{inner: contactIndex(t)}

	res, err := realPipeline(t, model, retriever).Run(context.Background(), "What is the contact email?", memory.New())
	require.NoError(t, err)

	assert.Equal(t, core.RouteRetrieve, res.Route)
	assert.Equal(t, 1, retriever.calls)
	require.NotEmpty(t, res.Documents)
	assert.Equal(t, "s1", res.Documents[0].ID)
	assert.Contains(t, res.Answer, "jane@example.com")
	assert.Equal(t, 1, res.Memory.Len())
}

func TestScenario_FollowUpUsesMemoryOnly(t *testing.T) {
	model := &scriptedModel{}
	retriever := &countingRetriever{inner: contactIndex(t)}
	conv := memory.New().Append("Who wrote Dune?", "Frank Herbert.")

	res, err := realPipeline(t, model, retriever).Run(context.Background(), "What did I just ask?", conv)
	require.NoError(t, err)

	assert.Equal(t, core.RouteMemory, res.Route)
	assert.Zero(t, retriever.calls)
	assert.Contains(t, res.Answer, "Dune")
	assert.Equal(t, 2, res.Memory.Len())
}

func TestScenario_NoMatchingContent(t *testing.T) {
	model := &scriptedModel{}
	retriever := &countingRetriever{inner: contactIndex(t)}

	res, err := realPipeline(t, model, retriever).Run(context.Background(), "Explain quantum chromodynamics", memory.New())
	require.NoError(t, err)

	assert.Empty(t, res.Documents)
	assert.Equal(t, prompt.FallbackAnswer, res.Answer)
	assert.Zero(t, model.generations, "fallback is produced without a model call")

	require.Equal(t, 1, res.Memory.Len())
	last, _ := res.Memory.Last()
	assert.Equal(t, prompt.FallbackAnswer, last.Answer)
}
