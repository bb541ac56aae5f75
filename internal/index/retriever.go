package index

import (
	"context"
	"fmt"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/pkg/log"
)

const (
	DefaultK              = 2
	DefaultFetchK         = 20
	DefaultLambda         = 0.5
	DefaultScoreThreshold = 0.2
)

type RetrieverOptions struct {
	FetchK         int
	Lambda         float64
	ScoreThreshold float64
}

func DefaultRetrieverOptions() RetrieverOptions {
	return RetrieverOptions{
		FetchK:         DefaultFetchK,
		Lambda:         DefaultLambda,
		ScoreThreshold: DefaultScoreThreshold,
	}
}

// Retriever runs diversity-aware similarity search over an Index.
type Retriever struct {
	index    *Index
	embedder core.Embedder
	opts     RetrieverOptions
}

func NewRetriever(idx *Index, embedder core.Embedder, opts RetrieverOptions) *Retriever {
	if opts.FetchK <= 0 {
		opts.FetchK = DefaultFetchK
	}
	if opts.Lambda < 0 || opts.Lambda > 1 {
		opts.Lambda = DefaultLambda
	}
	return &Retriever{index: idx, embedder: embedder, opts: opts}
}

func (r *Retriever) Index() *Index {
	return r.index
}

// Retrieve returns at most k segments for query. Candidates scoring under
// the relevance threshold are dropped first, so an empty result is normal.
// Only a failure to embed the query is an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]core.Segment, error) {
	if k <= 0 {
		k = DefaultK
	}
	if r.index.Size() == 0 {
		return nil, nil
	}

	qv, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qv) != r.index.Dimension() {
		return nil, fmt.Errorf("embed query: dimension %d, index has %d", len(qv), r.index.Dimension())
	}
	qv = normalize(qv)

	candidates := r.index.nearest(qv, max(r.opts.FetchK, k))
	relevant := candidates[:0:0]
	for _, c := range candidates {
		if c.score >= r.opts.ScoreThreshold {
			relevant = append(relevant, c)
		}
	}
	if len(relevant) == 0 {
		log.FromCtx(ctx).Debug().Int("candidates", len(candidates)).Msg("no segment above relevance threshold")
		return nil, nil
	}

	ids := make([]string, len(relevant))
	for i, c := range relevant {
		ids[i] = r.index.ids[c.pos]
	}
	segs, err := r.index.store.Get(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}

	// identical text under different ids would waste a slot
	seen := make(map[string]bool, len(segs))
	unique := relevant[:0:0]
	byPos := make(map[int]core.Segment, len(segs))
	for i, seg := range segs {
		if seen[seg.Text] {
			continue
		}
		seen[seg.Text] = true
		unique = append(unique, relevant[i])
		byPos[relevant[i].pos] = seg
	}

	picked := mmr(r.index.vectors, unique, k, r.opts.Lambda)
	out := make([]core.Segment, len(picked))
	for i, p := range picked {
		out[i] = byPos[p.pos]
	}

	log.FromCtx(ctx).Debug().
		Int("candidates", len(candidates)).
		Int("relevant", len(relevant)).
		Int("segments", len(out)).
		Msg("retrieved")

	return out, nil
}
