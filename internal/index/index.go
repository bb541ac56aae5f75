package index

import (
	"context"
	"fmt"
	"math"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/pkg/log"
)

// Index is a read-only semantic index over the segments of one ingestion.
// Vectors are unit length, so cosine similarity is a dot product.
type Index struct {
	ids     []string
	vectors [][]float32
	dim     int
	store   DocStore
}

// Build embeds segments and records them in store. The index takes
// ownership of store and closes it on Close.
func Build(ctx context.Context, embedder core.Embedder, store DocStore, segments []core.Segment) (*Index, error) {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed segments: %w", err)
	}
	if len(vectors) != len(segments) {
		return nil, fmt.Errorf("embed segments: got %d vectors for %d segments", len(vectors), len(segments))
	}

	idx := &Index{
		ids:     make([]string, len(segments)),
		vectors: make([][]float32, len(segments)),
		store:   store,
	}
	for i, v := range vectors {
		if i == 0 {
			idx.dim = len(v)
		}
		if len(v) == 0 || len(v) != idx.dim {
			return nil, fmt.Errorf("embed segments: vector %d has dimension %d, want %d", i, len(v), idx.dim)
		}
		idx.ids[i] = segments[i].ID
		idx.vectors[i] = normalize(v)
	}

	if err := store.Put(ctx, segments); err != nil {
		return nil, fmt.Errorf("store segments: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Int("segments", len(segments)).
		Int("dim", idx.dim).
		Msg("index built")

	return idx, nil
}

func (x *Index) Size() int {
	return len(x.ids)
}

func (x *Index) Dimension() int {
	return x.dim
}

// Segments returns all indexed segments in ingestion order.
func (x *Index) Segments(ctx context.Context) ([]core.Segment, error) {
	return x.store.All(ctx)
}

func (x *Index) Close() error {
	return x.store.Close()
}

type scored struct {
	pos   int
	score float64
}

// nearest returns up to n positions ordered by similarity to the unit vector q.
func (x *Index) nearest(q []float32, n int) []scored {
	all := make([]scored, len(x.vectors))
	for i, v := range x.vectors {
		all[i] = scored{pos: i, score: dot(q, v)}
	}
	sortByScore(all)
	if n < len(all) {
		all = all[:n]
	}
	return all
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
