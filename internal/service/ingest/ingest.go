package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/index"
	"github.com/sandevgo/pdfchat/pkg/log"
)

// Source is one uploaded document.
type Source struct {
	Name string
	Data []byte
}

type Extractor func(name string, data []byte) ([]core.Page, error)

type Splitter interface {
	Split(pages []core.Page) []core.Segment
}

type StoreFactory func(ctx context.Context) (index.DocStore, error)

// Ingestor turns a batch of PDFs into a fresh semantic index.
type Ingestor struct {
	embedder core.Embedder
	splitter Splitter
	extract  Extractor
	newStore StoreFactory
}

func NewIngestor(embedder core.Embedder, splitter Splitter, extract Extractor, newStore StoreFactory) *Ingestor {
	return &Ingestor{
		embedder: embedder,
		splitter: splitter,
		extract:  extract,
		newStore: newStore,
	}
}

// Ingest extracts, splits, embeds and indexes sources. Documents that cannot
// be read are skipped with a warning; if nothing readable remains the
// result is an IngestionError wrapping core.ErrNoExtractableText.
func (i *Ingestor) Ingest(ctx context.Context, sources []Source) (*index.Index, error) {
	logger := log.FromCtx(ctx)
	start := time.Now()

	var pages []core.Page
	for _, src := range sources {
		docPages, err := i.extract(src.Name, src.Data)
		if err != nil {
			logger.Warn().Err(err).Str("document", src.Name).Msg("skipping unreadable document")
			continue
		}
		if len(docPages) == 0 {
			logger.Warn().Str("document", src.Name).Msg("document has no extractable text")
			continue
		}
		pages = append(pages, docPages...)
	}

	segments := i.splitter.Split(pages)
	if len(segments) == 0 {
		return nil, &core.IngestionError{Op: "extract", Err: core.ErrNoExtractableText}
	}

	store, err := i.newStore(ctx)
	if err != nil {
		return nil, &core.IngestionError{Op: "store", Err: err}
	}

	idx, err := index.Build(ctx, i.embedder, store, segments)
	if err != nil {
		_ = store.Close()
		return nil, &core.IngestionError{Op: "index", Err: err}
	}

	logger.Info().
		Int("documents", len(sources)).
		Int("pages", len(pages)).
		Int("segments", idx.Size()).
		Dur("duration", time.Since(start)).
		Msg("documents ingested")

	return idx, nil
}

// Names lists source names, for logs and replies.
func Names(sources []Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Name
	}
	return out
}

func (s Source) String() string {
	return fmt.Sprintf("%s (%d bytes)", s.Name, len(s.Data))
}
