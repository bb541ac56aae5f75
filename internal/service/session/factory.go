package session

import (
	"context"
	"fmt"

	"github.com/sandevgo/pdfchat/internal/config"
	"github.com/sandevgo/pdfchat/internal/core"
	"github.com/sandevgo/pdfchat/internal/index"
	"github.com/sandevgo/pdfchat/internal/providers/llm"
	"github.com/sandevgo/pdfchat/internal/providers/rag"
	"github.com/sandevgo/pdfchat/internal/service/ingest"
	"github.com/sandevgo/pdfchat/internal/service/pipeline"
	"github.com/sandevgo/pdfchat/internal/storage/sqlite"
)

// Credentials override the configured provider settings for one session.
// Empty fields keep the configured value.
type Credentials struct {
	Provider        string
	APIKey          string
	Model           string
	EmbeddingAPIKey string
}

type Ingester interface {
	Ingest(ctx context.Context, sources []ingest.Source) (*index.Index, error)
}

// Components are the collaborators one session is built from.
type Components struct {
	LLM              core.AIProvider
	Embedder         core.Embedder
	Ingester         Ingester
	Options          pipeline.Options
	RetrieverOptions index.RetrieverOptions
}

// NewPipeline wires the answering stages over idx.
func (c *Components) NewPipeline(idx *index.Index) *pipeline.Pipeline {
	var (
		booster   pipeline.Booster
		condenser pipeline.Condenser
	)
	if c.Options.BoostQuestion {
		booster = pipeline.NewBooster(c.LLM)
	}
	if c.Options.CondenseDocuments {
		condenser = pipeline.NewCondenser(c.LLM)
	}

	return pipeline.New(
		pipeline.NewRouter(c.LLM),
		booster,
		index.NewRetriever(idx, c.Embedder, c.RetrieverOptions),
		condenser,
		pipeline.NewGenerator(c.LLM),
		c.Options,
	)
}

type Builder interface {
	Build(ctx context.Context, creds Credentials) (*Components, error)
}

// Factory builds Components from configuration.
type Factory struct {
	app *config.AppConfig
	rag *config.RAGConfig
}

func NewFactory(app *config.AppConfig, rag *config.RAGConfig) *Factory {
	return &Factory{app: app, rag: rag}
}

func (f *Factory) Build(ctx context.Context, creds Credentials) (*Components, error) {
	app := *f.app
	if creds.Provider != "" {
		app.Provider = creds.Provider
	}
	if creds.Model != "" {
		app.Model = creds.Model
	}
	if creds.APIKey != "" {
		app.SetAPIKey(creds.APIKey)
	}

	provider, err := llm.NewProvider(ctx, app)
	if err != nil {
		return nil, err
	}

	ragCfg := *f.rag
	if creds.EmbeddingAPIKey != "" {
		ragCfg.EmbeddingAPIKey = creds.EmbeddingAPIKey
	}
	embedder, err := rag.NewEmbeddingModel(ragCfg, app.OpenAIAPIKey, app.GetRequestTimeout())
	if err != nil {
		return nil, fmt.Errorf("embedding model: %w", err)
	}

	tk, err := rag.NewTiktoken(ragCfg.Encoding)
	if err != nil {
		return nil, err
	}
	splitter := rag.NewRecursiveSplitter(tk, ragCfg.ChunkSize, ragCfg.ChunkOverlap)

	return &Components{
		LLM:      provider,
		Embedder: embedder,
		Ingester: ingest.NewIngestor(embedder, splitter, rag.ExtractPages, storeFactory(ragCfg.DocStore)),
		Options: pipeline.Options{
			BoostQuestion:     ragCfg.BoostQuestion,
			CondenseDocuments: ragCfg.CondenseDocuments,
			K:                 ragCfg.TopK,
			HistoryWindow:     app.ContextWindowSize,
		},
		RetrieverOptions: index.RetrieverOptions{
			FetchK:         ragCfg.FetchK,
			Lambda:         ragCfg.LambdaMult,
			ScoreThreshold: ragCfg.ScoreThreshold,
		},
	}, nil
}

func storeFactory(kind string) ingest.StoreFactory {
	if kind == config.DocStoreMemory {
		return func(context.Context) (index.DocStore, error) {
			return index.NewMemoryStore(), nil
		}
	}
	return func(ctx context.Context) (index.DocStore, error) {
		return sqlite.NewSegmentStore(ctx)
	}
}
