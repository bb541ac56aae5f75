package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/pdfchat/pkg/log"
)

const (
	DocStoreSQLite = "sqlite"
	DocStoreMemory = "memory"
)

type RAGConfig struct {
	EmbeddingProvider  string `env:"PDFCHAT_EMBEDDING_PROVIDER" envDefault:"openai"`
	EmbeddingModel     string `env:"PDFCHAT_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingAPIKey    string `env:"PDFCHAT_EMBEDDING_API_KEY"`
	EmbeddingBaseURL   string `env:"PDFCHAT_EMBEDDING_BASE_URL"`
	EmbeddingBatchSize int    `env:"PDFCHAT_EMBEDDING_BATCH_SIZE" envDefault:"64"`

	ChunkSize    int    `env:"PDFCHAT_CHUNK_SIZE" envDefault:"300"`
	ChunkOverlap int    `env:"PDFCHAT_CHUNK_OVERLAP" envDefault:"0"`
	Encoding     string `env:"PDFCHAT_TOKENIZER_ENCODING" envDefault:"cl100k_base"`

	TopK           int     `env:"PDFCHAT_RETRIEVER_K" envDefault:"2"`
	FetchK         int     `env:"PDFCHAT_RETRIEVER_FETCH_K" envDefault:"20"`
	LambdaMult     float64 `env:"PDFCHAT_RETRIEVER_LAMBDA" envDefault:"0.5"`
	ScoreThreshold float64 `env:"PDFCHAT_RETRIEVER_SCORE_THRESHOLD" envDefault:"0.2"`

	BoostQuestion     bool `env:"PDFCHAT_BOOST_QUESTION" envDefault:"true"`
	CondenseDocuments bool `env:"PDFCHAT_CONDENSE_DOCUMENTS" envDefault:"true"`

	DocStore string `env:"PDFCHAT_DOC_STORE" envDefault:"sqlite"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	cfg := &RAGConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	return cfg
}

func (c RAGConfig) GetEmbeddingProvider() string {
	return c.EmbeddingProvider
}

func (c RAGConfig) GetEmbeddingModel() string {
	return c.EmbeddingModel
}

func (c RAGConfig) GetEmbeddingAPIKey() string {
	return c.EmbeddingAPIKey
}

func (c RAGConfig) GetEmbeddingBaseURL() string {
	return c.EmbeddingBaseURL
}

func (c RAGConfig) GetEmbeddingBatchSize() int {
	return c.EmbeddingBatchSize
}
