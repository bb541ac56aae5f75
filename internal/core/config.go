package core

import "time"

type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	GetTemperature() float64
	GetAPIKey() string
	GetBaseURL() string
	GetRequestTimeout() time.Duration
}

type EmbeddingConfig interface {
	GetEmbeddingProvider() string
	GetEmbeddingModel() string
	GetEmbeddingAPIKey() string
	GetEmbeddingBaseURL() string
	GetEmbeddingBatchSize() int
}
