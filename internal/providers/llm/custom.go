package llm

import "time"

// CustomOpenAI talks to any self-hosted server exposing the OpenAI chat API
// (vLLM, llama.cpp server, LM Studio).
type CustomOpenAI struct {
	*OpenAICompatible
}

func NewCustomOpenAI(baseURL, apiKey, model string, temperature float64, timeout time.Duration) *CustomOpenAI {
	return &CustomOpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:     baseURL,
			APIKey:      apiKey,
			Model:       model,
			Temperature: temperature,
			Timeout:     timeout,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
		}),
	}
}
