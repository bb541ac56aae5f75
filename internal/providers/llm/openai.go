package llm

import "time"

const openAIBaseURL = "https://api.openai.com"

type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey, model string, temperature float64, timeout time.Duration) *OpenAI {
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:     openAIBaseURL,
			APIKey:      apiKey,
			Model:       model,
			Temperature: temperature,
			Timeout:     timeout,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
		}),
	}
}
