package embedding

import "fmt"

func NewProvider(providerType, model, ollamaBaseURL, openaiAPIKey string) (EmbeddingProvider, error) {
	switch providerType {
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, model), nil
	case "openai":
		if openaiAPIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires OPENAI_API_KEY")
		}
		return NewOpenAIProvider(openaiAPIKey, "", model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
