package factory

import (
	"fmt"

	"skintech-consultant-be/pkg/llm"
	"skintech-consultant-be/pkg/llm/ollama"
	"skintech-consultant-be/pkg/llm/openai"
)

// NewLLMProvider returns nil without error when the selected provider has no
// credentials; callers wire the disabled variants of their components instead.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "", "none":
		return nil, nil
	case "openai":
		if apiKey == "" {
			return nil, nil
		}
		return openai.NewProvider(apiKey, baseURL, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
