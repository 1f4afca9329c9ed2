package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// NewClient creates an LLM client based on provider configuration. The
// API key is only consulted by providers that need one.
func NewClient(provider, model, baseURL, apiKey string) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(model, baseURL, apiKey)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
