package imagegen

import (
	"fmt"
	"strings"
)

// ProviderFactory creates providers by name
type ProviderFactory struct {
	openaiAPIKey string
	openaiModel  string
	geminiAPIKey string
	geminiModel  string
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(openaiAPIKey, openaiModel, geminiAPIKey, geminiModel string) *ProviderFactory {
	return &ProviderFactory{
		openaiAPIKey: openaiAPIKey,
		openaiModel:  openaiModel,
		geminiAPIKey: geminiAPIKey,
		geminiModel:  geminiModel,
	}
}

// GetProvider returns the provider registered under name. An empty name selects OpenAI.
func (f *ProviderFactory) GetProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", providerNameOpenAI:
		return NewOpenAIProvider(f.openaiAPIKey, f.openaiModel), nil
	case providerNameGemini:
		return NewGeminiProvider(f.geminiAPIKey, f.geminiModel), nil
	default:
		return nil, fmt.Errorf("unknown image provider: %s (allowed: openai, gemini)", name)
	}
}
