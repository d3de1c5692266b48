package llm

import (
	"context"

	config "github.com/Adarsh-Naik/tcs-forecast-agent/configs"
)

// Client is the single capability interface the rest of the service uses to
// talk to a language model. Provider-specific response shapes are normalized
// to a plain string behind it.
type Client interface {
	// Invoke sends one prompt and returns the raw completion text.
	Invoke(ctx context.Context, prompt string, temperature float32) (string, error)
	// Embed returns the vector representation of the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Provider returns the provider name ("openai" or "ollama").
	Provider() string
}

// NewClient selects the provider based on configuration: OpenAI when an API
// key is configured, otherwise a local Ollama instance.
func NewClient(cfg *config.Config) (Client, error) {
	if cfg.UseOpenAI() {
		return NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	}
	return NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel)
}
