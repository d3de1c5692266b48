package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaClient talks to a local Ollama instance. It is the default provider
// when no OpenAI API key is configured.
type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient creates a client against the given Ollama base URL
// (e.g. http://localhost:11434).
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL %q: %w", baseURL, err)
	}
	return &OllamaClient{
		client: api.NewClient(u, http.DefaultClient),
		model:  model,
	}, nil
}

// Invoke sends one prompt and returns the full (non-streamed) completion.
func (c *OllamaClient) Invoke(ctx context.Context, prompt string, temperature float32) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": temperature,
		},
	}

	var output strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		output.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama generate failed: %w", err)
	}
	return output.String(), nil
}

// Embed generates the vector representation of a text using the same model.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  c.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("Ollama embeddings failed: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("Ollama returned no embedding data")
	}

	vector := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Provider returns "ollama".
func (c *OllamaClient) Provider() string {
	return "ollama"
}
