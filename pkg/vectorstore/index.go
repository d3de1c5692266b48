package vectorstore

import (
	"context"
	"fmt"

	config "github.com/Adarsh-Naik/tcs-forecast-agent/configs"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
)

const collectionName = "tcs_transcripts"

// Result is one scored chunk returned by a similarity search.
type Result struct {
	Text  string
	Score float32
}

// Index is a semantic search index over transcript chunks. It is constructed
// once by the caller and handed to the transcript analyzer as an explicit
// resource handle.
type Index interface {
	// Add embeds the texts and stores them with the given metadata.
	Add(ctx context.Context, texts []string, metadata map[string]string) error
	// Search returns the topK chunks most similar to the query.
	Search(ctx context.Context, query string, topK int) ([]Result, error)
}

// NewIndex selects the index backend from configuration: the in-process
// chromem store by default, or a Qdrant instance when configured.
func NewIndex(cfg *config.Config, client llm.Client) (Index, error) {
	switch cfg.VectorStore {
	case "", "chromem":
		return NewChromemIndex(client)
	case "qdrant":
		return NewQdrantIndex(client, cfg.QdrantURL, cfg.QdrantAPIKey)
	default:
		return nil, fmt.Errorf("unknown vector store backend: %s", cfg.VectorStore)
	}
}
