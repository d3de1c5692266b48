package vectorstore

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
)

// ChromemIndex is an in-process vector index. It keeps everything in memory
// for the lifetime of the handle, which matches the per-deployment transcript
// corpus this service works with.
type ChromemIndex struct {
	collection *chromem.Collection
	count      atomic.Int64
}

// NewChromemIndex creates the transcript collection with an embedding
// function that delegates to the configured LLM provider.
func NewChromemIndex(client llm.Client) (*ChromemIndex, error) {
	db := chromem.NewDB()
	embed := func(ctx context.Context, text string) ([]float32, error) {
		return client.Embed(ctx, text)
	}
	collection, err := db.CreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create chromem collection: %w", err)
	}
	return &ChromemIndex{collection: collection}, nil
}

// Add embeds and stores the given texts.
func (idx *ChromemIndex) Add(ctx context.Context, texts []string, metadata map[string]string) error {
	for _, text := range texts {
		doc := chromem.Document{
			ID:       uuid.New().String(),
			Content:  text,
			Metadata: metadata,
		}
		if err := idx.collection.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to add document to chromem: %w", err)
		}
		idx.count.Add(1)
	}
	return nil
}

// Search returns the topK most similar chunks. chromem rejects queries
// asking for more results than stored documents, so topK is clamped.
func (idx *ChromemIndex) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	stored := int(idx.count.Load())
	if stored == 0 {
		return nil, nil
	}
	if topK > stored {
		topK = stored
	}

	results, err := idx.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query failed: %w", err)
	}

	out := make([]Result, 0, len(results))
	for _, res := range results {
		out = append(out, Result{Text: res.Content, Score: res.Similarity})
	}
	return out, nil
}
