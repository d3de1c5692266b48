package vectorstore

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
)

// QdrantIndex stores transcript chunks in a Qdrant instance over gRPC. Use
// it when the transcript corpus should outlive the process.
type QdrantIndex struct {
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	client      llm.Client

	mu      sync.Mutex
	created bool
}

// NewQdrantIndex connects to Qdrant. An API key switches the connection to
// TLS with per-call key metadata (Qdrant Cloud); without one a plain local
// connection is used.
func NewQdrantIndex(client llm.Client, qdrantURL, apiKey string) (*QdrantIndex, error) {
	var dialOpts []grpc.DialOption

	if apiKey != "" {
		log.Println("Connecting to Qdrant Cloud (TLS)...")
		creds := credentials.NewTLS(&tls.Config{})
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(creds))

		authInterceptor := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			ctx = metadata.AppendToOutgoingContext(ctx, "api-key", apiKey)
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		dialOpts = append(dialOpts, grpc.WithUnaryInterceptor(authInterceptor))
	} else {
		log.Println("Connecting to local Qdrant (no TLS)...")
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(qdrantURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant gRPC client: %w", err)
	}

	return &QdrantIndex{
		points:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
		client:      client,
	}, nil
}

// ensureCollection creates the transcript collection on first use. The
// vector size depends on the embedding provider, so it is taken from the
// first embedded chunk.
func (idx *QdrantIndex) ensureCollection(ctx context.Context, vectorSize uint64) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.created {
		return nil
	}

	res, err := idx.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list Qdrant collections: %w", err)
	}
	for _, collection := range res.GetCollections() {
		if collection.GetName() == collectionName {
			idx.created = true
			return nil
		}
	}

	log.Printf("Collection '%s' does not exist, creating it.", collectionName)
	_, err = idx.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     vectorSize,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create Qdrant collection: %w", err)
	}
	idx.created = true
	return nil
}

// Add embeds the texts and upserts them as points with the chunk text and
// metadata in the payload.
func (idx *QdrantIndex) Add(ctx context.Context, texts []string, metadata map[string]string) error {
	points := make([]*qdrant.PointStruct, 0, len(texts))
	for _, text := range texts {
		vector, err := idx.client.Embed(ctx, text)
		if err != nil {
			return fmt.Errorf("failed to embed chunk: %w", err)
		}
		if err := idx.ensureCollection(ctx, uint64(len(vector))); err != nil {
			return err
		}

		payload := make(map[string]*qdrant.Value, len(metadata)+1)
		for key, value := range metadata {
			payload[key] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: value}}
		}
		payload["text"] = &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: text}}

		points = append(points, &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: uuid.New().String()},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: vector},
				},
			},
			Payload: payload,
		})
	}

	if len(points) == 0 {
		return nil
	}

	waitUpsert := true
	_, err := idx.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           &waitUpsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert vectors into Qdrant: %w", err)
	}

	log.Printf("Upserted %d transcript chunks into Qdrant.", len(points))
	return nil
}

// Search embeds the query and returns the topK most similar chunks.
func (idx *QdrantIndex) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	queryVector, err := idx.client.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	withPayload := true
	searchResult, err := idx.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: collectionName,
		Vector:         queryVector,
		Limit:          uint64(topK),
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: withPayload}},
	})
	if err != nil {
		return nil, fmt.Errorf("Qdrant search failed: %w", err)
	}

	var out []Result
	for _, point := range searchResult.GetResult() {
		textPayload, ok := point.Payload["text"]
		if !ok {
			continue
		}
		text, ok := textPayload.GetKind().(*qdrant.Value_StringValue)
		if !ok {
			continue
		}
		out = append(out, Result{Text: text.StringValue, Score: point.Score})
	}
	return out, nil
}
