//go:build ignore

package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	config "github.com/Adarsh-Naik/tcs-forecast-agent/configs"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/tools"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/vectorstore"
)

// Indexes the transcript directory into the configured vector store ahead of
// time. Useful with the qdrant backend, where the index outlives the server
// process. Run with: go run scripts/ingest_transcripts.go
func main() {
	log.Println("🚀 Starting transcript ingestion...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.LoadConfig()

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	index, err := vectorstore.NewIndex(cfg, llmClient)
	if err != nil {
		log.Fatalf("Failed to initialize vector index: %v", err)
	}

	analyzer := tools.NewTranscriptAnalyzer(llmClient, index)
	if err := analyzer.EnsureIndexed(context.Background(), cfg.TranscriptsDir); err != nil {
		log.Fatalf("Transcript ingestion failed: %v", err)
	}

	log.Printf("✅ Transcripts from %s ingested into the %s index.", cfg.TranscriptsDir, cfg.VectorStore)
}
