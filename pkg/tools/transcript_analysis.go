package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/document"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/vectorstore"
)

// transcriptTopK is the number of transcript chunks retrieved per query.
const transcriptTopK = 4

// TranscriptAnalyzer answers qualitative queries against earnings call
// transcripts using retrieval-augmented generation. The vector index is an
// explicit handle owned by the caller, so there is no hidden process-wide
// state and no test-order dependence.
type TranscriptAnalyzer struct {
	llm    llm.Client
	index  vectorstore.Index
	loader *document.Loader

	mu      sync.RWMutex
	indexed bool
}

// NewTranscriptAnalyzer creates the analyzer. Transcripts are chunked at
// 1000 characters with 150 overlap for retrieval granularity.
func NewTranscriptAnalyzer(client llm.Client, index vectorstore.Index) *TranscriptAnalyzer {
	return &TranscriptAnalyzer{
		llm:    client,
		index:  index,
		loader: document.NewLoader(1000, 150),
	}
}

// EnsureIndexed loads the transcript directory into the vector index. It is
// called once at startup; calling it again re-indexes additively.
func (ta *TranscriptAnalyzer) EnsureIndexed(ctx context.Context, transcriptsDir string) error {
	chunks, err := ta.loader.LoadDirectory(transcriptsDir, ".txt")
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		// Some deployments ship transcripts as PDFs.
		chunks, err = ta.loader.LoadDirectory(transcriptsDir, ".pdf")
		if err != nil {
			return err
		}
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no transcripts found in %s", transcriptsDir)
	}

	if err := ta.index.Add(ctx, chunks, map[string]string{"source": transcriptsDir}); err != nil {
		return fmt.Errorf("failed to index transcripts: %w", err)
	}

	ta.mu.Lock()
	ta.indexed = true
	ta.mu.Unlock()
	log.Printf("Indexed %d transcript chunks from %s", len(chunks), transcriptsDir)
	return nil
}

// Analyze retrieves the most relevant transcript chunks for the query and
// asks the LLM for a qualitative analysis of them.
func (ta *TranscriptAnalyzer) Analyze(ctx context.Context, query string) (string, error) {
	ta.mu.RLock()
	ready := ta.indexed
	ta.mu.RUnlock()
	if !ready {
		return "", fmt.Errorf("no transcripts loaded, add transcript files to the transcripts directory")
	}

	results, err := ta.index.Search(ctx, query, transcriptTopK)
	if err != nil {
		return "", fmt.Errorf("transcript search failed: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no relevant transcript passages found")
	}

	var excerpts strings.Builder
	for i, res := range results {
		excerpts.WriteString(fmt.Sprintf("Excerpt %d:\n%s\n\n", i+1, res.Text))
	}

	prompt := fmt.Sprintf(`Based on the earnings call transcripts, answer this query:
%s

Transcript excerpts:
%s
Provide:
1. Direct quotes or paraphrased statements from management
2. Overall sentiment (positive/negative/neutral)
3. Key themes and strategic focus areas
4. Any risks or opportunities mentioned

Format as JSON.`, query, excerpts.String())

	result, err := ta.llm.Invoke(ctx, prompt, 0.3)
	if err != nil {
		return "", fmt.Errorf("transcript analysis LLM call failed: %w", err)
	}

	// Pass valid JSON through, otherwise wrap the analysis text.
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(result)), &parsed); err == nil {
		pretty, _ := json.MarshalIndent(parsed, "", "  ")
		return string(pretty), nil
	}

	wrapped, _ := json.MarshalIndent(map[string]string{
		"query":    query,
		"analysis": result,
		"source":   "earnings_transcripts",
	}, "", "  ")
	return string(wrapped), nil
}
