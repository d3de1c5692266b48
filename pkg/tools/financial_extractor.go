package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/document"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
)

// extractionPrompt asks the model for the metric JSON. Extraction runs at
// temperature 0.0 to keep the numbers deterministic.
const extractionPrompt = `You are a financial analyst expert. Extract key financial metrics from the provided quarterly report text.

Report Text:
%s

Extract the following information and return ONLY a valid JSON object:
{
    "quarter": "Q1/Q2/Q3/Q4",
    "year": 2024,
    "total_revenue": amount in crores,
    "net_profit": amount in crores,
    "operating_margin": percentage,
    "revenue_growth": percentage compared to previous quarter or year,
    "key_highlights": ["highlight1", "highlight2", ...],
    "segment_performance": {"segment_name": "brief description"}
}

If any value is not found, use null. Be precise and extract only factual numbers mentioned in the report.

JSON Output:`

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// FinancialExtractor pulls key metrics out of quarterly report documents
// using the LLM.
type FinancialExtractor struct {
	llm    llm.Client
	loader *document.Loader
}

// NewFinancialExtractor creates the extractor. Reports are chunked at 2000
// characters so the first few chunks carry the financial summary.
func NewFinancialExtractor(client llm.Client) *FinancialExtractor {
	return &FinancialExtractor{
		llm:    client,
		loader: document.NewLoader(2000, 200),
	}
}

// Extract loads a report file or directory and returns the extracted metric
// JSON as text. Infrastructure failures (unreadable path, LLM error) are
// returned as errors; a malformed model reply is salvaged or passed through
// as opaque text.
func (fe *FinancialExtractor) Extract(ctx context.Context, path string) (string, error) {
	chunks, err := fe.loadDocuments(path)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("no documents loaded from %s", path)
	}

	// The first 5 chunks usually contain the financial summary.
	if len(chunks) > 5 {
		chunks = chunks[:5]
	}
	combinedText := strings.Join(chunks, "\n\n")

	result, err := fe.llm.Invoke(ctx, fmt.Sprintf(extractionPrompt, combinedText), 0.0)
	if err != nil {
		return "", fmt.Errorf("financial extraction LLM call failed: %w", err)
	}

	// Validate the reply; the model sometimes wraps the JSON in extra text.
	trimmed := strings.TrimSpace(result)
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
		log.Printf("Successfully extracted metrics: %v", parsed["quarter"])
		pretty, _ := json.MarshalIndent(parsed, "", "  ")
		return string(pretty), nil
	}

	if match := jsonObjectPattern.FindString(result); match != "" {
		return match, nil
	}

	failure, _ := json.Marshal(map[string]string{
		"error": "Failed to parse LLM output",
		"raw":   result,
	})
	return string(failure), nil
}

// loadDocuments handles both a single report file and a directory of
// reports. Directories are tried as PDF first, then text, then spreadsheets.
func (fe *FinancialExtractor) loadDocuments(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("report path not found: %s: %w", path, err)
	}

	if !info.IsDir() {
		return fe.loader.LoadFile(path)
	}

	for _, ext := range []string{".pdf", ".txt", ".xlsx"} {
		chunks, err := fe.loader.LoadDirectory(path, ext)
		if err != nil {
			return nil, err
		}
		if len(chunks) > 0 {
			return chunks, nil
		}
	}
	return nil, nil
}
