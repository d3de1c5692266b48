package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubLLM returns a canned response and records the last prompt and
// temperature it was invoked with.
type stubLLM struct {
	response string
	err      error

	lastPrompt string
	lastTemp   float32
}

func (s *stubLLM) Invoke(_ context.Context, prompt string, temperature float32) (string, error) {
	s.lastPrompt = prompt
	s.lastTemp = temperature
	return s.response, s.err
}

func (s *stubLLM) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubLLM) Provider() string { return "stub" }

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	return path
}

func TestExtractValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeReport(t, dir, "q2_report.txt", "TCS reported revenue of 62613 crores in Q2 FY25.")

	llm := &stubLLM{response: `{"quarter": "Q2", "year": 2024, "total_revenue": 62613}`}
	extractor := NewFinancialExtractor(llm)

	out, err := extractor.Extract(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, float32(0.0), llm.lastTemp, "extraction must be deterministic")
	assert.Contains(t, llm.lastPrompt, "TCS reported revenue")

	var parsed map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Q2", parsed["quarter"])
	assert.Equal(t, float64(62613), parsed["total_revenue"])
}

func TestExtractSalvagesWrappedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeReport(t, dir, "report.txt", "Quarterly results text.")

	llm := &stubLLM{response: "Here are the metrics:\n{\"quarter\": \"Q3\", \"year\": 2024}\nLet me know if you need more."}
	extractor := NewFinancialExtractor(llm)

	out, err := extractor.Extract(context.Background(), path)
	assert.NoError(t, err)

	var parsed map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "Q3", parsed["quarter"])
}

func TestExtractUnparseableReplyBecomesErrorPayload(t *testing.T) {
	dir := t.TempDir()
	path := writeReport(t, dir, "report.txt", "Quarterly results text.")

	llm := &stubLLM{response: "I could not find any financial figures in the text."}
	extractor := NewFinancialExtractor(llm)

	out, err := extractor.Extract(context.Background(), path)
	assert.NoError(t, err)

	var payload map[string]string
	assert.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Failed to parse LLM output", payload["error"])
	assert.Equal(t, llm.response, payload["raw"])
}

func TestExtractLLMError(t *testing.T) {
	dir := t.TempDir()
	path := writeReport(t, dir, "report.txt", "Quarterly results text.")

	llm := &stubLLM{err: assert.AnError}
	extractor := NewFinancialExtractor(llm)

	_, err := extractor.Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtractMissingPath(t *testing.T) {
	extractor := NewFinancialExtractor(&stubLLM{})

	_, err := extractor.Extract(context.Background(), "/nonexistent/reports")
	assert.Error(t, err)
}

func TestExtractDirectoryFallsBackToText(t *testing.T) {
	dir := t.TempDir()
	// No PDFs present, so the loader should pick up the text report.
	writeReport(t, dir, "fy25_q1.txt", "Revenue grew 5.4% year on year.")

	llm := &stubLLM{response: `{"quarter": "Q1", "year": 2025}`}
	extractor := NewFinancialExtractor(llm)

	out, err := extractor.Extract(context.Background(), dir)
	assert.NoError(t, err)
	assert.Contains(t, llm.lastPrompt, "Revenue grew 5.4%")
	assert.Contains(t, out, "Q1")
}

func TestExtractEmptyDirectory(t *testing.T) {
	extractor := NewFinancialExtractor(&stubLLM{})

	_, err := extractor.Extract(context.Background(), t.TempDir())
	assert.Error(t, err)
}
