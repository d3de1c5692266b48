package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- fakes ---

type fakeLLM struct {
	output    string
	err       error
	invoked   int
	gotPrompt string
	gotTemp   float32
}

func (f *fakeLLM) Invoke(_ context.Context, prompt string, temperature float32) (string, error) {
	f.invoked++
	f.gotPrompt = prompt
	f.gotTemp = temperature
	return f.output, f.err
}

func (f *fakeLLM) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLLM) Provider() string { return "fake" }

type fakeFinancial struct {
	output  string
	err     error
	gotPath string
}

func (f *fakeFinancial) Extract(_ context.Context, path string) (string, error) {
	f.gotPath = path
	return f.output, f.err
}

type fakeTranscripts struct {
	output   string
	err      error
	gotQuery string
}

func (f *fakeTranscripts) Analyze(_ context.Context, query string) (string, error) {
	f.gotQuery = query
	return f.output, f.err
}

type fakeMarket struct {
	output    string
	err       error
	gotSymbol string
}

func (f *fakeMarket) Fetch(_ context.Context, symbol string) (string, error) {
	f.gotSymbol = symbol
	return f.output, f.err
}

func newTestOrchestrator(llmClient *fakeLLM, fin *fakeFinancial, tr *fakeTranscripts, mk *fakeMarket) *Orchestrator {
	return NewOrchestrator(llmClient, fin, tr, mk, "data/reports", "TCS.NS")
}

// --- tests ---

func TestGenerateForecastAllToolsSucceed(t *testing.T) {
	llmClient := &fakeLLM{output: validForecastJSON}
	fin := &fakeFinancial{output: `{"quarter": "Q2", "year": 2024, "total_revenue": 62613.0}`}
	tr := &fakeTranscripts{output: `{"analysis": "positive tone"}`}
	mk := &fakeMarket{output: `{"symbol": "TCS.NS", "current_price": 4012.5}`}

	o := newTestOrchestrator(llmClient, fin, tr, mk)
	result, err := o.GenerateForecast(context.Background(), "Provide an outlook for the next quarter")

	assert.NoError(t, err)
	assert.Equal(t, []string{"financial_data_extractor", "qualitative_analysis", "market_data"}, result.ToolsUsed)
	assert.Equal(t, validForecastJSON, result.RawOutput)
	assert.Equal(t, "Revenue keeps growing.", result.Forecast.Summary)

	// Tool inputs
	assert.Equal(t, "data/reports", fin.gotPath)
	assert.Equal(t, queryOutlook, tr.gotQuery)
	assert.Equal(t, "TCS.NS", mk.gotSymbol)

	// Synthesis call
	assert.Equal(t, 1, llmClient.invoked)
	assert.Equal(t, float32(0.2), llmClient.gotTemp)
	assert.Contains(t, llmClient.gotPrompt, "Financial Data:\n{\"quarter\"")
	assert.Contains(t, llmClient.gotPrompt, "Transcript Analysis:\n{\"analysis\"")
	assert.Contains(t, llmClient.gotPrompt, "Market Data:\n{\"symbol\"")
	assert.Contains(t, llmClient.gotPrompt, `["financial_data_extractor","qualitative_analysis","market_data"]`)

	// Structured metrics were recovered from the extraction output.
	assert.NotNil(t, result.Metrics)
	assert.Equal(t, "Q2", result.Metrics.Quarter)
	assert.Equal(t, 2024, result.Metrics.Year)
}

func TestGenerateForecastAllToolsFail(t *testing.T) {
	llmClient := &fakeLLM{output: "I cannot comply."}
	fin := &fakeFinancial{err: errors.New("no documents loaded")}
	tr := &fakeTranscripts{err: errors.New("no transcripts loaded")}
	mk := &fakeMarket{err: errors.New("connection refused")}

	o := newTestOrchestrator(llmClient, fin, tr, mk)
	result, err := o.GenerateForecast(context.Background(), "Summarize the themes")

	assert.NoError(t, err, "tool failures must not abort the pipeline")
	assert.Empty(t, result.ToolsUsed)
	assert.Nil(t, result.Metrics)

	// The model is still invoked, with placeholder context for all three.
	assert.Equal(t, 1, llmClient.invoked)
	assert.Contains(t, llmClient.gotPrompt, "Financial Data: Not available - no documents loaded")
	assert.Contains(t, llmClient.gotPrompt, "Transcript Analysis: Not available - no transcripts loaded")
	assert.Contains(t, llmClient.gotPrompt, "Market Data: Not available - connection refused")
	assert.Contains(t, llmClient.gotPrompt, `"data_sources_used": []`)

	// No braces in the raw output, so the fallback record is returned with
	// the raw text preserved verbatim.
	assert.Equal(t, "I cannot comply.", result.RawOutput)
	assert.Equal(t, "I cannot comply.", result.Forecast.QuarterlyForecast)
}

func TestGenerateForecastPartialToolFailure(t *testing.T) {
	llmClient := &fakeLLM{output: validForecastJSON}
	fin := &fakeFinancial{err: errors.New("report path not found")}
	tr := &fakeTranscripts{output: "management sounded upbeat"}
	mk := &fakeMarket{output: `{"symbol": "TCS.NS"}`}

	o := newTestOrchestrator(llmClient, fin, tr, mk)
	result, err := o.GenerateForecast(context.Background(), "Summarize the themes")

	assert.NoError(t, err)
	assert.Equal(t, []string{"qualitative_analysis", "market_data"}, result.ToolsUsed)
	assert.Contains(t, llmClient.gotPrompt, "Financial Data: Not available - report path not found")
	assert.Contains(t, llmClient.gotPrompt, "Transcript Analysis:\nmanagement sounded upbeat")
}

func TestGenerateForecastSynthesisFailureIsFatal(t *testing.T) {
	llmClient := &fakeLLM{err: errors.New("model unavailable")}
	fin := &fakeFinancial{output: "{}"}
	tr := &fakeTranscripts{output: "{}"}
	mk := &fakeMarket{output: "{}"}

	o := newTestOrchestrator(llmClient, fin, tr, mk)
	result, err := o.GenerateForecast(context.Background(), "Summarize the themes")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestTranscriptQuerySelection(t *testing.T) {
	o := newTestOrchestrator(&fakeLLM{}, &fakeFinancial{}, &fakeTranscripts{}, &fakeMarket{})

	tests := []struct {
		name string
		task string
		want string
	}{
		{"ai keyword", "How is AI adoption going?", queryAI},
		{"artificial intelligence keyword", "Impact of artificial intelligence on margins", queryAI},
		{"outlook keyword", "Provide the outlook for Q4", queryOutlook},
		{"forecast keyword", "Give me a revenue forecast", queryOutlook},
		{"risk keyword", "What is the biggest risk this year?", queryRisks},
		{"no keyword", "Summarize the key themes for next quarter", queryGeneric},
		// "ai" wins over "outlook" because the rules short-circuit in
		// priority order.
		{"ai beats outlook", "Analyze AI-driven growth outlook for TCS", queryAI},
		{"case insensitive", "WHAT IS THE OUTLOOK?", queryOutlook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.transcriptQuery(tt.task))
		})
	}
}

func TestTranscriptQueryOutlookTemplateVerbatim(t *testing.T) {
	o := newTestOrchestrator(&fakeLLM{}, &fakeFinancial{}, &fakeTranscripts{}, &fakeMarket{})

	got := o.transcriptQuery("What is the outlook?")
	assert.Equal(t, "What is management's forward-looking guidance and outlook?", got)
}
