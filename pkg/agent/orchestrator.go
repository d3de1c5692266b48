package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/models"
)

// Tool identifiers recorded in tools_used for observability.
const (
	toolFinancialExtractor  = "financial_data_extractor"
	toolQualitativeAnalysis = "qualitative_analysis"
	toolMarketData          = "market_data"
)

// FinancialTool extracts metrics from quarterly reports.
type FinancialTool interface {
	Extract(ctx context.Context, path string) (string, error)
}

// TranscriptTool analyzes earnings call transcripts for a query.
type TranscriptTool interface {
	Analyze(ctx context.Context, query string) (string, error)
}

// MarketTool fetches a market snapshot for a ticker symbol.
type MarketTool interface {
	Fetch(ctx context.Context, symbol string) (string, error)
}

// Result is what one forecast run returns to the caller. RawOutput is the
// unmodified model text, kept for observability even when recovery fell back
// to the default record. Metrics is set when the financial extraction
// produced cleanly structured numbers.
type Result struct {
	Forecast  models.ForecastOutput
	ToolsUsed []string
	RawOutput string
	Metrics   *models.FinancialMetrics
}

// Orchestrator coordinates the data-gathering tools and the synthesis LLM
// call. It runs a fixed sequential pipeline: financial extraction,
// transcript analysis, market data, then one synthesis invocation. Each tool
// step tolerates failure; only the synthesis step is fatal.
type Orchestrator struct {
	llm          llm.Client
	financial    FinancialTool
	transcripts  TranscriptTool
	market       MarketTool
	reportsDir   string
	marketSymbol string
}

// NewOrchestrator wires the orchestrator with its tools. reportsDir is the
// input for the financial extractor; marketSymbol is the fixed ticker for
// market data (single-company system).
func NewOrchestrator(client llm.Client, financial FinancialTool, transcripts TranscriptTool, market MarketTool, reportsDir, marketSymbol string) *Orchestrator {
	return &Orchestrator{
		llm:          client,
		financial:    financial,
		transcripts:  transcripts,
		market:       market,
		reportsDir:   reportsDir,
		marketSymbol: marketSymbol,
	}
}

// GenerateForecast runs the full pipeline for one task. Tool failures are
// converted to placeholder context text and never abort the run; an error is
// returned only when the synthesis call itself fails, since no partial
// result is meaningful without a model response.
func (o *Orchestrator) GenerateForecast(ctx context.Context, task string) (*Result, error) {
	log.Printf("Starting forecast generation: %s", task)

	toolsUsed := []string{}
	var toolOutputs []string
	var metrics *models.FinancialMetrics

	// Step 1: extract financial data
	log.Println("Step 1: Extracting financial data...")
	if financialData, err := o.financial.Extract(ctx, o.reportsDir); err != nil {
		log.Printf("Financial extraction failed: %v", err)
		toolOutputs = append(toolOutputs, fmt.Sprintf("Financial Data: Not available - %s", err.Error()))
	} else {
		toolOutputs = append(toolOutputs, fmt.Sprintf("Financial Data:\n%s", financialData))
		toolsUsed = append(toolsUsed, toolFinancialExtractor)
		if m, ok := models.ParseFinancialMetrics(financialData); ok {
			metrics = m
		}
		log.Println("✅ Financial data extracted")
	}

	// Step 2: analyze transcripts
	log.Println("Step 2: Analyzing earnings transcripts...")
	transcriptQuery := o.transcriptQuery(task)
	if transcriptAnalysis, err := o.transcripts.Analyze(ctx, transcriptQuery); err != nil {
		log.Printf("Transcript analysis failed: %v", err)
		toolOutputs = append(toolOutputs, fmt.Sprintf("Transcript Analysis: Not available - %s", err.Error()))
	} else {
		toolOutputs = append(toolOutputs, fmt.Sprintf("Transcript Analysis:\n%s", transcriptAnalysis))
		toolsUsed = append(toolsUsed, toolQualitativeAnalysis)
		log.Println("✅ Transcripts analyzed")
	}

	// Step 3: get market data (optional)
	log.Println("Step 3: Fetching market data...")
	if marketData, err := o.market.Fetch(ctx, o.marketSymbol); err != nil {
		log.Printf("Market data fetch failed: %v", err)
		toolOutputs = append(toolOutputs, fmt.Sprintf("Market Data: Not available - %s", err.Error()))
	} else {
		toolOutputs = append(toolOutputs, fmt.Sprintf("Market Data:\n%s", marketData))
		toolsUsed = append(toolsUsed, toolMarketData)
		log.Println("✅ Market data fetched")
	}

	// Step 4: synthesize with LLM
	log.Println("Step 4: Synthesizing forecast with LLM...")
	combinedData := strings.Join(toolOutputs, "\n\n")
	toolsJSON, err := json.Marshal(toolsUsed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tools list: %w", err)
	}
	prompt := fmt.Sprintf(synthesisPromptTemplate, task, combinedData, string(toolsJSON))

	outputText, err := o.llm.Invoke(ctx, prompt, 0.2)
	if err != nil {
		return nil, fmt.Errorf("forecast synthesis failed: %w", err)
	}
	log.Println("✅ LLM synthesis complete")

	return &Result{
		Forecast:  ExtractForecast(outputText),
		ToolsUsed: toolsUsed,
		RawOutput: outputText,
		Metrics:   metrics,
	}, nil
}

// transcriptQuery derives a narrower transcript query from the task using
// keyword matching. Rules are evaluated in priority order and short-circuit
// on the first match.
func (o *Orchestrator) transcriptQuery(task string) string {
	taskLower := strings.ToLower(task)

	switch {
	case strings.Contains(taskLower, "ai") || strings.Contains(taskLower, "artificial intelligence"):
		return queryAI
	case strings.Contains(taskLower, "outlook") || strings.Contains(taskLower, "forecast"):
		return queryOutlook
	case strings.Contains(taskLower, "risk"):
		return queryRisks
	default:
		return queryGeneric
	}
}
