package models

import "time"

// ForecastRequest is the request body for POST /forecast.
type ForecastRequest struct {
	Task string `json:"task" binding:"required"`
}

// FinancialTrend describes the direction of a single financial metric.
type FinancialTrend struct {
	Metric           string   `json:"metric"`
	Trend            string   `json:"trend"` // "increasing", "decreasing", "stable"
	PercentageChange *float64 `json:"percentage_change"`
	Analysis         string   `json:"analysis"`
}

// ManagementOutlook captures management sentiment from earnings calls.
type ManagementOutlook struct {
	Sentiment      string   `json:"sentiment"` // "positive", "negative", "neutral"
	KeyStatements  []string `json:"key_statements"`
	StrategicFocus []string `json:"strategic_focus"`
}

// RiskOpportunity is a single identified risk or opportunity.
type RiskOpportunity struct {
	Type            string `json:"type"` // "risk" or "opportunity"
	Description     string `json:"description"`
	PotentialImpact string `json:"potential_impact"` // "high", "medium", "low"
}

// ForecastOutput is the structured forecast produced by the synthesis step.
// The field set is an external contract consumed by API clients.
type ForecastOutput struct {
	Summary               string            `json:"summary"`
	FinancialTrends       []FinancialTrend  `json:"financial_trends"`
	ManagementOutlook     ManagementOutlook `json:"management_outlook"`
	RisksAndOpportunities []RiskOpportunity `json:"risks_and_opportunities"`
	QuarterlyForecast     string            `json:"quarterly_forecast"`
	ConfidenceLevel       string            `json:"confidence_level"` // "high", "medium", "low"
	DataSourcesUsed       []string          `json:"data_sources_used"`
}

// ForecastResponse is the response body for POST /forecast.
type ForecastResponse struct {
	Status               string         `json:"status"`
	Timestamp            time.Time      `json:"timestamp"`
	ExecutionTimeSeconds float64        `json:"execution_time_seconds"`
	ToolsUsed            []string       `json:"tools_used"`
	Forecast             ForecastOutput `json:"forecast"`
	LogID                int64          `json:"log_id,omitempty"`
}

// FinancialMetrics holds the key numbers extracted from a quarterly report.
// Values are pointers because the extraction LLM returns null for anything
// not found in the report text.
type FinancialMetrics struct {
	Quarter         string   `json:"quarter"`
	Year            int      `json:"year"`
	TotalRevenue    *float64 `json:"total_revenue"`
	NetProfit       *float64 `json:"net_profit"`
	OperatingMargin *float64 `json:"operating_margin"`
	RevenueGrowth   *float64 `json:"revenue_growth"`
}

// ForecastLogEntry is one persisted row of the forecast_logs table.
type ForecastLogEntry struct {
	ID                   int64     `json:"id"`
	RequestTimestamp     time.Time `json:"timestamp"`
	TaskDescription      string    `json:"task"`
	ToolsUsed            []string  `json:"tools_used"`
	ExecutionTimeSeconds float64   `json:"execution_time"`
	LLMProvider          string    `json:"llm_provider"`
	Status               string    `json:"status"`
	ErrorMessage         string    `json:"error_message,omitempty"`
}
