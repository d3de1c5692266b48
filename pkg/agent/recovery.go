package agent

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/models"
)

// jsonPatterns are tried in priority order when the whole output is not
// valid JSON: a fenced block marked as JSON, any fenced block, then the
// first balanced-brace object anywhere in the text. The brace pattern
// matches one level of nesting only; deeper fallout lands in the outer-brace
// span attempt below.
var jsonPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```"),
	regexp.MustCompile("(?s)```\\s*(\\{.*?\\})\\s*```"),
	regexp.MustCompile(`(\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\})`),
}

// ExtractForecast recovers a structured forecast from raw LLM output. It is
// a total function: whatever the input, it returns a well-formed record,
// synthesizing a fallback when no JSON can be parsed out of the text.
func ExtractForecast(text string) models.ForecastOutput {
	// Try direct JSON parse first.
	var forecast models.ForecastOutput
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &forecast); err == nil {
		return forecast
	}

	// Look for an embedded JSON block.
	for _, pattern := range jsonPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		forecast = models.ForecastOutput{}
		if err := json.Unmarshal([]byte(match[1]), &forecast); err == nil {
			return forecast
		}
	}

	// Last resort: the span between the first '{' and the last '}'.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		forecast = models.ForecastOutput{}
		if err := json.Unmarshal([]byte(text[start:end+1]), &forecast); err == nil {
			return forecast
		}
	}

	log.Println("Could not parse JSON from output, using fallback")
	return fallbackForecast(text)
}

// fallbackForecast builds the minimal valid record deterministically derived
// from the raw text.
func fallbackForecast(text string) models.ForecastOutput {
	noChange := 0.0
	return models.ForecastOutput{
		Summary: "Analysis completed. Check logs for full details.",
		FinancialTrends: []models.FinancialTrend{
			{
				Metric:           "General Analysis",
				Trend:            "stable",
				PercentageChange: &noChange,
				Analysis:         truncate(text, 200),
			},
		},
		ManagementOutlook: models.ManagementOutlook{
			Sentiment:      "neutral",
			KeyStatements:  []string{"See raw output for details"},
			StrategicFocus: []string{"Multiple areas"},
		},
		RisksAndOpportunities: []models.RiskOpportunity{
			{
				Type:            "opportunity",
				Description:     "Analysis in progress",
				PotentialImpact: "medium",
			},
		},
		QuarterlyForecast: truncate(text, 500),
		ConfidenceLevel:   "medium",
		DataSourcesUsed:   []string{"analysis_tools"},
	}
}

// truncate returns the first n characters of s, or s unchanged if shorter.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
