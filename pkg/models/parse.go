package models

import "encoding/json"

// ParseFinancialMetrics attempts to read the financial extractor's raw
// output as structured metrics suitable for persistence. It reports false
// when the output is an error payload or lacks the identifying quarter/year
// fields.
func ParseFinancialMetrics(raw string) (*FinancialMetrics, bool) {
	var metrics FinancialMetrics
	if err := json.Unmarshal([]byte(raw), &metrics); err != nil {
		return nil, false
	}
	if metrics.Quarter == "" || metrics.Year == 0 {
		return nil, false
	}
	return &metrics, true
}
