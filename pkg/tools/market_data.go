package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"time"
)

const yahooFinanceBaseURL = "https://query1.finance.yahoo.com"

// MarketDataService fetches a current market snapshot from the Yahoo
// Finance chart API. It degrades to an error payload instead of failing so
// missing market data never blocks a forecast.
type MarketDataService struct {
	client  *http.Client
	baseURL string
}

// NewMarketDataService creates a new market data service.
func NewMarketDataService() *MarketDataService {
	return &MarketDataService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: yahooFinanceBaseURL,
	}
}

// yahooChartResponse is the subset of the chart API response we read.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string   `json:"currency"`
				ExchangeName         string   `json:"exchangeName"`
				RegularMarketPrice   *float64 `json:"regularMarketPrice"`
				PreviousClose        *float64 `json:"previousClose"`
				RegularMarketTime    int64    `json:"regularMarketTime"`
				RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
				RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// MarketSnapshot is the condensed market context handed to the synthesis
// prompt.
type MarketSnapshot struct {
	Symbol        string   `json:"symbol"`
	CurrentPrice  *float64 `json:"current_price"`
	PreviousClose *float64 `json:"previous_close"`
	Currency      string   `json:"currency"`
	Exchange      string   `json:"exchange"`
	Timestamp     int64    `json:"timestamp"`
	DayRange      struct {
		Low  *float64 `json:"low"`
		High *float64 `json:"high"`
	} `json:"day_range"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
}

// Fetch returns recent market data for the symbol as a JSON string.
func (ms *MarketDataService) Fetch(ctx context.Context, symbol string) (string, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", ms.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create market data request: %w", err)
	}
	q := req.URL.Query()
	q.Set("interval", "1d")
	q.Set("range", "1mo")
	req.URL.RawQuery = q.Encode()

	resp, err := ms.client.Do(req)
	if err != nil {
		return errorPayload(map[string]string{
			"error":  err.Error(),
			"symbol": symbol,
			"note":   "Market data unavailable",
		}), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errorPayload(map[string]string{
			"error":  fmt.Sprintf("Failed to fetch data: %d", resp.StatusCode),
			"symbol": symbol,
		}), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read market data response: %w", err)
	}

	var chart yahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return "", fmt.Errorf("failed to parse market data response: %w", err)
	}
	if len(chart.Chart.Result) == 0 {
		return "", fmt.Errorf("market data response contained no results for %s", symbol)
	}

	meta := chart.Chart.Result[0].Meta
	snapshot := MarketSnapshot{
		Symbol:        symbol,
		CurrentPrice:  meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
		Currency:      meta.Currency,
		Exchange:      meta.ExchangeName,
		Timestamp:     meta.RegularMarketTime,
	}
	snapshot.DayRange.Low = meta.RegularMarketDayLow
	snapshot.DayRange.High = meta.RegularMarketDayHigh

	if meta.RegularMarketPrice != nil && meta.PreviousClose != nil && *meta.PreviousClose != 0 {
		change := round2(*meta.RegularMarketPrice - *meta.PreviousClose)
		changePercent := round2((*meta.RegularMarketPrice - *meta.PreviousClose) / *meta.PreviousClose * 100)
		snapshot.Change = &change
		snapshot.ChangePercent = &changePercent
	}

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal market snapshot: %w", err)
	}

	log.Printf("Fetched market data for %s", symbol)
	return string(out), nil
}

func errorPayload(fields map[string]string) string {
	out, _ := json.Marshal(fields)
	return string(out)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
