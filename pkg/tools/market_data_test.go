package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const chartFixture = `{
	"chart": {
		"result": [
			{
				"meta": {
					"currency": "INR",
					"exchangeName": "NSI",
					"regularMarketPrice": 4012.55,
					"previousClose": 3950.0,
					"regularMarketTime": 1724659200,
					"regularMarketDayLow": 3940.1,
					"regularMarketDayHigh": 4020.9
				}
			}
		]
	}
}`

func TestFetchMarketData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/TCS.NS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		w.Write([]byte(chartFixture))
	}))
	defer server.Close()

	service := NewMarketDataService()
	service.baseURL = server.URL

	out, err := service.Fetch(context.Background(), "TCS.NS")
	assert.NoError(t, err)

	var snapshot MarketSnapshot
	assert.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Equal(t, "TCS.NS", snapshot.Symbol)
	assert.Equal(t, 4012.55, *snapshot.CurrentPrice)
	assert.Equal(t, 3950.0, *snapshot.PreviousClose)
	assert.Equal(t, "INR", snapshot.Currency)
	assert.Equal(t, "NSI", snapshot.Exchange)
	assert.Equal(t, 3940.1, *snapshot.DayRange.Low)
	assert.Equal(t, 4020.9, *snapshot.DayRange.High)
	// change and change_percent are rounded to 2 decimals
	assert.Equal(t, 62.55, *snapshot.Change)
	assert.Equal(t, 1.58, *snapshot.ChangePercent)
}

func TestFetchMarketDataServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	service := NewMarketDataService()
	service.baseURL = server.URL

	// Non-200 responses degrade to an error payload, not a failure.
	out, err := service.Fetch(context.Background(), "TCS.NS")
	assert.NoError(t, err)

	var payload map[string]string
	assert.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Failed to fetch data: 429", payload["error"])
	assert.Equal(t, "TCS.NS", payload["symbol"])
}

func TestFetchMarketDataConnectionError(t *testing.T) {
	service := NewMarketDataService()
	// Closed server: the transport error becomes an error payload too.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	service.baseURL = server.URL
	server.Close()

	out, err := service.Fetch(context.Background(), "TCS.NS")
	assert.NoError(t, err)

	var payload map[string]string
	assert.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Market data unavailable", payload["note"])
	assert.NotEmpty(t, payload["error"])
}

func TestFetchMarketDataMissingPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": [{"meta": {"currency": "INR"}}]}}`))
	}))
	defer server.Close()

	service := NewMarketDataService()
	service.baseURL = server.URL

	out, err := service.Fetch(context.Background(), "TCS.NS")
	assert.NoError(t, err)

	var snapshot MarketSnapshot
	assert.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Nil(t, snapshot.CurrentPrice)
	assert.Nil(t, snapshot.Change, "no change without both prices")
}

func TestFetchMarketDataEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": []}}`))
	}))
	defer server.Close()

	service := NewMarketDataService()
	service.baseURL = server.URL

	_, err := service.Fetch(context.Background(), "UNKNOWN")
	assert.Error(t, err)
}
