package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/tools"
)

// Manual probe for the Yahoo Finance chart endpoint.
// Usage: go run ./cmd/market_check [symbol]
func main() {
	symbol := "TCS.NS"
	if len(os.Args) > 1 {
		symbol = os.Args[1]
	}

	service := tools.NewMarketDataService()
	data, err := service.Fetch(context.Background(), symbol)
	if err != nil {
		log.Fatalf("Market data fetch failed: %v", err)
	}

	fmt.Println(data)
}
