package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	config "github.com/Adarsh-Naik/tcs-forecast-agent/configs"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/agent"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/handlers"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/llm"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/services"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/storage"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/tools"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/vectorstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	log.Printf("Using LLM provider: %s", llmClient.Provider())

	// Transcript vector index. The handle is built once here and passed to
	// the analyzer explicitly.
	index, err := vectorstore.NewIndex(cfg, llmClient)
	if err != nil {
		log.Fatalf("Failed to initialize vector index: %v", err)
	}

	financialExtractor := tools.NewFinancialExtractor(llmClient)
	transcriptAnalyzer := tools.NewTranscriptAnalyzer(llmClient, index)
	marketDataService := tools.NewMarketDataService()

	// Indexing failures degrade the transcript tool, not the service.
	if err := transcriptAnalyzer.EnsureIndexed(context.Background(), cfg.TranscriptsDir); err != nil {
		log.Printf("Warning: transcript indexing failed, qualitative analysis will be unavailable: %v", err)
	}

	orchestrator := agent.NewOrchestrator(
		llmClient,
		financialExtractor,
		transcriptAnalyzer,
		marketDataService,
		cfg.ReportsDir,
		cfg.MarketSymbol,
	)

	// A missing database degrades persistence, not forecasting.
	var store handlers.LogStore
	if s, err := storage.NewStorage(cfg); err != nil {
		log.Printf("Warning: forecast log storage unavailable: %v", err)
	} else {
		store = s
		defer s.Close()
	}

	monitoringService := services.NewMonitoringService()
	forecastHandler := handlers.NewForecastHandler(orchestrator, store, llmClient.Provider())
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	r := gin.Default()
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

	r.GET("/", forecastHandler.Root)
	r.GET("/health", forecastHandler.HealthCheck)
	r.POST("/forecast", forecastHandler.GenerateForecast)
	r.GET("/logs", forecastHandler.GetLogs)

	v1 := r.Group("/api/v1")
	{
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.GetLogs)
		}
	}

	log.Printf("Starting TCS Forecast Agent server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
