package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/agent"
	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/models"
)

// Forecaster runs the forecast pipeline for one task.
type Forecaster interface {
	GenerateForecast(ctx context.Context, task string) (*agent.Result, error)
}

// LogStore persists forecast runs. It is optional; without it the service
// still forecasts but skips persistence.
type LogStore interface {
	SaveForecastLog(task string, toolsUsed []string, executionSeconds float64, forecast interface{}, provider, status, errorMessage string) (int64, error)
	SaveFinancialMetrics(logID int64, metrics *models.FinancialMetrics) error
	ListRecentLogs(limit int) ([]models.ForecastLogEntry, error)
}

// ForecastHandler exposes the forecast pipeline over HTTP.
type ForecastHandler struct {
	orchestrator Forecaster
	store        LogStore
	provider     string
}

// NewForecastHandler creates the handler. store may be nil when the
// database is unavailable.
func NewForecastHandler(orchestrator Forecaster, store LogStore, provider string) *ForecastHandler {
	return &ForecastHandler{
		orchestrator: orchestrator,
		store:        store,
		provider:     provider,
	}
}

// GenerateForecast handles POST /forecast: it runs the pipeline, persists
// the outcome, and returns the structured forecast with execution metadata.
func (fh *ForecastHandler) GenerateForecast(c *gin.Context) {
	start := time.Now()

	var req models.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	log.Printf("Received forecast request: %s", preview(req.Task, 100))

	result, err := fh.orchestrator.GenerateForecast(c.Request.Context(), req.Task)
	executionTime := round2(time.Since(start).Seconds())

	if err != nil {
		log.Printf("Error generating forecast: %v", err)
		if fh.store != nil {
			if _, logErr := fh.store.SaveForecastLog(req.Task, []string{}, executionTime, gin.H{"error": err.Error()}, fh.provider, "error", err.Error()); logErr != nil {
				log.Printf("Failed to persist error log: %v", logErr)
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var logID int64
	if fh.store != nil {
		logID, err = fh.store.SaveForecastLog(req.Task, result.ToolsUsed, executionTime, result.Forecast, fh.provider, "success", "")
		if err != nil {
			log.Printf("Failed to persist forecast log: %v", err)
		} else if result.Metrics != nil {
			if err := fh.store.SaveFinancialMetrics(logID, result.Metrics); err != nil {
				log.Printf("Failed to persist financial metrics: %v", err)
			}
		}
	}

	log.Printf("Forecast generated successfully in %.2fs", executionTime)

	c.JSON(http.StatusOK, models.ForecastResponse{
		Status:               "success",
		Timestamp:            time.Now().UTC(),
		ExecutionTimeSeconds: executionTime,
		ToolsUsed:            result.ToolsUsed,
		Forecast:             result.Forecast,
		LogID:                logID,
	})
}

// GetLogs handles GET /logs?limit=10.
func (fh *ForecastHandler) GetLogs(c *gin.Context) {
	if fh.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "log storage is not available"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	logs, err := fh.store.ListRecentLogs(limit)
	if err != nil {
		log.Printf("Failed to load forecast logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries := make([]gin.H, 0, len(logs))
	for _, entry := range logs {
		entries = append(entries, gin.H{
			"id":             entry.ID,
			"timestamp":      entry.RequestTimestamp.Format(time.RFC3339),
			"task":           preview(entry.TaskDescription, 100),
			"status":         entry.Status,
			"execution_time": entry.ExecutionTimeSeconds,
			"tools_used":     entry.ToolsUsed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(entries),
		"logs":  entries,
	})
}

// Root handles GET /: a minimal liveness response.
func (fh *ForecastHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"service":      "TCS Financial Forecasting Agent",
		"llm_provider": fh.provider,
	})
}

// HealthCheck handles GET /health with database status included.
func (fh *ForecastHandler) HealthCheck(c *gin.Context) {
	database := "connected"
	if fh.store == nil {
		database = "unavailable"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"llm_provider": fh.provider,
		"database":     database,
	})
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
