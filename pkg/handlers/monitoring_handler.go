package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Adarsh-Naik/tcs-forecast-agent/pkg/services"
)

// MonitoringHandler serves the in-memory request log.
type MonitoringHandler struct {
	service *services.MonitoringService
}

// NewMonitoringHandler creates a new MonitoringHandler.
func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{
		service: service,
	}
}

// GetLogs handles GET /api/v1/monitoring/logs?limit=50.
func (mh *MonitoringHandler) GetLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	logs := mh.service.RecentRequests(limit)
	c.JSON(http.StatusOK, gin.H{
		"count": len(logs),
		"logs":  logs,
	})
}
