package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/corpreg/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// StatsReporter exposes renderer session usage.
type StatsReporter interface {
	Stats() models.SessionStats
}

// Health returns a handler for GET /api/v1/health.
//
// Reports "degraded" once more than half of all sessions opened so far
// have failed.
func Health(stats StatsReporter, state string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := stats.Stats()

		status := "healthy"
		if s.TotalSessions > 0 && s.FailedSessions*2 > s.TotalSessions {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:       status,
			Uptime:       time.Since(startTime).Round(time.Second).String(),
			State:        state,
			SessionStats: s,
			Version:      Version,
		})
	}
}
