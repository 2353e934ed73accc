package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/corpreg/models"
	"github.com/use-agent/corpreg/registry"
)

// Search returns a handler for GET /api/v1/search?q=<name>.
//
// A render failure is not an API error: the registry client logs it and
// the response carries an empty result list.
func Search(rc *registry.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.SearchRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success: false,
				Results: []models.SearchResult{},
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		results := rc.Search(c.Request.Context(), req.Query)

		c.JSON(http.StatusOK, models.SearchResponse{
			Success: true,
			Query:   req.Query,
			Results: results,
			Total:   len(results),
			Timing:  models.TimingInfo{TotalMs: time.Since(start).Milliseconds()},
		})
	}
}
