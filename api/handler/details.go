package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/corpreg/models"
	"github.com/use-agent/corpreg/registry"
	"github.com/use-agent/corpreg/snapshot"
)

// Details returns a handler for GET /api/v1/details?url=<detail url>.
//
// Orchestration flow:
//  1. Bind & validate the query; the URL must belong to the registry site.
//  2. Registry.DetailsPage → record + container HTML.
//  3. format=markdown: convert the container HTML with the snapshot converter.
func Details(rc *registry.Client, conv *snapshot.Converter) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.DetailsRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := rc.ValidateDetailURL(req.URL); err != nil {
			badRequest(c, err.Error())
			return
		}

		// ── 2. Fetch ────────────────────────────────────────────────
		rec, html := rc.DetailsPage(c.Request.Context(), req.URL)

		resp := models.DetailsResponse{
			Success: true,
			Record:  &rec,
		}

		// ── 3. Snapshot ─────────────────────────────────────────────
		if req.Format == "markdown" && html != "" && conv != nil {
			md, err := conv.ToMarkdown(html, rc.Site().DetailBaseURL)
			if err != nil {
				slog.Warn("snapshot conversion failed", "url", req.URL, "error", err)
			} else {
				resp.Snapshot = md
			}
		}

		resp.Timing = models.TimingInfo{TotalMs: time.Since(start).Milliseconds()}
		c.JSON(http.StatusOK, resp)
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.DetailsResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeInvalidInput,
			Message: msg,
		},
	})
}
