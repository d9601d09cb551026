package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vit0-9/domain_lookup/models"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db        Pinger
	cacheSize func() int
}

func NewHealthHandler(db Pinger, cacheSize func() int) *HealthHandler {
	return &HealthHandler{db: db, cacheSize: cacheSize}
}

// HealthCheckHandler godoc
// @Summary      Health Check
// @Description  Checks the health of the API and its history database.
// @Tags         Monitoring
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Failure      503  {object}  models.HealthResponse "History database unreachable"
// @Router       /health [get]
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{
		Status:       "UP",
		Database:     "UP",
		CacheEntries: h.cacheSize(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "DEGRADED"
		resp.Database = "DOWN"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
