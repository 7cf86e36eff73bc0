package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models/dto"
)

// Pinger reports whether a backing service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness checks
type HealthController struct {
	db Pinger
}

// NewHealthController creates a HealthController. db may be nil when the
// application runs on the in-memory store.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Ping answers liveness probes
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health reports the database state
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=map[string]string} "Service healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	status := map[string]string{"status": "ok", "database": "memory"}
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unavailable").
				WithSeverity(dto.ErrorSeverityCritical)
			ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(detail))
			return
		}
		status["database"] = "up"
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(status))
}
