package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-jotter/internal/logging"
)

// HealthHandler reports process uptime and database reachability.
type HealthHandler struct {
	Ping    func(ctx context.Context) error
	started time.Time
	now     func() time.Time
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{Ping: ping, started: time.Now(), now: time.Now}
}

func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()
	body := gin.H{
		"status":    "ok",
		"uptime":    now.Sub(h.started).Seconds(),
		"timestamp": now.UTC().Format(time.RFC3339),
		"database":  "connected",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.Ping(ctx); err != nil {
		logging.FromContext(c.Request.Context()).Error("health check failed", "err", err)
		body["status"] = "error"
		body["database"] = "disconnected"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func Welcome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to Job Jotter API!")
}
