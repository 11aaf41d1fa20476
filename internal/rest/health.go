package rest

import (
	"context"
	"net/http"
	"time"

	"multiMart/pkg/logger"
	"multiMart/pkg/response"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

type HealthStatus struct {
	Database string `json:"database"`
	Version  string `json:"version"`
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.Error("Health check failed", "error", err)
		return response.Fail(c, http.StatusServiceUnavailable, "database unavailable")
	}

	return response.OK(c, "OK", HealthStatus{Database: "up", Version: h.version})
}
