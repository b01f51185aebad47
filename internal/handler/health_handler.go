package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "sigeu/internal/errors"
)

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler serves the banner and health probes.
type HealthHandler struct {
	database Pinger
	redis    Pinger // nil when Redis is not configured
	version  string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(database, redis Pinger, version string) *HealthHandler {
	return &HealthHandler{database: database, redis: redis, version: version}
}

// Index godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} errors.Response
// @Router / [get]
func (h *HealthHandler) Index(c echo.Context) error {
	return respond(c, http.StatusOK, "SIGEU API", echo.Map{
		"version": h.version,
		"docs":    "/swagger/index.html",
	})
}

// Health godoc
// @Summary Liveness and dependency check
// @Tags health
// @Produce json
// @Success 200 {object} errors.Response
// @Failure 503 {object} errors.Response
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	database := probe(ctx, h.database)
	redis := "disabled"
	if h.redis != nil {
		redis = probe(ctx, h.redis)
	}

	status, code, message := "ok", http.StatusOK, "Servicio operativo"
	if database != "up" {
		status, code, message = "degraded", http.StatusServiceUnavailable, "Base de datos no disponible"
	}
	return c.JSON(code, apperrors.Response{
		Success: code == http.StatusOK,
		Message: message,
		Data: echo.Map{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  database,
			"redis":     redis,
		},
	})
}

func probe(ctx context.Context, ping Pinger) string {
	if ping == nil || ping(ctx) != nil {
		return "down"
	}
	return "up"
}
