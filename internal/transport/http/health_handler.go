package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/KeremDpdo/research-publication-dashboard/internal/config"
	"github.com/KeremDpdo/research-publication-dashboard/internal/services"
)

// CacheStatsProvider reports result cache usage
type CacheStatsProvider interface {
	CacheStats() services.CacheStats
}

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status    string              `json:"status"`
	Service   string              `json:"service"`
	Version   string              `json:"version"`
	Uptime    string              `json:"uptime"`
	Timestamp time.Time           `json:"timestamp"`
	Cache     services.CacheStats `json:"cache"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	cache   CacheStatsProvider
	started time.Time
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cache CacheStatsProvider, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		cache:   cache,
		started: time.Now(),
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "healthy",
		Service:   config.AppName,
		Version:   config.AppVersion,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Cache:     h.cache.CacheStats(),
	})
}
