package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/redis"
	"starmap-server/internal/shared/response"
	"starmap-server/internal/starmap"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Starmap   string `json:"starmap"`
}

type HealthHandler struct {
	db      *database.DB
	cache   *redis.Client
	starmap *starmap.Service
}

func NewHealthHandler(db *database.DB, cache *redis.Client, starmapService *starmap.Service) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		starmap: starmapService,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	dbStatus := "disconnected"
	if err := h.db.Ping(); err == nil {
		dbStatus = "connected"
	} else {
		logger.Warn("Database ping failed", "error", err)
	}

	redisStatus := "disabled"
	if h.cache != nil {
		redisStatus = "disconnected"
		if err := h.cache.Ping(r.Context()).Err(); err == nil {
			redisStatus = "connected"
		} else {
			logger.Warn("Redis ping failed", "error", err)
		}
	}

	starmapStatus := "not_loaded"
	if _, err := h.starmap.System(); err == nil {
		starmapStatus = "loaded"
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Redis:     redisStatus,
		Starmap:   starmapStatus,
	}

	response.Success(w, http.StatusOK, resp)
}
