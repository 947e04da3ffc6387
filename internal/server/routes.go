package server

import (
	"log/slog"
	"net/http"

	"starmap-server/internal/alerts"
	alertHandlers "starmap-server/internal/alerts/handlers"
	"starmap-server/internal/middleware"
	"starmap-server/internal/routeplan"
	routeHandlers "starmap-server/internal/routeplan/handlers"
	serverHandlers "starmap-server/internal/server/handlers"
	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/redis"
	"starmap-server/internal/starmap"
	starmapHandlers "starmap-server/internal/starmap/handlers"
)

type Routes struct {
	db             *database.DB
	cache          *redis.Client
	starmapService *starmap.Service
	alertService   *alerts.Service
	routeService   *routeplan.Service
	logger         *slog.Logger
}

func NewRoutes(db *database.DB, cache *redis.Client, starmapService *starmap.Service, alertService *alerts.Service, routeService *routeplan.Service, logger *slog.Logger) *Routes {
	return &Routes{
		db:             db,
		cache:          cache,
		starmapService: starmapService,
		alertService:   alertService,
		routeService:   routeService,
		logger:         logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache, r.starmapService)
	systemHandler := starmapHandlers.NewSystemHandler(r.starmapService, r.logger)
	alertHandler := alertHandlers.NewAlertHandler(r.alertService, r.logger)
	routeHandler := routeHandlers.NewRouteHandler(r.routeService, r.logger)

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)

	mux.HandleFunc("GET /api/system/objects", systemHandler.ListObjects)
	mux.HandleFunc("GET /api/system/objects/{id}", systemHandler.GetObject)
	mux.HandleFunc("GET /api/system/objects/{id}/children", systemHandler.GetChildren)
	mux.HandleFunc("GET /api/system/objects/{id}/position", systemHandler.GetPosition)
	mux.HandleFunc("GET /api/system/objects/{id}/orbit", systemHandler.GetOrbitPath)
	mux.HandleFunc("GET /api/system/stats", systemHandler.GetStatistics)
	mux.HandleFunc("GET /api/system/validate", systemHandler.Validate)
	mux.HandleFunc("GET /api/system/disconnected", systemHandler.GetDisconnected)
	mux.HandleFunc("GET /api/system/tree", systemHandler.GetTree)
	mux.HandleFunc("POST /api/system/reload", systemHandler.Reload)

	mux.HandleFunc("GET /api/alerts", alertHandler.ListAlerts)
	mux.HandleFunc("GET /api/routes/plan", routeHandler.PlanRoute)
	mux.HandleFunc("GET /api/routes/alternatives", routeHandler.FindAlternatives)

	// Protected endpoints (authenticated users)
	mux.Handle("POST /api/alerts", middleware.JWTMiddleware(http.HandlerFunc(alertHandler.ReportAlert)))
	mux.Handle("POST /api/alerts/{id}/confirm", middleware.JWTMiddleware(http.HandlerFunc(alertHandler.ConfirmAlert)))
	mux.Handle("POST /api/alerts/{id}/dispute", middleware.JWTMiddleware(http.HandlerFunc(alertHandler.DisputeAlert)))
	mux.Handle("POST /api/routes", middleware.JWTMiddleware(http.HandlerFunc(routeHandler.SaveRoute)))
	mux.Handle("GET /api/routes/saved", middleware.JWTMiddleware(http.HandlerFunc(routeHandler.ListSavedRoutes)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{
			"/api/server/health",
			"/api/system/objects",
			"/api/system/stats",
			"/api/system/validate",
			"/api/system/disconnected",
			"/api/system/tree",
			"/api/alerts",
			"/api/routes/plan",
			"/api/routes/alternatives",
		},
		"protected_endpoints", []string{
			"/api/alerts (POST)",
			"/api/alerts/{id}/confirm",
			"/api/alerts/{id}/dispute",
			"/api/routes (POST)",
			"/api/routes/saved",
		},
	)

	return mux
}
