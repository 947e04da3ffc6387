package main

import (
	"log/slog"
	"net/http"
	"os"

	"starmap-server/internal/alerts"
	"starmap-server/internal/middleware"
	"starmap-server/internal/routeplan"
	"starmap-server/internal/server"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/logger"
	"starmap-server/internal/shared/redis"
	"starmap-server/internal/starmap"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()
	log := slog.With("component", "main")

	cfg := config.GlobalConfig

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	cache, err := redis.Connect()
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	starmapService := starmap.NewService(cfg.Starmap.FeedPath, slog.Default())
	if err := starmapService.Load(); err != nil {
		log.Error("Failed to load star system feed", "error", err, "feed_path", cfg.Starmap.FeedPath)
		os.Exit(1)
	}

	alertRepo := alerts.NewRepository(db.DB, slog.Default())
	alertService := alerts.NewService(
		alertRepo,
		cache,
		cfg.Alerts.DefaultExpiry,
		cfg.Alerts.ReportThrottle,
		cfg.Alerts.CacheTTL,
		slog.Default(),
	)

	planner := routeplan.NewPlanner(cfg.Starmap.HazardRadius, cfg.Starmap.DefaultQuantumSpeed, slog.Default())
	routeRepo := routeplan.NewRepository(db.DB, slog.Default())
	routeService := routeplan.NewService(starmapService, alertService, planner, routeRepo, slog.Default())

	routes := server.NewRoutes(db, cache, starmapService, alertService, routeService, slog.Default())
	mux := routes.Setup()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.Server.Environment == "production",
	})
	corsMiddleware := middleware.NewCORS()

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info("Starmap server starting",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"feed_path", cfg.Starmap.FeedPath,
	)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
