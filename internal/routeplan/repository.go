package routeplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing routeplan repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveRoute(ctx context.Context, route *SavedRoute) error {
	logger := r.logger.With(
		"component", "routeplan_repository",
		"operation", "save_route",
		"route_id", route.ID,
		"user_id", route.UserID,
	)
	logger.Debug("Saving route")

	plan, err := json.Marshal(route.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode route plan: %w", err)
	}

	query := `
		INSERT INTO saved_routes (id, user_id, name, start_id, end_id, plan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		route.ID,
		route.UserID,
		route.Name,
		route.Plan.StartID,
		route.Plan.EndID,
		plan,
		route.CreatedAt,
	)
	if err != nil {
		logger.Error("Failed to save route", "error", err)
		return fmt.Errorf("failed to save route: %w", err)
	}

	logger.Debug("Route saved successfully")
	return nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]SavedRoute, error) {
	r.logger.Debug("Listing saved routes", "user_id", userID)

	query := `
		SELECT id, user_id, name, plan, created_at
		FROM saved_routes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query saved routes", "error", err)
		return nil, fmt.Errorf("failed to query saved routes: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "error", err)
		}
	}()

	var routes []SavedRoute
	for rows.Next() {
		var (
			route SavedRoute
			plan  []byte
		)
		if err := rows.Scan(&route.ID, &route.UserID, &route.Name, &plan, &route.CreatedAt); err != nil {
			r.logger.Error("Failed to scan saved route row", "error", err)
			return nil, fmt.Errorf("failed to scan saved route: %w", err)
		}
		if err := json.Unmarshal(plan, &route.Plan); err != nil {
			return nil, fmt.Errorf("failed to decode route plan: %w", err)
		}
		routes = append(routes, route)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating saved routes: %w", err)
	}

	r.logger.Debug("Saved routes retrieved", "count", len(routes))
	return routes, nil
}
