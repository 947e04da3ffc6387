package alerts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"starmap-server/internal/geometry"
	"starmap-server/internal/shared/errors"
)

type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing alerts repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

const alertColumns = `id, region_id, shard_id, alert_type, created_by, created_at, expires_at,
	pos_x, pos_y, pos_z, confirmations, disputes, safety_score`

func (r *Repository) CreateAlert(ctx context.Context, alert *RouteAlert) error {
	logger := r.logger.With(
		"component", "alerts_repository",
		"operation", "create_alert",
		"alert_id", alert.ID,
		"region_id", alert.RegionID,
	)
	logger.Debug("Creating alert")

	confirmations, err := json.Marshal(alert.Confirmations)
	if err != nil {
		return fmt.Errorf("failed to encode confirmations: %w", err)
	}
	disputes, err := json.Marshal(alert.Disputes)
	if err != nil {
		return fmt.Errorf("failed to encode disputes: %w", err)
	}

	query := `
		INSERT INTO route_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.ExecContext(ctx, query,
		alert.ID,
		alert.RegionID,
		alert.ShardID,
		string(alert.Type),
		alert.CreatedBy,
		alert.CreatedAt,
		alert.ExpiresAt,
		alert.Position.X,
		alert.Position.Y,
		alert.Position.Z,
		confirmations,
		disputes,
		alert.SafetyScore,
	)
	if err != nil {
		logger.Error("Failed to create alert", "error", err)
		return fmt.Errorf("failed to create alert: %w", err)
	}

	logger.Debug("Alert created successfully")
	return nil
}

func (r *Repository) GetAlert(ctx context.Context, id string) (*RouteAlert, error) {
	r.logger.Debug("Getting alert by ID", "alert_id", id)

	query := `SELECT ` + alertColumns + ` FROM route_alerts WHERE id = $1`

	alert, err := r.scanAlert(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("alert %q not found", id)
	}
	if err != nil {
		r.logger.Error("Failed to get alert", "alert_id", id, "error", err)
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return alert, nil
}

// UpdateVotes persists the alert's vote maps and recomputed safety score.
func (r *Repository) UpdateVotes(ctx context.Context, alert *RouteAlert) error {
	logger := r.logger.With(
		"component", "alerts_repository",
		"operation", "update_votes",
		"alert_id", alert.ID,
	)

	confirmations, err := json.Marshal(alert.Confirmations)
	if err != nil {
		return fmt.Errorf("failed to encode confirmations: %w", err)
	}
	disputes, err := json.Marshal(alert.Disputes)
	if err != nil {
		return fmt.Errorf("failed to encode disputes: %w", err)
	}

	query := `
		UPDATE route_alerts
		SET confirmations = $2, disputes = $3, safety_score = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, alert.ID, confirmations, disputes, alert.SafetyScore)
	if err != nil {
		logger.Error("Failed to update alert votes", "error", err)
		return fmt.Errorf("failed to update alert votes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return errors.NotFoundf("alert %q not found", alert.ID)
	}

	logger.Debug("Alert votes updated", "safety_score", alert.SafetyScore)
	return nil
}

// ListActive returns alerts whose expiry is still in the future. Expired
// rows are left in place for the external TTL sweep.
func (r *Repository) ListActive(ctx context.Context, now int64) ([]RouteAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM route_alerts WHERE expires_at > $1 ORDER BY created_at`
	return r.listAlerts(ctx, query, now)
}

// ListByRegion returns every alert in a region, active or not, newest last.
func (r *Repository) ListByRegion(ctx context.Context, regionID string) ([]RouteAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM route_alerts WHERE region_id = $1 ORDER BY created_at`
	return r.listAlerts(ctx, query, regionID)
}

func (r *Repository) listAlerts(ctx context.Context, query string, args ...interface{}) ([]RouteAlert, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query alerts", "error", err)
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Error("Failed to close rows", "error", err)
		}
	}()

	var alerts []RouteAlert
	for rows.Next() {
		alert, err := r.scanAlert(rows)
		if err != nil {
			r.logger.Error("Failed to scan alert row", "error", err)
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	r.logger.Debug("Alerts retrieved", "count", len(alerts))
	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAlert(row rowScanner) (*RouteAlert, error) {
	var (
		alert         RouteAlert
		alertType     string
		position      geometry.Vec3
		confirmations []byte
		disputes      []byte
	)

	err := row.Scan(
		&alert.ID,
		&alert.RegionID,
		&alert.ShardID,
		&alertType,
		&alert.CreatedBy,
		&alert.CreatedAt,
		&alert.ExpiresAt,
		&position.X,
		&position.Y,
		&position.Z,
		&confirmations,
		&disputes,
		&alert.SafetyScore,
	)
	if err != nil {
		return nil, err
	}

	alert.Type = AlertType(alertType)
	alert.Position = position

	if err := json.Unmarshal(confirmations, &alert.Confirmations); err != nil {
		return nil, fmt.Errorf("failed to decode confirmations: %w", err)
	}
	if err := json.Unmarshal(disputes, &alert.Disputes); err != nil {
		return nil, fmt.Errorf("failed to decode disputes: %w", err)
	}

	return &alert, nil
}
