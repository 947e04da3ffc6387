package alerts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"starmap-server/internal/geometry"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/redis"
)

const activeAlertsCacheKey = "alerts:active"

// Service owns the hazard-alert lifecycle: reporting with per-region
// throttling, confirm/dispute voting with rescoring, and the active-alert
// query the route planner consumes. The Redis client is optional; a nil
// client degrades to direct database reads.
type Service struct {
	repo          *Repository
	cache         *redis.Client
	cacheTTL      time.Duration
	defaultExpiry time.Duration
	throttle      time.Duration
	logger        *slog.Logger
}

func NewService(repo *Repository, cache *redis.Client, defaultExpiry, throttle, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		defaultExpiry: defaultExpiry,
		throttle:      throttle,
		logger:        logger,
	}
}

// ReportRequest is the caller-supplied portion of a new alert.
type ReportRequest struct {
	RegionID  string        `json:"regionId"`
	ShardID   string        `json:"shardId"`
	Type      AlertType     `json:"alertType"`
	Position  geometry.Vec3 `json:"position"`
	ExpiresIn time.Duration `json:"-"`
}

// Report files a new hazard alert for the given user. The alert starts at
// the presumed-dangerous initial score, is self-confirmed by its creator and
// expires after the configured lifetime unless the request overrides it.
func (s *Service) Report(ctx context.Context, userID string, req ReportRequest) (*RouteAlert, error) {
	logger := s.logger.With(
		"component", "alerts_service",
		"operation", "report",
		"user_id", userID,
		"region_id", req.RegionID,
	)

	if !ValidAlertType(req.Type) {
		return nil, errors.Validationf("unknown alert type %q", req.Type)
	}
	if req.RegionID == "" {
		return nil, errors.Validation("regionId is required")
	}

	now := time.Now().UnixMilli()

	existing, err := s.repo.ListByRegion(ctx, req.RegionID)
	if err != nil {
		return nil, err
	}
	if !CanReport(userID, req.RegionID, existing, now, s.throttle) {
		logger.Info("Report throttled", "throttle", s.throttle)
		return nil, errors.Conflictf("user already reported in region %q within the last %s", req.RegionID, s.throttle)
	}

	expiry := s.defaultExpiry
	if req.ExpiresIn > 0 {
		expiry = req.ExpiresIn
	}

	alert := &RouteAlert{
		ID:        newAlertID(),
		Position:  req.Position,
		RegionID:  req.RegionID,
		Type:      req.Type,
		CreatedBy: userID,
		CreatedAt: now,
		ExpiresAt: now + expiry.Milliseconds(),
		Confirmations: map[string]int64{
			userID: now,
		},
		Disputes:    map[string]int64{},
		ShardID:     req.ShardID,
		SafetyScore: InitialSafetyScore,
	}

	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	logger.Info("Alert reported", "alert_id", alert.ID, "alert_type", alert.Type)
	return alert, nil
}

// Confirm records a confirmation vote and recomputes the safety score.
func (s *Service) Confirm(ctx context.Context, alertID, userID string) (*RouteAlert, error) {
	return s.vote(ctx, alertID, userID, true)
}

// Dispute records a dispute vote and recomputes the safety score.
func (s *Service) Dispute(ctx context.Context, alertID, userID string) (*RouteAlert, error) {
	return s.vote(ctx, alertID, userID, false)
}

func (s *Service) vote(ctx context.Context, alertID, userID string, confirm bool) (*RouteAlert, error) {
	logger := s.logger.With(
		"component", "alerts_service",
		"operation", "vote",
		"alert_id", alertID,
		"user_id", userID,
		"confirm", confirm,
	)

	alert, err := s.repo.GetAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UnixMilli()
	if !IsActive(alert.ExpiresAt, now) {
		return nil, errors.Conflictf("alert %q has expired", alertID)
	}

	if alert.Confirmations == nil {
		alert.Confirmations = map[string]int64{}
	}
	if alert.Disputes == nil {
		alert.Disputes = map[string]int64{}
	}

	// One vote per reporter: switching sides moves the vote.
	if confirm {
		delete(alert.Disputes, userID)
		alert.Confirmations[userID] = now
	} else {
		delete(alert.Confirmations, userID)
		alert.Disputes[userID] = now
	}
	alert.Rescore()

	if err := s.repo.UpdateVotes(ctx, alert); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	logger.Debug("Vote recorded", "safety_score", alert.SafetyScore)
	return alert, nil
}

// Active returns all unexpired alerts, served from the Redis cache when one
// is configured and warm.
func (s *Service) Active(ctx context.Context) ([]RouteAlert, error) {
	logger := s.logger.With("component", "alerts_service", "operation", "active")

	if cached, ok := s.readCache(ctx); ok {
		logger.Debug("Active alerts served from cache", "count", len(cached))
		return cached, nil
	}

	alerts, err := s.repo.ListActive(ctx, time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, alerts)
	return alerts, nil
}

// ByRegion returns every alert in a region, expired ones included.
func (s *Service) ByRegion(ctx context.Context, regionID string) ([]RouteAlert, error) {
	return s.repo.ListByRegion(ctx, regionID)
}

func (s *Service) readCache(ctx context.Context) ([]RouteAlert, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, activeAlertsCacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var alerts []RouteAlert
	if err := json.Unmarshal(data, &alerts); err != nil {
		s.logger.Warn("Failed to decode cached alerts", "error", err)
		return nil, false
	}

	// The cache may outlive individual expirations within the TTL window;
	// filter rather than serve stale hazards.
	now := time.Now().UnixMilli()
	active := alerts[:0]
	for _, alert := range alerts {
		if IsActive(alert.ExpiresAt, now) {
			active = append(active, alert)
		}
	}
	return active, true
}

func (s *Service) writeCache(ctx context.Context, alerts []RouteAlert) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(alerts)
	if err != nil {
		s.logger.Warn("Failed to encode alerts for cache", "error", err)
		return
	}

	if err := s.cache.Set(ctx, activeAlertsCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to write alerts cache", "error", err)
	}
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, activeAlertsCacheKey).Err(); err != nil {
		s.logger.Warn("Failed to invalidate alerts cache", "error", err)
	}
}

func newAlertID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; fall back to a timestamp id.
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(buf)
}
