package routeplan

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"starmap-server/internal/alerts"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/starmap"
)

// Service glues the planner to its collaborators: the starmap snapshot for
// geometry, the alert service for hazards, and the repository for routes a
// user chooses to keep.
type Service struct {
	starmapService *starmap.Service
	alertService   *alerts.Service
	planner        *Planner
	repo           *Repository
	logger         *slog.Logger
}

func NewService(starmapService *starmap.Service, alertService *alerts.Service, planner *Planner, repo *Repository, logger *slog.Logger) *Service {
	return &Service{
		starmapService: starmapService,
		alertService:   alertService,
		planner:        planner,
		repo:           repo,
		logger:         logger,
	}
}

// Plan computes the direct route between two objects against the current
// system snapshot and active hazard set.
func (s *Service) Plan(ctx context.Context, startID, endID string, ship *Ship) (*RoutePlan, error) {
	system, err := s.starmapService.System()
	if err != nil {
		return nil, errors.WrapInternal("star system unavailable", err)
	}

	activeAlerts, err := s.alertService.Active(ctx)
	if err != nil {
		return nil, err
	}

	return s.planner.PlanRoute(system, startID, endID, activeAlerts, ship)
}

// Alternatives runs the safer-route search. The direct route is always part
// of the result.
func (s *Service) Alternatives(ctx context.Context, startID, endID string, ship *Ship, maxAlternatives int) ([]*RoutePlan, error) {
	system, err := s.starmapService.System()
	if err != nil {
		return nil, errors.WrapInternal("star system unavailable", err)
	}

	activeAlerts, err := s.alertService.Active(ctx)
	if err != nil {
		return nil, err
	}

	return s.planner.FindAlternatives(system, startID, endID, activeAlerts, ship, maxAlternatives)
}

// Save persists a plan under the given user and name.
func (s *Service) Save(ctx context.Context, userID, name string, plan *RoutePlan) (*SavedRoute, error) {
	if plan == nil || len(plan.Waypoints) == 0 {
		return nil, errors.Validation("route plan is required")
	}
	if name == "" {
		name = plan.StartID + " -> " + plan.EndID
	}

	route := &SavedRoute{
		ID:        newRouteID(),
		UserID:    userID,
		Name:      name,
		Plan:      *plan,
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := s.repo.SaveRoute(ctx, route); err != nil {
		return nil, err
	}

	s.logger.Info("Route saved", "route_id", route.ID, "user_id", userID, "name", name)
	return route, nil
}

// SavedByUser lists a user's saved routes, newest first.
func (s *Service) SavedByUser(ctx context.Context, userID string) ([]SavedRoute, error) {
	return s.repo.ListByUser(ctx, userID)
}

func newRouteID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(buf)
}
