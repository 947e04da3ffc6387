package routeplan

import (
	"log/slog"
	"sort"

	"starmap-server/internal/alerts"
	"starmap-server/internal/geometry"
	"starmap-server/internal/starmap"
)

const (
	// DefaultQuantumSpeed is used when no ship is supplied, in units/s.
	DefaultQuantumSpeed = 200000.0

	// DefaultHazardRadius is how far from a waypoint an alert still counts
	// against it.
	DefaultHazardRadius = 1000000.0

	// DefaultMaxAlternatives caps the alternative-route search.
	DefaultMaxAlternatives = 3

	// safeRouteThreshold short-circuits the alternative search: a direct
	// route at or above it is good enough.
	safeRouteThreshold = 90.0

	// alternativeMargin is how much safer than the direct route a candidate
	// must be to be worth proposing.
	alternativeMargin = 5.0

	// hazardCountPenalty discounts a waypoint's score per nearby hazard.
	hazardCountPenalty = 0.1
)

// Planner computes routes over an immutable star system snapshot. Stateless
// apart from its tuning knobs; safe for concurrent use.
type Planner struct {
	hazardRadius float64
	defaultSpeed float64
	logger       *slog.Logger
}

func NewPlanner(hazardRadius, defaultSpeed float64, logger *slog.Logger) *Planner {
	if hazardRadius <= 0 {
		hazardRadius = DefaultHazardRadius
	}
	if defaultSpeed <= 0 {
		defaultSpeed = DefaultQuantumSpeed
	}
	return &Planner{
		hazardRadius: hazardRadius,
		defaultSpeed: defaultSpeed,
		logger:       logger,
	}
}

// PlanRoute builds the direct route between two objects: start, geometric
// midpoint and end, each annotated with nearby hazards and a safety score.
// Distance is the straight line between the objects' stored positions, not
// orbit-aware. Fails only when either id is unknown.
func (p *Planner) PlanRoute(system *starmap.StarSystem, startID, endID string, activeAlerts []alerts.RouteAlert, ship *Ship) (*RoutePlan, error) {
	logger := p.logger.With(
		"component", "route_planner",
		"operation", "plan_route",
		"start_id", startID,
		"end_id", endID,
	)

	start, err := system.Object(startID)
	if err != nil {
		return nil, err
	}
	end, err := system.Object(endID)
	if err != nil {
		return nil, err
	}

	speed := p.defaultSpeed
	fuelRate := 0.0
	if ship != nil {
		if ship.QuantumSpeed > 0 {
			speed = ship.QuantumSpeed
		}
		fuelRate = ship.FuelConsumptionRate
	}

	distance := geometry.Distance(start.Position, end.Position)
	midpoint := geometry.Midpoint(start.Position, end.Position)
	legDistance := distance / 2
	legTime := legDistance / speed

	waypoints := []RouteWaypoint{
		p.newWaypoint(start.ID, start.DisplayName, start.Position, 0, 0, activeAlerts),
		p.newWaypoint("", "", midpoint, legDistance, legTime, activeAlerts),
		p.newWaypoint(end.ID, end.DisplayName, end.Position, legDistance, legTime, activeAlerts),
	}

	overall := 0.0
	for _, wp := range waypoints {
		overall += wp.SafetyScore
	}
	overall /= float64(len(waypoints))

	plan := &RoutePlan{
		StartID:            startID,
		EndID:              endID,
		Waypoints:          waypoints,
		TotalDistance:      distance,
		TotalTime:          distance / speed,
		FuelRequired:       distance * fuelRate,
		OverallSafetyScore: overall,
	}

	logger.Debug("Route planned",
		"distance", plan.TotalDistance,
		"time", plan.TotalTime,
		"safety_score", plan.OverallSafetyScore,
	)
	return plan, nil
}

func (p *Planner) newWaypoint(objectID, displayName string, position geometry.Vec3, distance, time float64, activeAlerts []alerts.RouteAlert) RouteWaypoint {
	var nearby []alerts.RouteAlert
	for _, alert := range activeAlerts {
		if geometry.Distance(alert.Position, position) <= p.hazardRadius {
			nearby = append(nearby, alert)
		}
	}

	score := 100.0
	if len(nearby) > 0 {
		sum := 0.0
		for _, alert := range nearby {
			sum += alert.SafetyScore
		}
		discount := 1 - hazardCountPenalty*float64(len(nearby))
		if discount < 0 {
			discount = 0
		}
		score = (sum / float64(len(nearby))) * discount
	}

	return RouteWaypoint{
		ObjectID:    objectID,
		DisplayName: displayName,
		Position:    position,
		Distance:    distance,
		Time:        time,
		Hazards:     nearby,
		SafetyScore: score,
	}
}

// FindAlternatives searches for safer routes through a single via-point. The
// direct route is always included in the result, which is sorted safest
// first. Candidates are lagrange points, stations and direct children of the
// root; one is accepted only when its score beats the direct route by the
// required margin.
func (p *Planner) FindAlternatives(system *starmap.StarSystem, startID, endID string, activeAlerts []alerts.RouteAlert, ship *Ship, maxAlternatives int) ([]*RoutePlan, error) {
	logger := p.logger.With(
		"component", "route_planner",
		"operation", "find_alternatives",
		"start_id", startID,
		"end_id", endID,
	)

	if maxAlternatives <= 0 {
		maxAlternatives = DefaultMaxAlternatives
	}

	direct, err := p.PlanRoute(system, startID, endID, activeAlerts, ship)
	if err != nil {
		return nil, err
	}

	if direct.OverallSafetyScore >= safeRouteThreshold {
		logger.Debug("Direct route safe enough, skipping search", "safety_score", direct.OverallSafetyScore)
		return []*RoutePlan{direct}, nil
	}

	routes := []*RoutePlan{direct}
	accepted := 0

	for _, via := range p.candidateViaPoints(system, startID, endID) {
		if accepted >= maxAlternatives {
			break
		}

		first, err := p.PlanRoute(system, startID, via.ID, activeAlerts, ship)
		if err != nil {
			continue
		}
		second, err := p.PlanRoute(system, via.ID, endID, activeAlerts, ship)
		if err != nil {
			continue
		}

		combined := combineRoutes(first, second)
		if combined.OverallSafetyScore <= direct.OverallSafetyScore+alternativeMargin {
			continue
		}

		logger.Debug("Alternative route accepted",
			"via_id", via.ID,
			"safety_score", combined.OverallSafetyScore,
		)
		routes = append(routes, combined)
		accepted++
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].OverallSafetyScore > routes[j].OverallSafetyScore
	})

	return routes, nil
}

// candidateViaPoints enumerates possible detour points in deterministic
// order: lagrange points, then stations, then any direct child of the root,
// endpoints excluded and duplicates dropped.
func (p *Planner) candidateViaPoints(system *starmap.StarSystem, startID, endID string) []*starmap.CelestialObject {
	var candidates []*starmap.CelestialObject
	seen := map[string]bool{startID: true, endID: true}

	add := func(objects []*starmap.CelestialObject) {
		for _, obj := range objects {
			if seen[obj.ID] {
				continue
			}
			seen[obj.ID] = true
			candidates = append(candidates, obj)
		}
	}

	add(system.ObjectsByType(starmap.TypeLagrangePoint))
	add(system.ObjectsByType(starmap.TypeStation))
	add(system.Children(system.Root().ID))

	return candidates
}

// combineRoutes concatenates two legs sharing a via-point, dropping the
// duplicated waypoint at the join and averaging the leg scores.
func combineRoutes(first, second *RoutePlan) *RoutePlan {
	waypoints := make([]RouteWaypoint, 0, len(first.Waypoints)+len(second.Waypoints)-1)
	waypoints = append(waypoints, first.Waypoints...)
	waypoints = append(waypoints, second.Waypoints[1:]...)

	return &RoutePlan{
		StartID:            first.StartID,
		EndID:              second.EndID,
		Waypoints:          waypoints,
		TotalDistance:      first.TotalDistance + second.TotalDistance,
		TotalTime:          first.TotalTime + second.TotalTime,
		FuelRequired:       first.FuelRequired + second.FuelRequired,
		OverallSafetyScore: (first.OverallSafetyScore + second.OverallSafetyScore) / 2,
	}
}
