// Package routeplan builds point-to-point navigation routes over a built
// star system, annotated with nearby hazard alerts and a heuristic safety
// score. Routes are ephemeral: recomputed per query, owned by the caller,
// persisted only on explicit request.
package routeplan

import (
	"starmap-server/internal/alerts"
	"starmap-server/internal/geometry"
)

// Ship carries the performance numbers that turn distance into travel time
// and fuel. A nil ship plans at the default quantum speed with no fuel
// accounting.
type Ship struct {
	Name                string  `json:"name"`
	QuantumSpeed        float64 `json:"quantumSpeed"`
	FuelConsumptionRate float64 `json:"fuelConsumptionRate"`
}

// RouteWaypoint is one stop along a planned route. Distance and time are
// incremental from the previous waypoint.
type RouteWaypoint struct {
	ObjectID    string              `json:"objectId"`
	DisplayName string              `json:"displayName,omitempty"`
	Position    geometry.Vec3       `json:"position"`
	Distance    float64             `json:"distance"`
	Time        float64             `json:"time"`
	Hazards     []alerts.RouteAlert `json:"hazards"`
	SafetyScore float64             `json:"safetyScore"`
}

// RoutePlan is a fully annotated route between two objects.
type RoutePlan struct {
	StartID            string          `json:"startId"`
	EndID              string          `json:"endId"`
	Waypoints          []RouteWaypoint `json:"waypoints"`
	TotalDistance      float64         `json:"totalDistance"`
	TotalTime          float64         `json:"totalTime"`
	FuelRequired       float64         `json:"fuelRequired"`
	OverallSafetyScore float64         `json:"overallSafetyScore"`
}

// SavedRoute is the persisted form of a plan a user chose to keep.
type SavedRoute struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Plan      RoutePlan `json:"plan"`
	CreatedAt int64     `json:"createdAt"`
}
