// Package alerts implements hazard reports: community-scored, time-bounded
// alerts that the route planner queries geometrically against the starmap.
package alerts

import (
	"starmap-server/internal/geometry"
)

// AlertType is the closed set of hazard categories.
type AlertType string

const (
	AlertPirate   AlertType = "pirate"
	AlertSecurity AlertType = "security"
	AlertDebris   AlertType = "debris"
	AlertAnomaly  AlertType = "anomaly"
	AlertTrade    AlertType = "trade"
)

// ValidAlertType reports whether t is one of the known hazard categories.
func ValidAlertType(t AlertType) bool {
	switch t {
	case AlertPirate, AlertSecurity, AlertDebris, AlertAnomaly, AlertTrade:
		return true
	}
	return false
}

// RouteAlert is one hazard report. Confirmations and disputes are
// per-reporter timestamp maps (epoch millis), matching the persisted shape.
// Alerts expire but are never deleted by this service; TTL sweeping belongs
// to an external job.
type RouteAlert struct {
	ID            string           `json:"id"`
	Position      geometry.Vec3    `json:"position"`
	RegionID      string           `json:"regionId"`
	Type          AlertType        `json:"alertType"`
	CreatedBy     string           `json:"createdBy"`
	CreatedAt     int64            `json:"createdAt"`
	ExpiresAt     int64            `json:"expiresAt"`
	Confirmations map[string]int64 `json:"confirmations"`
	Disputes      map[string]int64 `json:"disputes"`
	ShardID       string           `json:"shardId"`
	SafetyScore   float64          `json:"safetyScore"`
}

// ConfirmationCount returns the number of distinct confirming reporters.
func (a *RouteAlert) ConfirmationCount() int {
	return len(a.Confirmations)
}

// DisputeCount returns the number of distinct disputing reporters.
func (a *RouteAlert) DisputeCount() int {
	return len(a.Disputes)
}
