package alerts

import "time"

const (
	// DefaultConfirmationWeight and DefaultDisputeWeight are the vote
	// weights used when a caller passes no overrides.
	DefaultConfirmationWeight = 0.7
	DefaultDisputeWeight      = 0.3

	// DefaultDecayRate scales the age-based decay fraction.
	DefaultDecayRate = 0.5

	// InitialSafetyScore is stamped on a freshly reported alert: presumed
	// dangerous until the community weighs in.
	InitialSafetyScore = 20

	neutralSafetyScore = 50
)

// SafetyScore computes the 0-100 safety score (higher = safer) from vote
// counts. With no votes the score is neutral. The formula is kept exactly as
// shipped, including its non-obvious behavior under non-default weights;
// scoring_test.go pins the current behavior rather than re-deriving it.
func SafetyScore(confirmations, disputes int, confirmationWeight, disputeWeight float64) float64 {
	total := confirmations + disputes
	if total == 0 {
		return neutralSafetyScore
	}

	confirmationRatio := float64(confirmations) / float64(total)
	score := 100 - confirmationRatio*100*confirmationWeight + (1-confirmationRatio)*100*disputeWeight

	return clamp(score, 0, 100)
}

// Decay returns the fraction of the alert's lifetime that has elapsed,
// scaled by decayRate and clamped to [0,1].
func Decay(createdAt, expiresAt, now int64, decayRate float64) float64 {
	lifetime := expiresAt - createdAt
	if lifetime <= 0 {
		return 1
	}

	elapsed := float64(now-createdAt) / float64(lifetime)
	return clamp(elapsed*decayRate, 0, 1)
}

// IsActive reports whether the alert has not yet expired at the given time.
// Expiry is exclusive: an alert is inactive at exactly expiresAt.
func IsActive(expiresAt, now int64) bool {
	return now < expiresAt
}

// CanReport reports whether the user may file a new alert in the region:
// true unless they already have one newer than the throttle window.
func CanReport(userID, regionID string, existing []RouteAlert, now int64, throttle time.Duration) bool {
	cutoff := now - throttle.Milliseconds()
	for _, alert := range existing {
		if alert.CreatedBy == userID && alert.RegionID == regionID && alert.CreatedAt > cutoff {
			return false
		}
	}
	return true
}

// Rescore recomputes the alert's safety score from its current vote maps
// using the default weights.
func (a *RouteAlert) Rescore() {
	a.SafetyScore = SafetyScore(a.ConfirmationCount(), a.DisputeCount(), DefaultConfirmationWeight, DefaultDisputeWeight)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
