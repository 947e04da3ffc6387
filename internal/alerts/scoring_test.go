package alerts

import (
	"testing"
	"time"
)

func TestSafetyScoreNoVotes(t *testing.T) {
	t.Parallel()

	if got := SafetyScore(0, 0, DefaultConfirmationWeight, DefaultDisputeWeight); got != 50 {
		t.Errorf("SafetyScore(0,0) = %v, want 50", got)
	}
}

func TestSafetyScoreConfirmationsLowerScore(t *testing.T) {
	t.Parallel()

	got := SafetyScore(10, 0, DefaultConfirmationWeight, DefaultDisputeWeight)
	if got >= 50 {
		t.Errorf("SafetyScore(10,0) = %v, want < 50", got)
	}
	// Pin the exact value under default weights: 100 - 1.0*100*0.7 + 0.
	if got != 30 {
		t.Errorf("SafetyScore(10,0) = %v, want 30", got)
	}
}

func TestSafetyScoreDisputesRaiseScore(t *testing.T) {
	t.Parallel()

	// All-dispute: 100 - 0 + 1.0*100*0.3 = 130, clamped to 100.
	if got := SafetyScore(0, 10, DefaultConfirmationWeight, DefaultDisputeWeight); got != 100 {
		t.Errorf("SafetyScore(0,10) = %v, want 100", got)
	}
}

func TestSafetyScoreMixedVotes(t *testing.T) {
	t.Parallel()

	// Half confirmed: 100 - 0.5*70 + 0.5*30 = 80. The formula is preserved
	// as shipped; this pins its current behavior.
	if got := SafetyScore(5, 5, DefaultConfirmationWeight, DefaultDisputeWeight); got != 80 {
		t.Errorf("SafetyScore(5,5) = %v, want 80", got)
	}
}

func TestSafetyScoreClamped(t *testing.T) {
	t.Parallel()

	// Extreme weights push past the bounds; the result stays within [0,100].
	for conf := 0; conf <= 10; conf++ {
		for disp := 0; disp <= 10; disp++ {
			got := SafetyScore(conf, disp, 2.0, 2.0)
			if got < 0 || got > 100 {
				t.Fatalf("SafetyScore(%d,%d,2,2) = %v, outside [0,100]", conf, disp, got)
			}
		}
	}
}

func TestSafetyScoreVoteDirection(t *testing.T) {
	t.Parallel()

	// Pins the formula's direction as shipped: more confirmations never
	// raise the score, more disputes never lower it. A silent rewrite of
	// the formula fails loudly here.
	for disp := 0; disp <= 5; disp++ {
		prev := SafetyScore(0, disp, DefaultConfirmationWeight, DefaultDisputeWeight)
		for conf := 1; conf <= 10; conf++ {
			got := SafetyScore(conf, disp, DefaultConfirmationWeight, DefaultDisputeWeight)
			if got > prev {
				t.Fatalf("score rose from %v to %v at conf=%d disp=%d", prev, got, conf, disp)
			}
			prev = got
		}
	}

	for conf := 0; conf <= 5; conf++ {
		prev := SafetyScore(conf, 0, DefaultConfirmationWeight, DefaultDisputeWeight)
		for disp := 1; disp <= 10; disp++ {
			got := SafetyScore(conf, disp, DefaultConfirmationWeight, DefaultDisputeWeight)
			if got < prev {
				t.Fatalf("score fell from %v to %v at conf=%d disp=%d", prev, got, conf, disp)
			}
			prev = got
		}
	}
}

func TestDecay(t *testing.T) {
	t.Parallel()

	createdAt := int64(0)
	expiresAt := int64(1000)

	tests := []struct {
		name string
		now  int64
		rate float64
		want float64
	}{
		{"fresh", 0, DefaultDecayRate, 0},
		{"halfway at default rate", 500, DefaultDecayRate, 0.25},
		{"expired at default rate", 1000, DefaultDecayRate, 0.5},
		{"full rate at expiry", 1000, 1.0, 1},
		{"clamped past expiry", 3000, 1.0, 1},
		{"clamped before creation", -500, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decay(createdAt, expiresAt, tt.now, tt.rate); got != tt.want {
				t.Errorf("Decay(now=%d, rate=%v) = %v, want %v", tt.now, tt.rate, got, tt.want)
			}
		})
	}
}

func TestDecayZeroLifetime(t *testing.T) {
	t.Parallel()

	if got := Decay(1000, 1000, 1000, DefaultDecayRate); got != 1 {
		t.Errorf("Decay(zero lifetime) = %v, want 1", got)
	}
}

func TestIsActive(t *testing.T) {
	t.Parallel()

	if !IsActive(1000, 999) {
		t.Error("alert inactive just before expiry")
	}
	if IsActive(1000, 1000) {
		t.Error("alert active at exact expiry, want strict inequality")
	}
	if IsActive(1000, 1001) {
		t.Error("alert active after expiry")
	}
}

func TestCanReport(t *testing.T) {
	t.Parallel()

	now := time.Now().UnixMilli()
	throttle := 5 * time.Minute

	recent := RouteAlert{CreatedBy: "pilot1", RegionID: "crusader", CreatedAt: now - time.Minute.Milliseconds()}
	stale := RouteAlert{CreatedBy: "pilot1", RegionID: "crusader", CreatedAt: now - 10*time.Minute.Milliseconds()}
	otherRegion := RouteAlert{CreatedBy: "pilot1", RegionID: "hurston", CreatedAt: now}
	otherUser := RouteAlert{CreatedBy: "pilot2", RegionID: "crusader", CreatedAt: now}

	tests := []struct {
		name     string
		existing []RouteAlert
		want     bool
	}{
		{"no alerts", nil, true},
		{"recent same region", []RouteAlert{recent}, false},
		{"stale same region", []RouteAlert{stale}, true},
		{"recent other region", []RouteAlert{otherRegion}, true},
		{"recent other user", []RouteAlert{otherUser}, true},
		{"mixed", []RouteAlert{stale, otherUser, recent}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanReport("pilot1", "crusader", tt.existing, now, throttle); got != tt.want {
				t.Errorf("CanReport = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRescore(t *testing.T) {
	t.Parallel()

	alert := RouteAlert{
		Confirmations: map[string]int64{"a": 1, "b": 2},
		Disputes:      map[string]int64{"c": 3},
	}
	alert.Rescore()

	want := SafetyScore(2, 1, DefaultConfirmationWeight, DefaultDisputeWeight)
	if alert.SafetyScore != want {
		t.Errorf("Rescore = %v, want %v", alert.SafetyScore, want)
	}
}
