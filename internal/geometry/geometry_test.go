package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vecAlmostEqual(a, b Vec3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"zero", Vec3{}, Vec3{}, 0},
		{"unit x", Vec3{}, Vec3{X: 1}, 1},
		{"pythagorean", Vec3{}, Vec3{X: 3, Y: 4}, 5},
		{"large scale", Vec3{X: 1_000_000}, Vec3{}, 1_000_000},
		{"negative components", Vec3{X: -2, Y: -3, Z: -6}, Vec3{}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	t.Parallel()

	got := Midpoint(Vec3{X: 2, Y: 4, Z: 6}, Vec3{X: 4, Y: 8, Z: 10})
	want := Vec3{X: 3, Y: 6, Z: 8}
	if !vecAlmostEqual(got, want) {
		t.Errorf("Midpoint = %v, want %v", got, want)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	t.Parallel()

	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize(zero) = %v, want zero vector", got)
	}
}

func TestIsFinite(t *testing.T) {
	t.Parallel()

	if !(Vec3{X: 1, Y: 2, Z: 3}).IsFinite() {
		t.Error("finite vector reported as non-finite")
	}
	if (Vec3{X: math.NaN()}).IsFinite() {
		t.Error("NaN component reported as finite")
	}
	if (Vec3{Z: math.Inf(1)}).IsFinite() {
		t.Error("Inf component reported as finite")
	}
}

func TestIdentityQuaternionToEuler(t *testing.T) {
	t.Parallel()

	e := IdentityQuaternion().ToEuler()
	if !almostEqual(e.Pitch, 0) || !almostEqual(e.Yaw, 0) || !almostEqual(e.Roll, 0) {
		t.Errorf("identity rotation = %+v, want all zero", e)
	}
}

func TestQuaternionToEulerYaw(t *testing.T) {
	t.Parallel()

	// 90 degrees around the z axis.
	half := math.Pi / 4
	q := Quaternion{W: math.Cos(half), Z: math.Sin(half)}
	e := q.ToEuler()
	if !almostEqual(e.Yaw, 90) {
		t.Errorf("yaw = %v, want 90", e.Yaw)
	}
	if !almostEqual(e.Pitch, 0) || !almostEqual(e.Roll, 0) {
		t.Errorf("pitch/roll = %v/%v, want 0/0", e.Pitch, e.Roll)
	}
}

func TestOrbitPath(t *testing.T) {
	t.Parallel()

	local := Vec3{X: 100}
	points := OrbitPath(local, 100)
	if len(points) != 100 {
		t.Fatalf("got %d points, want 100", len(points))
	}

	radius := local.Length()
	for i, p := range points {
		if !almostEqual(p.Length(), radius) {
			t.Fatalf("point %d has radius %v, want %v", i, p.Length(), radius)
		}
		// Every sampled point lies in the plane perpendicular to local.
		if !almostEqual(p.Dot(local), 0) {
			t.Fatalf("point %d not perpendicular to position vector: dot = %v", i, p.Dot(local))
		}
	}
}

func TestOrbitPathNearParallelToUp(t *testing.T) {
	t.Parallel()

	// Position along the up axis forces the alternate basis axis; the cross
	// product must not degenerate.
	points := OrbitPath(Vec3{Y: 50}, 10)
	if len(points) != 10 {
		t.Fatalf("got %d points, want 10", len(points))
	}
	for i, p := range points {
		if !p.IsFinite() {
			t.Fatalf("point %d is not finite: %v", i, p)
		}
		if !almostEqual(p.Length(), 50) {
			t.Fatalf("point %d has radius %v, want 50", i, p.Length())
		}
	}
}

func TestOrbitPathDegenerate(t *testing.T) {
	t.Parallel()

	if got := OrbitPath(Vec3{}, 100); got != nil {
		t.Errorf("OrbitPath(zero) = %v, want nil", got)
	}
	if got := OrbitPath(Vec3{X: 1}, 0); got != nil {
		t.Errorf("OrbitPath(steps=0) = %v, want nil", got)
	}
}
