// Package geometry provides the 3D math used by the starmap: positions,
// rotations, distances and orbit-path sampling. All types are plain values
// with no state beyond their components.
package geometry

import "math"

// Vec3 is a 3D vector. Object positions are parent-relative unless a caller
// has explicitly composed them into absolute coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has zero length.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsFinite reports whether all three components are finite numbers.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Distance returns the straight-line distance between two points.
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vec3) Vec3 {
	return a.Add(b).Scale(0.5)
}

// Quaternion is a rotation in w,x,y,z order. The identity rotation is
// {1,0,0,0}.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IdentityQuaternion returns the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// EulerAngles holds a rotation decomposed into degrees around each axis.
type EulerAngles struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// ToEuler converts the quaternion to pitch/yaw/roll in degrees. The pitch
// term is clamped at the gimbal poles.
func (q Quaternion) ToEuler() EulerAngles {
	// roll (x axis)
	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := math.Atan2(sinrCosp, cosrCosp)

	// pitch (y axis)
	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	var pitch float64
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	// yaw (z axis)
	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := math.Atan2(sinyCosp, cosyCosp)

	const toDeg = 180 / math.Pi
	return EulerAngles{
		Pitch: pitch * toDeg,
		Yaw:   yaw * toDeg,
		Roll:  roll * toDeg,
	}
}

// orbitUpThreshold is the |cos| above which the local position is treated as
// parallel to the primary up axis and the alternate axis is used instead.
const orbitUpThreshold = 0.999

// OrbitPath samples steps points on the circle of radius |local| lying in the
// plane perpendicular to local. The basis is derived from a fixed up vector,
// swapped to the X axis when local is near-parallel to up. Returns nil when
// local has zero length or steps is not positive.
func OrbitPath(local Vec3, steps int) []Vec3 {
	radius := local.Length()
	if radius == 0 || steps <= 0 {
		return nil
	}

	normal := local.Normalize()
	up := Vec3{Y: 1}
	if math.Abs(normal.Dot(up)) > orbitUpThreshold {
		up = Vec3{X: 1}
	}

	b1 := up.Cross(normal).Normalize()
	b2 := normal.Cross(b1).Normalize()

	points := make([]Vec3, 0, steps)
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		p := b1.Scale(radius * math.Cos(theta)).Add(b2.Scale(radius * math.Sin(theta)))
		points = append(points, p)
	}
	return points
}
