package vmath

import (
	"math"
)

// Vec3 is a float64 3D vector. Camera paths and pivot math run entirely in
// float64; there is no fixed-point hot path in this engine.
type Vec3 struct {
	X, Y, Z float64
}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func V3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3Mag(v Vec3) float64 {
	return math.Sqrt(V3MagSq(v))
}

func V3Normalize(v Vec3) Vec3 {
	mag := V3Mag(v)
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3Lerp interpolates linearly between a (t=0) and b (t=1).
func V3Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3Perpendicular returns an arbitrary unit vector perpendicular to n.
// n need not be normalized. Zero input yields the X axis.
func V3Perpendicular(n Vec3) Vec3 {
	// Cross with the axis n is least aligned with to avoid degeneracy
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	var other Vec3
	switch {
	case ax <= ay && ax <= az:
		other = Vec3{X: 1}
	case ay <= az:
		other = Vec3{Y: 1}
	default:
		other = Vec3{Z: 1}
	}
	p := V3Cross(n, other)
	if V3MagSq(p) == 0 {
		return Vec3{X: 1}
	}
	return V3Normalize(p)
}

// V3ApproxEqual reports component-wise equality within eps.
func V3ApproxEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Z-b.Z) <= eps
}
