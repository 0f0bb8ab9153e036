package vmath

import (
	"math"
)

// Transform is a 4x4 affine transform in row-major order, applied to column
// vectors: p' = M * p. Only the top three rows carry data; the bottom row is
// always (0, 0, 0, 1).
type Transform struct {
	M [16]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{M: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translation returns a transform that moves points by v.
func Translation(v Vec3) Transform {
	t := Identity()
	t.M[3] = v.X
	t.M[7] = v.Y
	t.M[11] = v.Z
	return t
}

// Scaling returns a uniform scale about the origin.
func Scaling(s float64) Transform {
	t := Identity()
	t.M[0] = s
	t.M[5] = s
	t.M[10] = s
	return t
}

// RotationAboutAxis returns a rotation of angleDeg degrees about the given
// axis through the origin (Rodrigues form). The axis need not be normalized.
func RotationAboutAxis(axis Vec3, angleDeg float64) Transform {
	u := V3Normalize(axis)
	if V3MagSq(u) == 0 {
		return Identity()
	}
	rad := angleDeg * math.Pi / 180.0
	c := math.Cos(rad)
	s := math.Sin(rad)
	ic := 1 - c

	t := Identity()
	t.M[0] = c + u.X*u.X*ic
	t.M[1] = u.X*u.Y*ic - u.Z*s
	t.M[2] = u.X*u.Z*ic + u.Y*s
	t.M[4] = u.Y*u.X*ic + u.Z*s
	t.M[5] = c + u.Y*u.Y*ic
	t.M[6] = u.Y*u.Z*ic - u.X*s
	t.M[8] = u.Z*u.X*ic - u.Y*s
	t.M[9] = u.Z*u.Y*ic + u.X*s
	t.M[10] = c + u.Z*u.Z*ic
	return t
}

// TCompose returns a*b: the transform that applies b first, then a.
func TCompose(a, b Transform) Transform {
	var r Transform
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.M[row*4+k] * b.M[k*4+col]
			}
			r.M[row*4+col] = sum
		}
	}
	return r
}

// Apply transforms point p.
func (t Transform) Apply(p Vec3) Vec3 {
	return Vec3{
		t.M[0]*p.X + t.M[1]*p.Y + t.M[2]*p.Z + t.M[3],
		t.M[4]*p.X + t.M[5]*p.Y + t.M[6]*p.Z + t.M[7],
		t.M[8]*p.X + t.M[9]*p.Y + t.M[10]*p.Z + t.M[11],
	}
}

// ApproxEqual reports element-wise equality within eps.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	for i := range t.M {
		if math.Abs(t.M[i]-o.M[i]) > eps {
			return false
		}
	}
	return true
}

// AboutPoint wraps a transform so it acts about the given point instead of
// the origin: T(p) * t * T(-p).
func AboutPoint(t Transform, p Vec3) Transform {
	return TCompose(Translation(p), TCompose(t, Translation(V3Scale(p, -1))))
}
