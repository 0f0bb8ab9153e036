package kinematics

import (
	"math"

	"github.com/lixenwraith/anatomica/vmath"
)

// Hinge describes a stylized single-axis joint rotation. Joint motion here
// is a visual choreography primitive, not simulated dynamics.
type Hinge struct {
	Pivot       vmath.Vec3
	Axis        vmath.Vec3
	MaxAngleDeg float64
}

// HingeTransform returns the rotation of progress*maxAngleDeg degrees about
// axis through pivot. Identity at progress=0, the full angle at progress=1,
// monotonic in between.
func HingeTransform(pivot, axis vmath.Vec3, maxAngleDeg, progress float64) vmath.Transform {
	return vmath.AboutPoint(vmath.RotationAboutAxis(axis, progress*maxAngleDeg), pivot)
}

// ComposeWithBase combines the animation transform with an entity's base
// transform. The animation transform applies first, then the base. The
// reverse order produces a visibly different pose, so this order is part of
// the contract.
func ComposeWithBase(anim, base vmath.Transform) vmath.Transform {
	return vmath.TCompose(base, anim)
}

// SmoothStep is the cosine ease used for jaw-style open/close motion:
// 0.5 - 0.5*cos(pi*p). Maps [0,1] onto [0,1] with zero end velocity.
func SmoothStep(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return 0.5 - 0.5*math.Cos(p*math.Pi)
}
