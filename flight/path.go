package flight

import (
	"github.com/lixenwraith/anatomica/vmath"
)

// Pose is a complete camera orientation.
type Pose struct {
	Position   vmath.Vec3
	FocalPoint vmath.Vec3
	ViewUp     vmath.Vec3
}

// ViewDirection returns the unit vector from position toward the focal
// point.
func (p Pose) ViewDirection() vmath.Vec3 {
	return vmath.V3Normalize(vmath.V3Sub(p.FocalPoint, p.Position))
}

// Keyframe is a timestamped camera pose anchoring spline interpolation,
// with T in (0,1] for authored frames. The frame at t=0 is always the live
// camera pose captured when the path is built.
type Keyframe struct {
	T          float64
	Position   vmath.Vec3
	FocalPoint vmath.Vec3
	ViewUp     vmath.Vec3
}

// Camera is the external renderer's camera, the only scene-graph object the
// flight planner touches.
type Camera interface {
	Pose() Pose
	SetPose(Pose)
}
