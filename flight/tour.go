package flight

import (
	"github.com/lixenwraith/anatomica/vmath"
)

// BloodFlowTour returns the authored circulation tour for the demo heart
// model: approach and enter the vena cava, drop through the right atrium
// into the ventricle, climb the aorta, and pull back out. Keyframe
// coordinates are in the demo model's space.
func BloodFlowTour() []Keyframe {
	kf := func(t float64, pos, fp, up vmath.Vec3) Keyframe {
		return Keyframe{T: t, Position: pos, FocalPoint: fp, ViewUp: up}
	}
	zUp := vmath.Vec3{Z: 1}

	return []Keyframe{
		kf(0.1, vmath.Vec3{X: 20, Y: 100, Z: 10}, vmath.Vec3{X: 20, Y: 60, Z: 0}, zUp),                        // approach vena cava
		kf(0.2, vmath.Vec3{X: 20, Y: 60, Z: 0}, vmath.Vec3{X: 20, Y: 40, Z: 0}, zUp),                          // enter vena cava
		kf(0.3, vmath.Vec3{X: 20, Y: 45, Z: 0}, vmath.Vec3{X: 15, Y: 35, Z: 0}, vmath.Vec3{X: 1, Y: 0, Z: 1}), // banking turn toward right atrium
		kf(0.4, vmath.Vec3{X: 15, Y: 35, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 0}, zUp),                            // inside right atrium, looking down
		kf(0.5, vmath.Vec3{X: 10, Y: 15, Z: 0}, vmath.Vec3{X: 0, Y: 0, Z: 0}, zUp),                            // moving into ventricle
		kf(0.6, vmath.Vec3{X: 0, Y: 10, Z: 0}, vmath.Vec3{X: 0, Y: 40, Z: 0}, zUp),                            // ventricle floor, looking up at aorta
		kf(0.7, vmath.Vec3{X: 0, Y: 30, Z: 0}, vmath.Vec3{X: 0, Y: 50, Z: 0}, vmath.Vec3{X: -1, Y: 0, Z: 1}),  // climbing into aorta, banking left
		kf(0.8, vmath.Vec3{X: 0, Y: 60, Z: 0}, vmath.Vec3{X: 0, Y: 100, Z: 0}, zUp),                           // flying up through aorta
		kf(0.9, vmath.Vec3{X: 0, Y: 120, Z: 20}, vmath.Vec3{X: 0, Y: 0, Z: 0}, zUp),                           // exiting, pulling back
		kf(1.0, vmath.Vec3{X: 0, Y: 200, Z: 50}, vmath.Vec3{X: 0, Y: 0, Z: 0}, zUp),                           // far overview
	}
}
