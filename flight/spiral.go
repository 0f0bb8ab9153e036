package flight

import (
	"fmt"
	"math"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/vmath"
)

// DiveParams configures a procedural spiral dive toward a picked point.
type DiveParams struct {
	Target    vmath.Vec3 // picked surface point
	Normal    vmath.Vec3 // surface normal at the pick, pointing outward
	Depth     float64    // how far past the surface the dive goes
	Radius    float64    // spiral radius at the surface
	LookAhead float64    // focal distance beyond the current depth point
	Steps     int        // synthesized keyframe count
}

// DefaultDiveParams returns the standard dive for a pick result.
func DefaultDiveParams(target, normal vmath.Vec3) DiveParams {
	return DiveParams{
		Target:    target,
		Normal:    normal,
		Depth:     60,
		Radius:    15,
		LookAhead: 20,
		Steps:     10,
	}
}

// SpiralDivePath synthesizes keyframes that corkscrew the camera two full
// turns down the pick normal. The spiral radius shrinks linearly to zero at
// the target so the camera converges on the dive axis.
func SpiralDivePath(p DiveParams) ([]Keyframe, error) {
	if p.Steps <= 0 {
		return nil, fmt.Errorf("%w: dive steps %d", core.ErrConfiguration, p.Steps)
	}
	if vmath.V3MagSq(p.Normal) == 0 {
		return nil, fmt.Errorf("%w: zero dive normal", core.ErrConfiguration)
	}

	n := vmath.V3Normalize(p.Normal)
	v1 := vmath.V3Perpendicular(n)
	v2 := vmath.V3Cross(n, v1)

	frames := make([]Keyframe, 0, p.Steps)
	for i := 1; i <= p.Steps; i++ {
		t := float64(i) / float64(p.Steps)

		depthPoint := vmath.V3Sub(p.Target, vmath.V3Scale(n, t*p.Depth))

		angle := t * 4 * math.Pi // two full turns
		shrink := p.Radius * (1 - t)
		offset := vmath.V3Add(
			vmath.V3Scale(v1, shrink*math.Cos(angle)),
			vmath.V3Scale(v2, shrink*math.Sin(angle)),
		)

		frames = append(frames, Keyframe{
			T:          t,
			Position:   vmath.V3Add(depthPoint, offset),
			FocalPoint: vmath.V3Sub(p.Target, vmath.V3Scale(n, t*p.Depth+p.LookAhead)),
			ViewUp:     v2,
		})
	}
	return frames, nil
}
