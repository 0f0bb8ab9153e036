package kinematics

import (
	"fmt"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/engine/status"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/vmath"
)

// PivotSource records which resolution tier produced a pivot.
type PivotSource int

const (
	// PivotFromReference means the designated distal reference part was
	// present and its bounds center was used.
	PivotFromReference PivotSource = iota
	// PivotFromParentBounds means the fallback fired: bottom-center of the
	// parent segment's bounding box.
	PivotFromParentBounds
)

func (s PivotSource) String() string {
	switch s {
	case PivotFromReference:
		return "reference"
	case PivotFromParentBounds:
		return "parent-bounds"
	default:
		return "unknown"
	}
}

// ResolvePivot finds the hinge pivot for a joint group. Preference order:
// the center of the tagged distal reference part (e.g. distal femur
// cartilage); otherwise the bottom-center of the tagged parent segment's
// bounding box, counted under "kinematics.pivot_fallbacks". Neither present
// means the joint cannot animate. statusReg may be nil.
func ResolvePivot(reg *scene.Registry, refTag, parentTag scene.Tag, statusReg *status.Registry) (vmath.Vec3, PivotSource, error) {
	if refTag != scene.TagNone {
		if refs := reg.ByTag(refTag); len(refs) > 0 {
			return refs[0].Bounds.Center(), PivotFromReference, nil
		}
	}
	if parentTag != scene.TagNone {
		if b, ok := reg.GroupBounds(parentTag); ok {
			if statusReg != nil {
				statusReg.Ints.Get("kinematics.pivot_fallbacks").Add(1)
			}
			return b.BottomCenter(), PivotFromParentBounds, nil
		}
	}
	return vmath.Vec3{}, 0, fmt.Errorf(
		"%w: no pivot candidate (ref tag %b, parent tag %b)", core.ErrMissingTarget, refTag, parentTag)
}
