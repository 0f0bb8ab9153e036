package flight

import (
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/vmath"
)

// TunnelTracker maintains the clip plane that follows the camera during a
// flight, hiding geometry behind it so the view reads as flying through a
// tunnel. It owns every entity's clip-plane set while active and restores
// each entity's prior set (which may be a user-authored clip) on End.
type TunnelTracker struct {
	reg    *scene.Registry
	saved  map[uint64][]scene.ClipPlane
	active bool
}

// NewTunnelTracker creates a tracker over the registry.
func NewTunnelTracker(reg *scene.Registry) *TunnelTracker {
	return &TunnelTracker{reg: reg}
}

// Active reports whether the tracker currently owns the scene's clip sets.
func (tt *TunnelTracker) Active() bool { return tt.active }

// Begin saves every entity's clip-plane set and installs the tracked plane
// at the given starting pose.
func (tt *TunnelTracker) Begin(pose Pose) {
	if tt.active {
		return
	}
	tt.saved = make(map[uint64][]scene.ClipPlane)
	for _, e := range tt.reg.All() {
		tt.saved[e.ID] = e.ClipPlanes()
	}
	tt.active = true
	tt.Track(pose)
}

// Track moves the clip plane to the current camera pose: origin at the
// camera position, normal pointing backward along the view direction so
// geometry behind the camera is clipped.
func (tt *TunnelTracker) Track(pose Pose) {
	if !tt.active {
		return
	}
	plane := scene.ClipPlane{
		Origin: pose.Position,
		Normal: vmath.V3Scale(pose.ViewDirection(), -1),
	}
	planes := []scene.ClipPlane{plane}
	for _, e := range tt.reg.All() {
		e.SetClipPlanes(planes)
	}
}

// End removes the tracked plane and restores each entity's saved clip set.
// Idempotent; runs the restoration at most once per Begin.
func (tt *TunnelTracker) End() {
	if !tt.active {
		return
	}
	for _, e := range tt.reg.All() {
		if prior, ok := tt.saved[e.ID]; ok {
			e.SetClipPlanes(prior)
		}
	}
	tt.saved = nil
	tt.active = false
}
