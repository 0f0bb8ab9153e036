package scene

import (
	"github.com/lixenwraith/anatomica/vmath"
)

// VisualState is the per-entity mutable state touched by animation: one value
// type so snapshot/restore is a plain copy.
type VisualState struct {
	Opacity   float64
	Ambient   float64
	Transform vmath.Transform
}

// ClipPlane is an infinite plane clipping geometry on its negative side.
type ClipPlane struct {
	Origin vmath.Vec3
	Normal vmath.Vec3
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max vmath.Vec3
}

// Center returns the box center.
func (b Bounds) Center() vmath.Vec3 {
	return vmath.V3Scale(vmath.V3Add(b.Min, b.Max), 0.5)
}

// BottomCenter returns the center of the box floor (minimum Y), the fallback
// hinge pivot when no distal reference part exists.
func (b Bounds) BottomCenter() vmath.Vec3 {
	c := b.Center()
	return vmath.Vec3{X: c.X, Y: b.Min.Y, Z: c.Z}
}

// Union expands b to contain o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: vmath.Vec3{X: min(b.Min.X, o.Min.X), Y: min(b.Min.Y, o.Min.Y), Z: min(b.Min.Z, o.Min.Z)},
		Max: vmath.Vec3{X: max(b.Max.X, o.Max.X), Y: max(b.Max.Y, o.Max.Y), Z: max(b.Max.Z, o.Max.Z)},
	}
}

// Entity is one named anatomical part registered with the scene.
type Entity struct {
	ID     uint64
	Name   string
	Tags   Tag
	Bounds Bounds
	Visual VisualState

	clipPlanes []ClipPlane
}

// ClipPlanes returns a copy of the entity's clip-plane set.
func (e *Entity) ClipPlanes() []ClipPlane {
	return append([]ClipPlane(nil), e.clipPlanes...)
}

// SetClipPlanes replaces the entity's clip-plane set.
func (e *Entity) SetClipPlanes(planes []ClipPlane) {
	e.clipPlanes = append(e.clipPlanes[:0:0], planes...)
}
