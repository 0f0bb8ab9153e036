package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/engine/status"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/vmath"
)

func TestHingeTransformEndpoints(t *testing.T) {
	pivot := vmath.Vec3{X: 10, Y: 20, Z: 30}
	axis := vmath.Vec3{X: 1}

	// progress=0 is exactly identity
	h0 := HingeTransform(pivot, axis, 60, 0)
	if !h0.ApproxEqual(vmath.Identity(), 1e-12) {
		t.Errorf("Expected identity at progress=0")
	}

	// progress=1 rotates by exactly the max angle: a point one unit above
	// the pivot on Y swings through 60 degrees about X
	h1 := HingeTransform(pivot, axis, 60, 1)
	p := vmath.V3Add(pivot, vmath.Vec3{Y: 1})
	got := h1.Apply(p)
	rad := 60 * math.Pi / 180
	expected := vmath.V3Add(pivot, vmath.Vec3{Y: math.Cos(rad), Z: math.Sin(rad)})
	if !vmath.V3ApproxEqual(got, expected, 1e-9) {
		t.Errorf("Expected %+v at progress=1, got %+v", expected, got)
	}

	// The pivot itself never moves
	if !vmath.V3ApproxEqual(h1.Apply(pivot), pivot, 1e-9) {
		t.Errorf("Expected pivot to stay fixed")
	}
}

func TestHingeTransformMonotonic(t *testing.T) {
	pivot := vmath.Vec3{}
	axis := vmath.Vec3{X: 1}
	p := vmath.Vec3{Y: 1}

	// Rotation angle from identity grows with progress
	prevAngle := -1.0
	for progress := 0.0; progress <= 1.0001; progress += 0.05 {
		h := HingeTransform(pivot, axis, 60, progress)
		moved := h.Apply(p)
		angle := math.Atan2(moved.Z, moved.Y)
		if angle < prevAngle {
			t.Fatalf("Expected monotonic rotation, angle %v after %v at progress %v",
				angle, prevAngle, progress)
		}
		prevAngle = angle
	}
}

func TestComposeWithBaseOrder(t *testing.T) {
	// anim applies first, then base. With anim = +90deg about Z and
	// base = translate +X, point (1,0,0) must go to (1,1,0); the reverse
	// order would give (0,2,0).
	anim := vmath.RotationAboutAxis(vmath.Vec3{Z: 1}, 90)
	base := vmath.Translation(vmath.Vec3{X: 1})

	got := ComposeWithBase(anim, base).Apply(vmath.Vec3{X: 1})
	if !vmath.V3ApproxEqual(got, vmath.Vec3{X: 1, Y: 1, Z: 0}, 1e-12) {
		t.Errorf("Expected anim-then-base composition (1,1,0), got %+v", got)
	}
}

func TestSmoothStep(t *testing.T) {
	tests := []struct {
		p, expected float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := SmoothStep(tt.p); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("SmoothStep(%v): expected %v, got %v", tt.p, tt.expected, got)
		}
	}
}

func TestResolvePivotPrefersReference(t *testing.T) {
	reg := scene.NewRegistry()
	reg.Add("VHF_Left_Bone_Femur", scene.Bounds{
		Min: vmath.Vec3{X: 0, Y: 0, Z: 0}, Max: vmath.Vec3{X: 4, Y: 10, Z: 2},
	}, scene.VisualState{})
	reg.Add("VHF_Left_Cartilage_FemurDistal", scene.Bounds{
		Min: vmath.Vec3{X: 1, Y: 1, Z: 1}, Max: vmath.Vec3{X: 3, Y: 3, Z: 3},
	}, scene.VisualState{})

	pivot, source, err := ResolvePivot(reg, scene.TagLeft|scene.TagHingePivotRef, scene.TagLeft|scene.TagHingeParent, nil)
	if err != nil {
		t.Fatalf("ResolvePivot failed: %v", err)
	}
	if source != PivotFromReference {
		t.Errorf("Expected reference pivot source, got %v", source)
	}
	if !vmath.V3ApproxEqual(pivot, vmath.Vec3{X: 2, Y: 2, Z: 2}, 1e-12) {
		t.Errorf("Expected reference center (2,2,2), got %+v", pivot)
	}
}

func TestResolvePivotFallsBackToParentBounds(t *testing.T) {
	reg := scene.NewRegistry()
	reg.Add("VHF_Right_Bone_Femur", scene.Bounds{
		Min: vmath.Vec3{X: 0, Y: 0, Z: 0}, Max: vmath.Vec3{X: 4, Y: 10, Z: 2},
	}, scene.VisualState{})

	statusReg := status.NewRegistry()
	pivot, source, err := ResolvePivot(reg, scene.TagRight|scene.TagHingePivotRef, scene.TagRight|scene.TagHingeParent, statusReg)
	if err != nil {
		t.Fatalf("ResolvePivot failed: %v", err)
	}
	if source != PivotFromParentBounds {
		t.Errorf("Expected parent-bounds pivot source, got %v", source)
	}
	// bottom-center: x and z at box center, y at box floor
	if !vmath.V3ApproxEqual(pivot, vmath.Vec3{X: 2, Y: 0, Z: 1}, 1e-12) {
		t.Errorf("Expected bottom-center (2,0,1), got %+v", pivot)
	}
	if got := statusReg.Ints.Get("kinematics.pivot_fallbacks").Load(); got != 1 {
		t.Errorf("Expected 1 pivot fallback counted, got %d", got)
	}
}

func TestResolvePivotMissing(t *testing.T) {
	reg := scene.NewRegistry()
	_, _, err := ResolvePivot(reg, scene.TagLeft|scene.TagHingePivotRef, scene.TagLeft|scene.TagHingeParent, nil)
	if !errors.Is(err, core.ErrMissingTarget) {
		t.Errorf("Expected missing target error, got %v", err)
	}
}
