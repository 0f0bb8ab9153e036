package scene

import (
	"errors"
	"testing"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/vmath"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		expected Tag
	}{
		{"Heart_Right_Atrium", TagAtrium},
		{"Heart_Left_Ventricle", TagVentricle},
		{"Aorta", TagArtery},
		{"Vena_Cava_Superior", TagVein},
		{"Upper_Incisor_1", TagUpperJaw},
		{"Lower_Molar_3", TagLowerJaw},
		{"VHF_Left_Bone_Tibia", TagLeft | TagLimb | TagLowerLimb},
		{"VHF_Right_Bone_Tibia_smooth", TagRight | TagLimb | TagLowerLimb},
		{"VHF_Left_Bone_Femur", TagLeft | TagLimb | TagHingeParent},
		{"VHF_Right_Cartilage_FemurDistal", TagRight | TagLimb | TagHingePivotRef},
		{"VHF_Left_Bone_Pelvis", TagLeft},
		{"VHF_Left_Muscle_Soleus", TagLeft | TagLimb | TagLowerLimb},
		{"Brain_Cortex", TagNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.name)
			if got != tt.expected {
				t.Errorf("Expected tags %b, got %b", tt.expected, got)
			}
		})
	}
}

func TestRegistryAddAndLookup(t *testing.T) {
	r := NewRegistry()
	e, err := r.Add("Heart_Right_Atrium", Bounds{}, VisualState{Opacity: 1})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if e.ID == 0 {
		t.Errorf("Expected non-zero id")
	}
	if !e.Tags.Has(TagAtrium) {
		t.Errorf("Expected atrium tag on %q", e.Name)
	}

	if _, ok := r.Get("Heart_Right_Atrium"); !ok {
		t.Errorf("Expected lookup by name to succeed")
	}
	if _, ok := r.ByID(e.ID); !ok {
		t.Errorf("Expected lookup by id to succeed")
	}

	if _, err := r.Add("Heart_Right_Atrium", Bounds{}, VisualState{}); !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("Expected configuration error for duplicate name, got %v", err)
	}
}

func TestRegistrySnapshotRestore(t *testing.T) {
	r := NewRegistry()
	e, _ := r.Add("Heart_Left_Ventricle", Bounds{}, VisualState{Opacity: 0.8, Ambient: 0.2, Transform: vmath.Identity()})

	snap := r.Snapshot([]uint64{e.ID})

	// Mutate everything the snapshot covers
	e.Visual.Opacity = 0.1
	e.Visual.Ambient = 0.9
	e.Visual.Transform = vmath.Translation(vmath.Vec3{X: 5})

	r.Restore(snap)

	if e.Visual.Opacity != 0.8 || e.Visual.Ambient != 0.2 {
		t.Errorf("Expected restored visual state, got %+v", e.Visual)
	}
	if !e.Visual.Transform.ApproxEqual(vmath.Identity(), 0) {
		t.Errorf("Expected restored transform")
	}
}

func TestRegistryGroupBounds(t *testing.T) {
	r := NewRegistry()
	r.Add("VHF_Left_Bone_Tibia", Bounds{Min: vmath.Vec3{X: 0, Y: 0, Z: 0}, Max: vmath.Vec3{X: 1, Y: 1, Z: 1}}, VisualState{})
	r.Add("VHF_Left_Bone_Fibula", Bounds{Min: vmath.Vec3{X: -2, Y: 0, Z: 0}, Max: vmath.Vec3{X: 0, Y: 3, Z: 1}}, VisualState{})

	b, ok := r.GroupBounds(TagLeft | TagLowerLimb)
	if !ok {
		t.Fatalf("Expected group bounds")
	}
	if b.Min != (vmath.Vec3{X: -2, Y: 0, Z: 0}) || b.Max != (vmath.Vec3{X: 1, Y: 3, Z: 1}) {
		t.Errorf("Expected union bounds, got %+v", b)
	}

	if _, ok := r.GroupBounds(TagUpperJaw); ok {
		t.Errorf("Expected no bounds for empty group")
	}
}

func TestEntityClipPlaneCopySemantics(t *testing.T) {
	e := &Entity{}
	planes := []ClipPlane{{Origin: vmath.Vec3{X: 1}, Normal: vmath.Vec3{Y: 1}}}
	e.SetClipPlanes(planes)

	planes[0].Origin.X = 99
	got := e.ClipPlanes()
	if got[0].Origin.X != 1 {
		t.Errorf("Expected caller mutation not to reach stored planes, got %+v", got[0])
	}

	got[0].Normal.Y = 42
	if e.ClipPlanes()[0].Normal.Y != 1 {
		t.Errorf("Expected returned slice mutation not to reach stored planes")
	}
}
