package sequence

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/engine"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/vmath"
)

const tick = 33 * time.Millisecond

// legScene builds both legs with pivot references, in visible-human naming.
func legScene(t *testing.T) *scene.Registry {
	t.Helper()
	reg := scene.NewRegistry()
	add := func(name string, min, max vmath.Vec3) {
		if _, err := reg.Add(name, scene.Bounds{Min: min, Max: max}, scene.VisualState{Opacity: 1}); err != nil {
			t.Fatalf("Add %q failed: %v", name, err)
		}
	}
	for _, side := range []string{"Left", "Right"} {
		add("VHF_"+side+"_Bone_Femur", vmath.Vec3{X: 0, Y: 0, Z: 50}, vmath.Vec3{X: 10, Y: 10, Z: 100})
		add("VHF_"+side+"_Cartilage_FemurDistal", vmath.Vec3{X: 2, Y: 2, Z: 48}, vmath.Vec3{X: 8, Y: 8, Z: 52})
		add("VHF_"+side+"_Bone_Tibia", vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 10, Y: 10, Z: 50})
		add("VHF_"+side+"_Muscle_Soleus", vmath.Vec3{X: 1, Y: 1, Z: 5}, vmath.Vec3{X: 9, Y: 9, Z: 45})
	}
	return reg
}

func jawScene(t *testing.T) *scene.Registry {
	t.Helper()
	reg := scene.NewRegistry()
	add := func(name string, min, max vmath.Vec3) {
		if _, err := reg.Add(name, scene.Bounds{Min: min, Max: max}, scene.VisualState{Opacity: 1}); err != nil {
			t.Fatalf("Add %q failed: %v", name, err)
		}
	}
	add("Skull_Upper_Jaw", vmath.Vec3{X: 0, Y: 0, Z: 10}, vmath.Vec3{X: 20, Y: 20, Z: 20})
	add("Skull_Lower_Jaw", vmath.Vec3{X: 0, Y: 0, Z: 0}, vmath.Vec3{X: 20, Y: 20, Z: 10})
	return reg
}

func captureAll(reg *scene.Registry) map[uint64]scene.VisualState {
	var ids []uint64
	for _, e := range reg.All() {
		ids = append(ids, e.ID)
	}
	return reg.Snapshot(ids)
}

func statesEqual(a, b map[uint64]scene.VisualState) bool {
	if len(a) != len(b) {
		return false
	}
	for id, va := range a {
		if b[id] != va {
			return false
		}
	}
	return true
}

func TestTransformPhaseCompletesAndKeepsFinalPose(t *testing.T) {
	reg := legScene(t)
	s := NewSequencer("knee", reg, engine.NewManualScheduler(), nil, nil)

	phase := Phase{
		Name: "flex",
		Kind: KindTransform,
		Motions: []Motion{{
			Target:   scene.TagLowerLimb | scene.TagLeft,
			Pivot:    vmath.Vec3{X: 5, Y: 5, Z: 50},
			Axis:     vmath.Vec3{X: 1},
			AngleDeg: -60,
		}},
		DurationTicks: 10,
	}

	done := 0
	if err := s.Start(Options{Phases: []Phase{phase}, OnComplete: func() { done++ }}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		if !s.Running() {
			t.Fatalf("Expected sequence still running at tick %d", i)
		}
		s.Update(tick)
	}
	if s.Running() {
		t.Errorf("Expected idle after duration elapsed")
	}
	if done != 1 {
		t.Errorf("Expected one completion callback, got %d", done)
	}

	// Final pose is the full hinge rotation composed on the rest transform
	tibia, _ := reg.Get("VHF_Left_Bone_Tibia")
	want := vmath.AboutPoint(vmath.RotationAboutAxis(vmath.Vec3{X: 1}, -60), vmath.Vec3{X: 5, Y: 5, Z: 50})
	if !tibia.Visual.Transform.ApproxEqual(want, 1e-9) {
		t.Errorf("Expected full flex pose kept after completion")
	}
	// The femur is not in the moving group
	femur, _ := reg.Get("VHF_Left_Bone_Femur")
	if !femur.Visual.Transform.ApproxEqual(vmath.Identity(), 1e-9) {
		t.Errorf("Expected femur untouched")
	}
}

func TestReversePhaseReturnsToRest(t *testing.T) {
	reg := legScene(t)
	s := NewSequencer("knee", reg, engine.NewManualScheduler(), nil, nil)

	motion := Motion{
		Target:   scene.TagLowerLimb | scene.TagLeft,
		Pivot:    vmath.Vec3{X: 5, Y: 5, Z: 50},
		Axis:     vmath.Vec3{X: 1},
		AngleDeg: -60,
	}
	phases := []Phase{
		{Name: "flex", Kind: KindTransform, Motions: []Motion{motion}, DurationTicks: 8},
		{Name: "return", Kind: KindTransform, Motions: []Motion{motion}, DurationTicks: 8, Reverse: true},
	}
	if err := s.Start(Options{Phases: phases}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for i := 0; i < 16; i++ {
		s.Update(tick)
	}
	if s.Running() {
		t.Fatalf("Expected idle after both phases")
	}
	tibia, _ := reg.Get("VHF_Left_Bone_Tibia")
	if !tibia.Visual.Transform.ApproxEqual(vmath.Identity(), 1e-9) {
		t.Errorf("Expected rest transform after return phase, got %+v", tibia.Visual.Transform)
	}
}

func TestSignalPhaseCompletesViaDeferred(t *testing.T) {
	reg := legScene(t)
	ms := engine.NewManualScheduler()
	s := NewSequencer("leg", reg, ms, nil, nil)

	phases := []Phase{{
		Name:           "left-signal",
		Kind:           KindSignal,
		SignalTag:      scene.TagLimb | scene.TagLeft,
		SignalDuration: time.Second,
	}}
	if err := s.Start(Options{Phases: phases}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if ms.PendingCount() != 1 {
		t.Fatalf("Expected one deferred completion, got %d", ms.PendingCount())
	}

	// Ticks alone never complete a signal phase
	for i := 0; i < 50; i++ {
		s.Update(tick)
	}
	if !s.Running() {
		t.Fatalf("Expected signal phase still running before deferred fires")
	}

	// The highlight is raised while the phase runs
	femur, _ := reg.Get("VHF_Left_Bone_Femur")
	if femur.Visual.Ambient <= 0 {
		t.Errorf("Expected raised ambient during signal phase")
	}

	ms.Fire()
	s.Update(tick)
	if s.Running() {
		t.Errorf("Expected idle after deferred completion")
	}
	if math.Abs(femur.Visual.Ambient) > 1e-12 {
		t.Errorf("Expected ambient back at rest, got %v", femur.Visual.Ambient)
	}
}

func TestStopRestoresSnapshotMidPhase(t *testing.T) {
	reg := legScene(t)
	ms := engine.NewManualScheduler()
	s := NewSequencer("climb", reg, ms, nil, nil)

	before := captureAll(reg)

	phases, err := StairClimb(reg, nil)
	if err != nil {
		t.Fatalf("StairClimb failed: %v", err)
	}
	if err := s.Start(Options{Phases: phases}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Run into the middle of the left flex phase
	ms.Fire()
	for i := 0; i < KneeFlexTicks/2+1; i++ {
		s.Update(tick)
	}
	after := captureAll(reg)
	if statesEqual(before, after) {
		t.Fatalf("Expected visual state mutated mid-sequence")
	}

	s.Stop()
	if s.Running() {
		t.Errorf("Expected idle after stop")
	}
	if ms.PendingCount() != 0 {
		t.Errorf("Expected pending deferreds cancelled, got %d", ms.PendingCount())
	}
	restored := captureAll(reg)
	if !statesEqual(before, restored) {
		t.Errorf("Expected exact pre-start state after stop")
	}
}

func TestDoubleStartIsBusyWithNoStateChange(t *testing.T) {
	reg := legScene(t)
	s := NewSequencer("climb", reg, engine.NewManualScheduler(), nil, nil)

	phases, err := StairClimb(reg, nil)
	if err != nil {
		t.Fatalf("StairClimb failed: %v", err)
	}
	if err := s.Start(Options{Phases: phases}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Update(tick)

	before := captureAll(reg)
	idx := s.PhaseIndex()

	if err := s.Start(Options{Phases: phases}); !errors.Is(err, core.ErrBusy) {
		t.Fatalf("Expected busy error, got %v", err)
	}
	if s.PhaseIndex() != idx {
		t.Errorf("Expected phase index unchanged, got %d", s.PhaseIndex())
	}
	if !statesEqual(before, captureAll(reg)) {
		t.Errorf("Expected state unchanged after rejected start")
	}
}

func TestOverlappingClaimsRejected(t *testing.T) {
	reg := legScene(t)
	claims := NewClaimTable()
	a := NewSequencer("a", reg, engine.NewManualScheduler(), claims, nil)
	b := NewSequencer("b", reg, engine.NewManualScheduler(), claims, nil)

	left := []Phase{{
		Name:           "left-signal",
		Kind:           KindSignal,
		SignalTag:      scene.TagLimb | scene.TagLeft,
		SignalDuration: time.Second,
	}}
	if err := a.Start(Options{Phases: left}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Same entities from another sequencer
	if err := b.Start(Options{Phases: left}); !errors.Is(err, core.ErrBusy) {
		t.Errorf("Expected busy error for overlapping claim, got %v", err)
	}

	// Disjoint group runs concurrently
	right := []Phase{{
		Name:           "right-signal",
		Kind:           KindSignal,
		SignalTag:      scene.TagLimb | scene.TagRight,
		SignalDuration: time.Second,
	}}
	if err := b.Start(Options{Phases: right}); err != nil {
		t.Errorf("Expected disjoint group to start, got %v", err)
	}

	// Released on stop
	a.Stop()
	c := NewSequencer("c", reg, engine.NewManualScheduler(), claims, nil)
	if err := c.Start(Options{Phases: left}); err != nil {
		t.Errorf("Expected claim released after stop, got %v", err)
	}
}

func TestStartValidation(t *testing.T) {
	reg := legScene(t)
	s := NewSequencer("v", reg, engine.NewManualScheduler(), nil, nil)

	cases := []struct {
		name   string
		phases []Phase
		want   error
	}{
		{"empty list", nil, core.ErrConfiguration},
		{"zero duration transform", []Phase{{
			Kind:    KindTransform,
			Motions: []Motion{{Target: scene.TagLowerLimb | scene.TagLeft}},
		}}, core.ErrConfiguration},
		{"no motions", []Phase{{
			Kind:          KindTransform,
			DurationTicks: 10,
		}}, core.ErrConfiguration},
		{"zero duration signal", []Phase{{
			Kind:      KindSignal,
			SignalTag: scene.TagLimb,
		}}, core.ErrConfiguration},
		{"missing group", []Phase{{
			Kind:           KindSignal,
			SignalTag:      scene.TagAtrium,
			SignalDuration: time.Second,
		}}, core.ErrMissingTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.Start(Options{Phases: tc.phases}); !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
			if s.Running() {
				t.Errorf("Expected sequencer idle after rejected start")
			}
		})
	}
}

func TestStairClimbPhaseOrder(t *testing.T) {
	reg := legScene(t)
	phases, err := StairClimb(reg, nil)
	if err != nil {
		t.Fatalf("StairClimb failed: %v", err)
	}
	wantNames := []string{
		"left-signal", "left-flex", "left-return",
		"right-signal", "right-flex", "right-return",
	}
	if len(phases) != len(wantNames) {
		t.Fatalf("Expected %d phases, got %d", len(wantNames), len(phases))
	}
	for i, want := range wantNames {
		if phases[i].Name != want {
			t.Errorf("phase %d: expected %q, got %q", i, want, phases[i].Name)
		}
	}
	// The pivot prefers the distal cartilage center
	cart, _ := reg.Get("VHF_Left_Cartilage_FemurDistal")
	if !vmath.V3ApproxEqual(phases[1].Motions[0].Pivot, cart.Bounds.Center(), 1e-9) {
		t.Errorf("Expected left flex pivot at cartilage center, got %+v", phases[1].Motions[0].Pivot)
	}
}

func TestJawCycleCounterRotation(t *testing.T) {
	reg := jawScene(t)
	phases, err := JawCycle(reg)
	if err != nil {
		t.Fatalf("JawCycle failed: %v", err)
	}
	if len(phases) != 3 {
		t.Fatalf("Expected 3 phases, got %d", len(phases))
	}
	open := phases[1]
	if len(open.Motions) != 2 {
		t.Fatalf("Expected lower and upper motions in one phase, got %d", len(open.Motions))
	}
	lower, upper := open.Motions[0], open.Motions[1]
	if lower.AngleDeg != JawOpenDeg {
		t.Errorf("Expected lower jaw angle %v, got %v", JawOpenDeg, lower.AngleDeg)
	}
	if upper.AngleDeg != -JawOpenDeg*JawCounterFactor {
		t.Errorf("Expected upper counter-angle %v, got %v", -JawOpenDeg*JawCounterFactor, upper.AngleDeg)
	}
	if upper.Translate.Z <= 0 {
		t.Errorf("Expected upward lift on the upper jaw, got %v", upper.Translate.Z)
	}

	// Running open then close lands both jaws back on their rest transforms
	ms := engine.NewManualScheduler()
	s := NewSequencer("jaw", reg, ms, nil, nil)
	if err := s.Start(Options{Phases: phases}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	ms.Fire()
	for i := 0; i < 2*JawOpenTicks+1; i++ {
		s.Update(tick)
	}
	if s.Running() {
		t.Fatalf("Expected jaw cycle finished")
	}
	for _, name := range []string{"Skull_Upper_Jaw", "Skull_Lower_Jaw"} {
		e, _ := reg.Get(name)
		if !e.Visual.Transform.ApproxEqual(vmath.Identity(), 1e-9) {
			t.Errorf("Expected %q back at rest transform", name)
		}
	}
}

func TestPhaseCallbackSequence(t *testing.T) {
	reg := jawScene(t)
	ms := engine.NewManualScheduler()
	s := NewSequencer("jaw", reg, ms, nil, nil)

	phases, err := JawCycle(reg)
	if err != nil {
		t.Fatalf("JawCycle failed: %v", err)
	}
	var names []string
	opts := Options{
		Phases:  phases,
		OnPhase: func(_ int, name string) { names = append(names, name) },
	}
	if err := s.Start(opts); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	ms.Fire()
	for i := 0; i < 2*JawOpenTicks+1; i++ {
		s.Update(tick)
	}
	want := []string{"teeth-signal", "open", "close"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d phase callbacks, got %d (%v)", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("callback %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}
