package sequence

import (
	"testing"
	"time"

	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/signal"
	"github.com/lixenwraith/anatomica/vmath"
)

type recordingSink struct {
	cues []string
}

func (r *recordingSink) Cue(name string) { r.cues = append(r.cues, name) }

func heartScene(t *testing.T) *scene.Registry {
	t.Helper()
	reg := scene.NewRegistry()
	names := []string{"Heart_Right_Atrium", "Heart_Left_Atrium", "Heart_Right_Ventricle", "Heart_Left_Ventricle"}
	for _, n := range names {
		if _, err := reg.Add(n, scene.Bounds{Max: vmath.Vec3{X: 10, Y: 10, Z: 10}}, scene.VisualState{Opacity: 1}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	return reg
}

func newCardiacGenerator(t *testing.T) *signal.Generator {
	t.Helper()
	gen := signal.NewGenerator(signal.ZeroNoise{})
	if err := gen.Configure(signal.CardiacPreset()); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	return gen
}

func TestPumpContractsChambersWithActivation(t *testing.T) {
	reg := heartScene(t)
	gen := newCardiacGenerator(t)
	pump := NewPump(reg, gen, nil, 60, nil)
	pump.Start()

	// Land mid P wave, where atrial activation is strong
	pump.Update(100 * time.Millisecond)

	atrium, _ := reg.Get("Heart_Right_Atrium")
	if atrium.Visual.Transform.ApproxEqual(vmath.Identity(), 1e-12) {
		t.Errorf("Expected atrium contracted during P wave")
	}
	if atrium.Visual.Ambient <= 0 {
		t.Errorf("Expected atrial glow during P wave, got %v", atrium.Visual.Ambient)
	}

	// The contraction never exceeds the configured strength
	center := atrium.Bounds.Center()
	moved := atrium.Visual.Transform.Apply(vmath.Vec3{X: 10, Y: 10, Z: 10})
	shrunk := vmath.V3Mag(vmath.V3Sub(moved, center))
	full := vmath.V3Mag(vmath.V3Sub(vmath.Vec3{X: 10, Y: 10, Z: 10}, center))
	ratio := shrunk / full
	if ratio > 1 || ratio < 1-gen.Contraction() {
		t.Errorf("Expected scale within [%v,1], got %v", 1-gen.Contraction(), ratio)
	}
}

func TestPumpForwardsEdgeCues(t *testing.T) {
	reg := heartScene(t)
	gen := newCardiacGenerator(t)
	sink := &recordingSink{}
	pump := NewPump(reg, gen, sink, 60, nil)
	pump.Start()

	// One full cycle at 30 Hz plus one tick to cross the wraparound
	for i := 0; i < 31; i++ {
		pump.Update(time.Second / 30)
	}

	atrial, ventricular := 0, 0
	for _, c := range sink.cues {
		switch c {
		case signal.EdgeAtrial:
			atrial++
		case signal.EdgeVentricular:
			ventricular++
		}
	}
	if atrial != 1 {
		t.Errorf("Expected one atrial cue per cycle, got %d", atrial)
	}
	if ventricular != 1 {
		t.Errorf("Expected one ventricular cue per cycle, got %d", ventricular)
	}
}

func TestPumpStopRestoresChambers(t *testing.T) {
	reg := heartScene(t)
	gen := newCardiacGenerator(t)
	pump := NewPump(reg, gen, nil, 72, nil)

	before := captureAll(reg)
	pump.Start()
	for i := 0; i < 10; i++ {
		pump.Update(time.Second / 30)
	}
	if statesEqual(before, captureAll(reg)) {
		t.Fatalf("Expected chambers mutated while pumping")
	}

	pump.Stop()
	if !statesEqual(before, captureAll(reg)) {
		t.Errorf("Expected chambers restored after stop")
	}
}
