package sequence

import (
	"fmt"
	"time"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/engine/status"
	"github.com/lixenwraith/anatomica/kinematics"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/vmath"
)

// Choreography constants from the reference motion studies.
const (
	KneeFlexDeg   = -60.0
	KneeFlexTicks = 30

	JawOpenDeg = 15.0
	// The upper jaw counter-rotates at a tenth of the lower's angle and
	// lifts slightly, keeping the bite line visually centered.
	JawCounterFactor = 0.1
	JawOpenTicks     = 30

	LegSignalDuration   = 1200 * time.Millisecond
	TeethSignalDuration = 800 * time.Millisecond
)

// hingeAxis is the left-right axis both the knee and the jaw rotate about.
var hingeAxis = vmath.Vec3{X: 1}

// StairClimb builds the alternating-leg climb: signal runs down the left
// leg, the left knee flexes and returns, then the right leg repeats. Pivots
// are resolved once here, before any phase runs. statusReg may be nil.
func StairClimb(reg *scene.Registry, statusReg *status.Registry) ([]Phase, error) {
	var phases []Phase
	for _, side := range []struct {
		name string
		tag  scene.Tag
	}{
		{"left", scene.TagLeft},
		{"right", scene.TagRight},
	} {
		pivot, _, err := kinematics.ResolvePivot(reg,
			scene.TagHingePivotRef|side.tag, scene.TagHingeParent|side.tag, statusReg)
		if err != nil {
			return nil, fmt.Errorf("%s knee: %w", side.name, err)
		}
		flex := Motion{
			Target:   scene.TagLowerLimb | side.tag,
			Pivot:    pivot,
			Axis:     hingeAxis,
			AngleDeg: KneeFlexDeg,
		}
		phases = append(phases,
			Phase{
				Name:           side.name + "-signal",
				Kind:           KindSignal,
				SignalTag:      scene.TagLimb | side.tag,
				SignalDuration: LegSignalDuration,
			},
			Phase{
				Name:          side.name + "-flex",
				Kind:          KindTransform,
				Motions:       []Motion{flex},
				DurationTicks: KneeFlexTicks,
			},
			Phase{
				Name:          side.name + "-return",
				Kind:          KindTransform,
				Motions:       []Motion{flex},
				DurationTicks: KneeFlexTicks,
				Reverse:       true,
			},
		)
	}
	return phases, nil
}

// JawCycle builds the bite cycle: signal the teeth, swing the lower jaw
// open with a slight upper counter-tilt and lift, then close. Both jaws
// move in the same phase so the motion stays coupled.
func JawCycle(reg *scene.Registry) ([]Phase, error) {
	lowerBounds, ok := reg.GroupBounds(scene.TagLowerJaw)
	if !ok {
		return nil, fmt.Errorf("%w: no lower jaw entities", core.ErrMissingTarget)
	}
	if _, ok := reg.GroupBounds(scene.TagUpperJaw); !ok {
		return nil, fmt.Errorf("%w: no upper jaw entities", core.ErrMissingTarget)
	}

	pivot := lowerBounds.Center()
	lift := (lowerBounds.Max.Z - lowerBounds.Min.Z) * 0.05

	open := []Motion{
		{
			Target:   scene.TagLowerJaw,
			Pivot:    pivot,
			Axis:     hingeAxis,
			AngleDeg: JawOpenDeg,
		},
		{
			Target:    scene.TagUpperJaw,
			Pivot:     pivot,
			Axis:      hingeAxis,
			AngleDeg:  -JawOpenDeg * JawCounterFactor,
			Translate: vmath.Vec3{Z: lift},
		},
	}
	return []Phase{
		{
			Name:           "teeth-signal",
			Kind:           KindSignal,
			SignalTag:      scene.TagJaw,
			SignalDuration: TeethSignalDuration,
		},
		{
			Name:          "open",
			Kind:          KindTransform,
			Motions:       open,
			DurationTicks: JawOpenTicks,
		},
		{
			Name:          "close",
			Kind:          KindTransform,
			Motions:       open,
			DurationTicks: JawOpenTicks,
			Reverse:       true,
		},
	}, nil
}
