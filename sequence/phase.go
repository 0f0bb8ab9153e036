package sequence

import (
	"time"

	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/vmath"
)

// Kind selects how a phase progresses and completes.
type Kind int

const (
	// KindTransform advances proportionally to elapsed ticks and completes
	// when progress reaches 1.
	KindTransform Kind = iota
	// KindSignal holds a highlight on its target group and completes via a
	// deferred callback after SignalDuration, decoupled from tick cadence.
	KindSignal
)

func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Motion is one rigid movement applied to a tagged entity group during a
// TRANSFORM phase. Rotation happens about Pivot, then Translate lifts the
// group; both are eased together by the phase's progress.
type Motion struct {
	Target    scene.Tag
	Pivot     vmath.Vec3
	Axis      vmath.Vec3
	AngleDeg  float64
	Translate vmath.Vec3
}

// Phase is one step of a choreography.
type Phase struct {
	Name string
	Kind Kind

	// TRANSFORM fields.
	Motions       []Motion
	DurationTicks int
	// Reverse runs the eased progress from 1 back to 0 (return to rest).
	Reverse bool

	// SIGNAL fields.
	SignalTag      scene.Tag
	SignalDuration time.Duration
}
