package sequence

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/engine"
	"github.com/lixenwraith/anatomica/engine/status"
	"github.com/lixenwraith/anatomica/kinematics"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/signal"
	"github.com/lixenwraith/anatomica/vmath"
)

// signalPulsePeriodTicks paces the highlight pulse during a SIGNAL phase.
const signalPulsePeriodTicks = 15

// Options configures one run of a sequence.
type Options struct {
	Phases []Phase
	// OnPhase fires when a phase begins, for UI label sync.
	OnPhase func(index int, name string)
	// OnComplete fires once when the final phase completes. Not fired on Stop.
	OnComplete func()
}

// Sequencer drives one ordered phase list to completion. All mutation
// happens inside Update ticks; the only cross-tick suspension is the SIGNAL
// phase's deferred callback, which marks a flag consumed on the next tick.
type Sequencer struct {
	name   string
	reg    *scene.Registry
	sched  engine.Scheduler
	claims *ClaimTable

	running  bool
	phases   []Phase
	index    int
	step     int
	snapshot map[uint64]scene.VisualState
	bases    map[uint64]vmath.Transform
	onPhase  func(int, string)
	onDone   func()

	pending    engine.CancelFunc
	signalDone atomic.Bool

	signalAmbient float64

	statCompleted *atomic.Int64
	statStopped   *atomic.Int64
}

// NewSequencer creates an idle sequencer. A nil scheduler uses real timers;
// a nil claim table gives the sequencer a private one (no cross-sequence
// exclusion). statusReg may be nil.
func NewSequencer(name string, reg *scene.Registry, sched engine.Scheduler, claims *ClaimTable, statusReg *status.Registry) *Sequencer {
	if sched == nil {
		sched = engine.TimerScheduler{}
	}
	if claims == nil {
		claims = NewClaimTable()
	}
	if statusReg == nil {
		statusReg = status.NewRegistry()
	}
	return &Sequencer{
		name:          name,
		reg:           reg,
		sched:         sched,
		claims:        claims,
		signalAmbient: signal.DefaultGlow,
		statCompleted: statusReg.Ints.Get("sequence." + name + ".completed"),
		statStopped:   statusReg.Ints.Get("sequence." + name + ".stopped"),
	}
}

func (s *Sequencer) Name() string { return s.name }

func (s *Sequencer) Running() bool { return s.running }

// PhaseIndex returns the current phase index, -1 when idle.
func (s *Sequencer) PhaseIndex() int {
	if !s.running {
		return -1
	}
	return s.index
}

func (s *Sequencer) PhaseName() string {
	if !s.running {
		return ""
	}
	return s.phases[s.index].Name
}

// SetSignalAmbient overrides the highlight strength used by SIGNAL phases.
func (s *Sequencer) SetSignalAmbient(v float64) { s.signalAmbient = v }

// Start validates the phase list, claims its entities, snapshots their
// visual state, and begins phase 0. A running sequencer or an overlapping
// claim rejects with ErrBusy and zero state change.
func (s *Sequencer) Start(opts Options) error {
	if s.running {
		return fmt.Errorf("%w: sequence %q already running", core.ErrBusy, s.name)
	}
	if len(opts.Phases) == 0 {
		return fmt.Errorf("%w: empty phase list", core.ErrConfiguration)
	}
	for _, p := range opts.Phases {
		switch p.Kind {
		case KindTransform:
			if p.DurationTicks <= 0 {
				return fmt.Errorf("%w: phase %q has non-positive duration", core.ErrConfiguration, p.Name)
			}
			if len(p.Motions) == 0 {
				return fmt.Errorf("%w: phase %q has no motions", core.ErrConfiguration, p.Name)
			}
		case KindSignal:
			if p.SignalDuration <= 0 {
				return fmt.Errorf("%w: phase %q has non-positive signal duration", core.ErrConfiguration, p.Name)
			}
			if p.SignalTag == scene.TagNone {
				return fmt.Errorf("%w: phase %q has no signal target", core.ErrConfiguration, p.Name)
			}
		}
	}

	// Validate-before-mutate: every referenced group must exist.
	ids, err := s.touchedIDs(opts.Phases)
	if err != nil {
		return err
	}
	if err := s.claims.Claim(s, ids); err != nil {
		return err
	}

	s.phases = opts.Phases
	s.onPhase = opts.OnPhase
	s.onDone = opts.OnComplete
	s.snapshot = s.reg.Snapshot(ids)

	// Motions pose against the rest transform each entity held before the
	// sequence started, so a Reverse phase lands back exactly on it.
	s.bases = make(map[uint64]vmath.Transform, len(s.snapshot))
	for id, vs := range s.snapshot {
		s.bases[id] = vs.Transform
	}

	s.running = true
	s.index = 0
	s.enterPhase()
	return nil
}

// touchedIDs resolves every group a phase references, failing if any tagged
// group has no entities.
func (s *Sequencer) touchedIDs(phases []Phase) ([]uint64, error) {
	seen := make(map[uint64]struct{})
	var ids []uint64
	collect := func(name string, tag scene.Tag) error {
		group := s.reg.ByTag(tag)
		if len(group) == 0 {
			return fmt.Errorf("%w: phase %q references an empty group", core.ErrMissingTarget, name)
		}
		for _, e := range group {
			if _, dup := seen[e.ID]; !dup {
				seen[e.ID] = struct{}{}
				ids = append(ids, e.ID)
			}
		}
		return nil
	}
	for _, p := range phases {
		if p.SignalTag != 0 {
			if err := collect(p.Name, p.SignalTag); err != nil {
				return nil, err
			}
		}
		for _, m := range p.Motions {
			if err := collect(p.Name, m.Target); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

// Stop cancels any pending deferred callback, restores every touched entity
// to its pre-start state synchronously, and returns to idle. Total: no
// partial cancellation is observable.
func (s *Sequencer) Stop() {
	if !s.running {
		return
	}
	s.cancelPending()
	s.signalDone.Store(false)
	s.reg.Restore(s.snapshot)
	s.snapshot = nil
	s.bases = nil
	s.phases = nil
	s.running = false
	s.index = 0
	s.step = 0
	s.claims.Release(s)
	s.statStopped.Add(1)
}

// Update advances the current phase by one tick.
func (s *Sequencer) Update(dt time.Duration) error {
	if !s.running {
		return nil
	}
	p := s.phases[s.index]
	switch p.Kind {
	case KindSignal:
		s.step++
		if s.signalDone.Swap(false) {
			s.pending = nil
			s.exitSignal(p)
			s.advance()
			return nil
		}
		s.pulseSignal(p)
	case KindTransform:
		s.step++
		progress := float64(s.step) / float64(p.DurationTicks)
		if progress > 1 {
			progress = 1
		}
		s.applyMotions(p, progress)
		if progress >= 1 {
			s.advance()
		}
	}
	return nil
}

func (s *Sequencer) enterPhase() {
	p := s.phases[s.index]
	s.step = 0
	if p.Kind == KindSignal {
		s.pulseSignal(p)
		s.pending = s.sched.After(p.SignalDuration, func() {
			s.signalDone.Store(true)
		})
	}
	if s.onPhase != nil {
		s.onPhase(s.index, p.Name)
	}
}

// pulseSignal breathes the highlight on the signal group.
func (s *Sequencer) pulseSignal(p Phase) {
	cycle := 2 * math.Pi * float64(s.step) / signalPulsePeriodTicks
	ambient := s.signalAmbient * (0.75 + 0.25*math.Cos(cycle))
	s.reg.SetVisual(p.SignalTag, func(e *scene.Entity) {
		e.Visual.Ambient = ambient
	})
}

// exitSignal returns the signal group's ambient to its snapshot value.
func (s *Sequencer) exitSignal(p Phase) {
	s.reg.SetVisual(p.SignalTag, func(e *scene.Entity) {
		if prev, ok := s.snapshot[e.ID]; ok {
			e.Visual.Ambient = prev.Ambient
		}
	})
}

// applyMotions poses every motion's group at the eased progress, composing
// the animation onto the transform each entity held when the phase began.
func (s *Sequencer) applyMotions(p Phase, progress float64) {
	if p.Reverse {
		progress = 1 - progress
	}
	eased := kinematics.SmoothStep(progress)
	for _, m := range p.Motions {
		anim := kinematics.HingeTransform(m.Pivot, m.Axis, m.AngleDeg, eased)
		if m.Translate != (vmath.Vec3{}) {
			lift := vmath.Translation(vmath.V3Scale(m.Translate, eased))
			anim = vmath.TCompose(lift, anim)
		}
		s.reg.SetVisual(m.Target, func(e *scene.Entity) {
			base, ok := s.bases[e.ID]
			if !ok {
				base = e.Visual.Transform
			}
			e.Visual.Transform = kinematics.ComposeWithBase(anim, base)
		})
	}
}

func (s *Sequencer) advance() {
	s.index++
	if s.index < len(s.phases) {
		s.enterPhase()
		return
	}
	// Success keeps the final pose; the snapshot is cleared, not restored.
	s.snapshot = nil
	s.bases = nil
	s.phases = nil
	s.running = false
	s.index = 0
	s.step = 0
	s.claims.Release(s)
	s.statCompleted.Add(1)
	if s.onDone != nil {
		done := s.onDone
		s.onDone = nil
		done()
	}
}

func (s *Sequencer) cancelPending() {
	if s.pending != nil {
		s.pending()
		s.pending = nil
	}
}
