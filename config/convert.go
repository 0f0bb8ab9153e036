package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/flight"
	"github.com/lixenwraith/anatomica/kinematics"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/sequence"
	"github.com/lixenwraith/anatomica/signal"
	"github.com/lixenwraith/anatomica/vmath"
)

// tagNames maps document group names to capability tags. Composite groups
// join names with "+", e.g. "lower-limb+left".
var tagNames = map[string]scene.Tag{
	"atrium":          scene.TagAtrium,
	"ventricle":       scene.TagVentricle,
	"artery":          scene.TagArtery,
	"vein":            scene.TagVein,
	"upper-jaw":       scene.TagUpperJaw,
	"lower-jaw":       scene.TagLowerJaw,
	"jaw":             scene.TagJaw,
	"left":            scene.TagLeft,
	"right":           scene.TagRight,
	"lower-limb":      scene.TagLowerLimb,
	"limb":            scene.TagLimb,
	"hinge-pivot-ref": scene.TagHingePivotRef,
	"hinge-parent":    scene.TagHingeParent,
}

// ParseTag resolves a group name like "lower-limb+left" to its tag mask.
// The empty name is TagNone.
func ParseTag(name string) (scene.Tag, error) {
	if name == "" {
		return scene.TagNone, nil
	}
	var tag scene.Tag
	for _, part := range strings.Split(name, "+") {
		t, ok := tagNames[strings.TrimSpace(part)]
		if !ok {
			return 0, fmt.Errorf("%w: unknown group %q", core.ErrConfiguration, part)
		}
		tag |= t
	}
	return tag, nil
}

func vec3(a [3]float64) vmath.Vec3 {
	return vmath.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// SignalConfig converts the waveform section for the generator.
func (f *File) SignalConfig() signal.Config {
	var cfg signal.Config
	for _, ev := range f.Waveform.Events {
		cfg.Events = append(cfg.Events, signal.Event{Name: ev.Name, Center: ev.Center, Width: ev.Width, Amplitude: ev.Amplitude})
	}
	for _, rg := range f.Waveform.Regions {
		cfg.Regions = append(cfg.Regions, signal.Event{Name: rg.Name, Center: rg.Center, Width: rg.Width, Amplitude: rg.Amplitude})
	}
	for _, tr := range f.Waveform.Triggers {
		cfg.Triggers = append(cfg.Triggers, signal.Trigger{Name: tr.Name, Fraction: tr.Fraction})
	}
	return cfg
}

// TourKeyframes returns the named tour as flight keyframes.
func (f *File) TourKeyframes(name string) ([]flight.Keyframe, error) {
	for _, tour := range f.Tours {
		if tour.Name != name {
			continue
		}
		out := make([]flight.Keyframe, 0, len(tour.Keyframes))
		for _, kf := range tour.Keyframes {
			out = append(out, flight.Keyframe{
				T:          kf.T,
				Position:   vec3(kf.Position),
				FocalPoint: vec3(kf.FocalPoint),
				ViewUp:     vec3(kf.ViewUp),
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: no tour named %q", core.ErrConfiguration, name)
}

// DiveParams converts the dive section around a picked target.
func (f *File) DiveParams(target, normal vmath.Vec3) flight.DiveParams {
	return flight.DiveParams{
		Target:    target,
		Normal:    normal,
		Depth:     f.Flight.Dive.Depth,
		Radius:    f.Flight.Dive.Radius,
		LookAhead: f.Flight.Dive.LookAhead,
		Steps:     f.Flight.Dive.Steps,
	}
}

// Choreography builds the named phase list against the live scene, resolving
// group tags and motion pivots.
func (f *File) Choreography(name string, reg *scene.Registry) ([]sequence.Phase, error) {
	var doc *Choreography
	for i := range f.Choreographies {
		if f.Choreographies[i].Name == name {
			doc = &f.Choreographies[i]
			break
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: no choreography named %q", core.ErrConfiguration, name)
	}

	var phases []sequence.Phase
	for _, p := range doc.Phases {
		switch p.Kind {
		case "signal":
			tag, err := ParseTag(p.Group)
			if err != nil {
				return nil, err
			}
			phases = append(phases, sequence.Phase{
				Name:           p.Name,
				Kind:           sequence.KindSignal,
				SignalTag:      tag,
				SignalDuration: time.Duration(p.SignalMs) * time.Millisecond,
			})
		case "transform":
			var motions []sequence.Motion
			for _, m := range p.Motions {
				motion, err := buildMotion(m, reg)
				if err != nil {
					return nil, fmt.Errorf("phase %q: %w", p.Name, err)
				}
				motions = append(motions, motion)
			}
			phases = append(phases, sequence.Phase{
				Name:          p.Name,
				Kind:          sequence.KindTransform,
				Motions:       motions,
				DurationTicks: p.DurationTicks,
				Reverse:       p.Reverse,
			})
		}
	}
	return phases, nil
}

func buildMotion(m Motion, reg *scene.Registry) (sequence.Motion, error) {
	tag, err := ParseTag(m.Group)
	if err != nil {
		return sequence.Motion{}, err
	}

	var pivot vmath.Vec3
	if m.PivotRef != "" || m.PivotParent != "" {
		refTag, err := ParseTag(m.PivotRef)
		if err != nil {
			return sequence.Motion{}, err
		}
		parentTag, err := ParseTag(m.PivotParent)
		if err != nil {
			return sequence.Motion{}, err
		}
		pivot, _, err = kinematics.ResolvePivot(reg, refTag, parentTag, nil)
		if err != nil {
			return sequence.Motion{}, err
		}
	} else {
		bounds, ok := reg.GroupBounds(tag)
		if !ok {
			return sequence.Motion{}, fmt.Errorf("%w: group %q has no entities", core.ErrMissingTarget, m.Group)
		}
		pivot = bounds.Center()
	}

	return sequence.Motion{
		Target:    tag,
		Pivot:     pivot,
		Axis:      vec3(m.Axis),
		AngleDeg:  m.AngleDeg,
		Translate: vec3(m.Translate),
	}, nil
}
