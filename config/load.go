package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/flight"
	"github.com/lixenwraith/anatomica/signal"
)

// Default returns the configuration the engine runs with when no file is
// given: cardiac waveform preset, 30 Hz ticks, resting heart rate.
func Default() *File {
	preset := signal.CardiacPreset()
	wf := Waveform{
		NoiseSigma:  signal.DefaultNoiseSigma,
		Contraction: signal.DefaultContraction,
		Glow:        signal.DefaultGlow,
	}
	for _, ev := range preset.Events {
		wf.Events = append(wf.Events, Event{ev.Name, ev.Center, ev.Width, ev.Amplitude})
	}
	for _, rg := range preset.Regions {
		wf.Regions = append(wf.Regions, Event{rg.Name, rg.Center, rg.Width, rg.Amplitude})
	}
	for _, tr := range preset.Triggers {
		wf.Triggers = append(wf.Triggers, Trigger{tr.Name, tr.Fraction})
	}
	return &File{
		Version:  1,
		Engine:   Engine{TickHz: 30, BPM: 60},
		Waveform: wf,
		Flight: Flight{
			DurationTicks: 300,
			DimOpacity:    0.2,
			Dive:          Dive{Depth: 60, Radius: 15, LookAhead: 20, Steps: 10},
		},
		Tours: []Tour{bloodFlowTour()},
	}
}

// bloodFlowTour captures the authored circulation path as a config preset,
// so a written default file carries it and users can edit the keyframes.
func bloodFlowTour() Tour {
	tour := Tour{Name: "blood-flow"}
	for _, kf := range flight.BloodFlowTour() {
		tour.Keyframes = append(tour.Keyframes, Keyframe{
			T:          kf.T,
			Position:   [3]float64{kf.Position.X, kf.Position.Y, kf.Position.Z},
			FocalPoint: [3]float64{kf.FocalPoint.X, kf.FocalPoint.Y, kf.FocalPoint.Z},
			ViewUp:     [3]float64{kf.ViewUp.X, kf.ViewUp.Y, kf.ViewUp.Z},
		})
	}
	return tour
}

// Read loads and validates a configuration file.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	return Parse(data)
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Write saves a configuration file.
func Write(f *File, path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the whole document before any of it reaches the engine.
func (f *File) Validate() error {
	if f.Engine.TickHz <= 0 {
		return fmt.Errorf("%w: tick_hz %d must be positive", core.ErrConfiguration, f.Engine.TickHz)
	}
	if f.Engine.BPM <= 0 {
		return fmt.Errorf("%w: bpm %v must be positive", core.ErrConfiguration, f.Engine.BPM)
	}
	for _, ev := range append(append([]Event(nil), f.Waveform.Events...), f.Waveform.Regions...) {
		if ev.Width <= 0 {
			return fmt.Errorf("%w: event %q has non-positive width", core.ErrConfiguration, ev.Name)
		}
	}
	for _, tr := range f.Waveform.Triggers {
		if tr.Fraction < 0 || tr.Fraction >= 1 {
			return fmt.Errorf("%w: trigger %q fraction %v outside [0,1)", core.ErrConfiguration, tr.Name, tr.Fraction)
		}
	}
	if f.Flight.DurationTicks <= 0 {
		return fmt.Errorf("%w: flight duration_ticks must be positive", core.ErrConfiguration)
	}
	if f.Flight.Dive.Steps <= 0 {
		return fmt.Errorf("%w: dive steps must be positive", core.ErrConfiguration)
	}
	for _, tour := range f.Tours {
		if len(tour.Keyframes) == 0 {
			return fmt.Errorf("%w: tour %q has no keyframes", core.ErrConfiguration, tour.Name)
		}
		prev := 0.0
		for _, kf := range tour.Keyframes {
			if kf.T <= prev || kf.T > 1 {
				return fmt.Errorf("%w: tour %q keyframe times must increase within (0,1]", core.ErrConfiguration, tour.Name)
			}
			prev = kf.T
		}
	}
	for _, ch := range f.Choreographies {
		if len(ch.Phases) == 0 {
			return fmt.Errorf("%w: choreography %q has no phases", core.ErrConfiguration, ch.Name)
		}
		for _, p := range ch.Phases {
			switch p.Kind {
			case "signal":
				if p.Group == "" || p.SignalMs <= 0 {
					return fmt.Errorf("%w: signal phase %q needs a group and positive signal_ms", core.ErrConfiguration, p.Name)
				}
			case "transform":
				if len(p.Motions) == 0 || p.DurationTicks <= 0 {
					return fmt.Errorf("%w: transform phase %q needs motions and positive duration_ticks", core.ErrConfiguration, p.Name)
				}
				for _, m := range p.Motions {
					if m.Group == "" {
						return fmt.Errorf("%w: motion in phase %q has no group", core.ErrConfiguration, p.Name)
					}
					if m.Axis == ([3]float64{}) {
						return fmt.Errorf("%w: motion in phase %q has a zero axis", core.ErrConfiguration, p.Name)
					}
				}
			default:
				return fmt.Errorf("%w: phase %q has unknown kind %q", core.ErrConfiguration, p.Name, p.Kind)
			}
		}
	}
	return nil
}
