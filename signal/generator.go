package signal

import (
	"fmt"
	"math"

	"github.com/lixenwraith/anatomica/core"
)

// DefaultNoiseSigma matches the measurement jitter of the reference waveform.
const DefaultNoiseSigma = 0.02

// Default visual coupling strengths for region activation.
const (
	DefaultContraction = 0.15
	DefaultGlow        = 0.6
)

// Config is the full waveform configuration consumed by Configure.
type Config struct {
	Events   []Event
	Regions  []Event
	Triggers []Trigger
}

// Generator synthesizes a repeating physiological waveform. Advance is a
// pure function of accumulated phase and configuration apart from the
// injected noise source; edge detection state (the previous normalized
// phase) lives here so call sites never compare thresholds themselves.
type Generator struct {
	cfg   Config
	noise Noise

	bpm          float64
	cycleSeconds float64
	phaseSeconds float64
	prevNorm     float64
	primed       bool // first Advance must not fire wraparound edges

	contraction float64
	glow        float64
}

// NewGenerator creates a generator with the given noise source. A nil noise
// source runs silent.
func NewGenerator(noise Noise) *Generator {
	if noise == nil {
		noise = ZeroNoise{}
	}
	return &Generator{
		noise:       noise,
		contraction: DefaultContraction,
		glow:        DefaultGlow,
	}
}

// Contraction is the scale reduction applied to a region at full activation.
func (g *Generator) Contraction() float64 { return g.contraction }

// Glow is the ambient lighting boost applied to a region at full activation.
func (g *Generator) Glow() float64 { return g.glow }

func (g *Generator) SetContraction(v float64) { g.contraction = v }

func (g *Generator) SetGlow(v float64) { g.glow = v }

// Configure replaces the waveform configuration. Trigger fractions must lie
// in [0,1) and event widths must be positive.
func (g *Generator) Configure(cfg Config) error {
	for _, ev := range append(append([]Event(nil), cfg.Events...), cfg.Regions...) {
		if ev.Width <= 0 {
			return fmt.Errorf("%w: event %q has non-positive width", core.ErrConfiguration, ev.Name)
		}
	}
	for _, tr := range cfg.Triggers {
		if tr.Fraction < 0 || tr.Fraction >= 1 {
			return fmt.Errorf("%w: trigger %q fraction %v outside [0,1)", core.ErrConfiguration, tr.Name, tr.Fraction)
		}
	}
	g.cfg = Config{
		Events:   append([]Event(nil), cfg.Events...),
		Regions:  append([]Event(nil), cfg.Regions...),
		Triggers: append([]Trigger(nil), cfg.Triggers...),
	}
	return nil
}

// CycleSeconds returns the current cycle length (60/bpm), zero before the
// first Advance.
func (g *Generator) CycleSeconds() float64 {
	return g.cycleSeconds
}

// Advance moves the waveform forward by dt seconds at the given BPM and
// returns the sample for the new phase. A BPM change recomputes the cycle
// length without resetting accumulated phase, so the waveform stays
// continuous across speed adjustments.
func (g *Generator) Advance(dt float64, bpm float64) (Sample, error) {
	if bpm <= 0 {
		return Sample{}, fmt.Errorf("%w: bpm %v must be positive", core.ErrConfiguration, bpm)
	}
	if dt < 0 {
		return Sample{}, fmt.Errorf("%w: negative dt %v", core.ErrConfiguration, dt)
	}

	if bpm != g.bpm {
		g.bpm = bpm
		g.cycleSeconds = 60.0 / bpm
	}

	g.phaseSeconds += dt
	wrapped := false
	for g.phaseSeconds >= g.cycleSeconds {
		g.phaseSeconds -= g.cycleSeconds
		wrapped = true
	}

	norm := g.phaseSeconds / g.cycleSeconds

	sample := Sample{Regions: make(map[string]float64, len(g.cfg.Regions))}

	for _, ev := range g.cfg.Events {
		sample.Total += gaussian(norm, ev.Center, ev.Width, ev.Amplitude)
	}
	sample.Total += g.noise.Sample()

	for _, rg := range g.cfg.Regions {
		sample.Regions[rg.Name] = gaussian(norm, rg.Center, rg.Width, rg.Amplitude)
	}

	if g.primed {
		for _, tr := range g.cfg.Triggers {
			if crossed(g.prevNorm, norm, wrapped, tr.Fraction) {
				sample.Edges = append(sample.Edges, tr.Name)
			}
		}
	}
	g.prevNorm = norm
	g.primed = true

	return sample, nil
}

// crossed reports whether the normalized phase moved across fraction f
// between the previous and current tick, handling wraparound. Correctness is
// independent of tick rate: each fraction is crossed exactly once per cycle
// traversal no matter how coarse the sampling.
func crossed(prev, curr float64, wrapped bool, f float64) bool {
	if wrapped {
		// The phase passed through 1.0 -> 0.0; f fired if it lay beyond the
		// previous sample or at/before the current one.
		return f > prev || f <= curr
	}
	return prev < f && f <= curr
}

// Phase returns the current normalized phase in [0,1).
func (g *Generator) Phase() float64 {
	if g.cycleSeconds == 0 {
		return 0
	}
	return math.Mod(g.phaseSeconds/g.cycleSeconds, 1)
}
