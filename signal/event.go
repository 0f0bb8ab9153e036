package signal

import (
	"math"
)

// Event is one named Gaussian bump positioned within a normalized [0,1)
// cycle. Immutable configuration.
type Event struct {
	Name      string
	Center    float64 // fraction of cycle
	Width     float64 // fraction of cycle
	Amplitude float64
}

// Trigger is a named edge event fired once per cycle when the normalized
// phase crosses Fraction.
type Trigger struct {
	Name     string
	Fraction float64
}

// Sample is one immutable waveform snapshot produced per tick.
type Sample struct {
	// Total is the noised sum of all event bumps, for plotting.
	Total float64
	// Regions maps region name to its un-noised, un-summed bump value in
	// [0,1], so region intensity is exactly reproducible.
	Regions map[string]float64
	// Edges holds the triggers whose fraction was crossed on this tick.
	Edges []string
}

// HasEdge reports whether the named trigger fired in this sample.
func (s Sample) HasEdge(name string) bool {
	for _, e := range s.Edges {
		if e == name {
			return true
		}
	}
	return false
}

// gaussian is the bump kernel shared by graph events and region scales.
func gaussian(t, center, width, amplitude float64) float64 {
	sigma := width / 4
	d := t - center
	return amplitude * math.Exp(-(d*d)/(2*sigma*sigma))
}

// Cardiac conduction timing, as fractions of one cycle.
const (
	pWaveStart    = 0.1
	pWaveDuration = 0.08
	avDelay       = 0.16
	qrsDuration   = 0.1
	tWaveStart    = 0.4
	tWaveDuration = 0.12
)

// Region and trigger names for the cardiac preset.
const (
	RegionAtria      = "atria"
	RegionVentricles = "ventricles"
	EdgeAtrial       = "atrial"
	EdgeVentricular  = "ventricular"
)

// CardiacPreset returns the built-in ECG waveform: P wave, tri-lobed QRS
// complex and T wave, with atrial/ventricular region bumps and the two sound
// triggers (SA node at cycle start, AV node at the AV delay).
func CardiacPreset() Config {
	pCenter := pWaveStart + pWaveDuration/2
	qrsCenter := avDelay + qrsDuration/2

	return Config{
		Events: []Event{
			{Name: "p", Center: pCenter, Width: pWaveDuration, Amplitude: 0.2},
			{Name: "q", Center: qrsCenter - 0.01, Width: 0.02, Amplitude: -0.2},
			{Name: "r", Center: qrsCenter, Width: 0.04, Amplitude: 1.0},
			{Name: "s", Center: qrsCenter + 0.02, Width: 0.03, Amplitude: -0.15},
			{Name: "t", Center: tWaveStart + tWaveDuration/2, Width: tWaveDuration, Amplitude: 0.15},
		},
		Regions: []Event{
			{Name: RegionAtria, Center: pCenter, Width: pWaveDuration, Amplitude: 1.0},
			{Name: RegionVentricles, Center: qrsCenter, Width: qrsDuration, Amplitude: 1.0},
		},
		Triggers: []Trigger{
			{Name: EdgeAtrial, Fraction: 0.0},
			{Name: EdgeVentricular, Fraction: avDelay},
		},
	}
}
