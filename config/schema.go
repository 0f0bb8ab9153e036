package config

// File is the root configuration document.
type File struct {
	Version        int            `yaml:"version"`
	Engine         Engine         `yaml:"engine"`
	Waveform       Waveform       `yaml:"waveform"`
	Flight         Flight         `yaml:"flight"`
	Tours          []Tour         `yaml:"tours,omitempty"`
	Choreographies []Choreography `yaml:"choreographies,omitempty"`
}

// Engine holds tick cadence and heart rate.
type Engine struct {
	TickHz int     `yaml:"tick_hz"`
	BPM    float64 `yaml:"bpm"`
}

// Waveform describes the repeating signal: summed events, per-region bumps,
// and edge-trigger fractions.
type Waveform struct {
	NoiseSigma  float64   `yaml:"noise_sigma"`
	Contraction float64   `yaml:"contraction"`
	Glow        float64   `yaml:"glow"`
	Events      []Event   `yaml:"events"`
	Regions     []Event   `yaml:"regions"`
	Triggers    []Trigger `yaml:"triggers"`
}

// Event is one gaussian bump, positioned in normalized cycle fractions.
type Event struct {
	Name      string  `yaml:"name"`
	Center    float64 `yaml:"center"`
	Width     float64 `yaml:"width"`
	Amplitude float64 `yaml:"amplitude"`
}

// Trigger fires an edge event when the cycle phase crosses its fraction.
type Trigger struct {
	Name     string  `yaml:"name"`
	Fraction float64 `yaml:"fraction"`
}

// Flight holds camera-flight defaults.
type Flight struct {
	DurationTicks int     `yaml:"duration_ticks"`
	DimOpacity    float64 `yaml:"dim_opacity"`
	Dive          Dive    `yaml:"dive"`
}

// Dive parameterizes the procedural spiral dive.
type Dive struct {
	Depth     float64 `yaml:"depth"`
	Radius    float64 `yaml:"radius"`
	LookAhead float64 `yaml:"look_ahead"`
	Steps     int     `yaml:"steps"`
}

// Tour is a named, authored camera path.
type Tour struct {
	Name      string     `yaml:"name"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe is one camera pose at normalized time t.
type Keyframe struct {
	T          float64    `yaml:"t"`
	Position   [3]float64 `yaml:"position"`
	FocalPoint [3]float64 `yaml:"focal_point"`
	ViewUp     [3]float64 `yaml:"view_up"`
}

// Choreography is a named ordered phase list.
type Choreography struct {
	Name   string  `yaml:"name"`
	Phases []Phase `yaml:"phases"`
}

// Phase is one choreography step. Kind is "signal" or "transform".
type Phase struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// transform
	Motions       []Motion `yaml:"motions,omitempty"`
	DurationTicks int      `yaml:"duration_ticks,omitempty"`
	Reverse       bool     `yaml:"reverse,omitempty"`

	// signal
	Group    string `yaml:"group,omitempty"`
	SignalMs int    `yaml:"signal_ms,omitempty"`
}

// Motion is one rigid movement within a transform phase. The pivot is
// resolved at build time: PivotRef/PivotParent groups when named, otherwise
// the moving group's bounds center.
type Motion struct {
	Group       string     `yaml:"group"`
	Axis        [3]float64 `yaml:"axis"`
	AngleDeg    float64    `yaml:"angle_deg"`
	Translate   [3]float64 `yaml:"translate,omitempty"`
	PivotRef    string     `yaml:"pivot_ref,omitempty"`
	PivotParent string     `yaml:"pivot_parent,omitempty"`
}
