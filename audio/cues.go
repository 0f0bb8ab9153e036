package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/anatomica/signal"
)

const (
	sampleRate = beep.SampleRate(48000)

	// Heart tone frequencies: the "lub" sits low, the "dub" higher and
	// shorter, roughly matching auscultation character.
	atrialFreq      = 55.0
	ventricularFreq = 90.0

	atrialDuration      = 180 * time.Millisecond
	ventricularDuration = 120 * time.Millisecond
)

// CuePlayer turns waveform edge events into short generated tones. A failed
// speaker initialization puts the player into permanent silent mode where
// every cue is a no-op.
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	silent      bool
	muted       bool
}

// NewCuePlayer creates an uninitialized player.
func NewCuePlayer() *CuePlayer {
	return &CuePlayer{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and attaches the mixer. An unavailable audio
// device is not an error; the player degrades to silence.
func (cp *CuePlayer) Initialize() error {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if cp.initialized || cp.silent {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		cp.silent = true
		return nil
	}

	speaker.Play(cp.mixer)
	cp.initialized = true
	return nil
}

// Cleanup silences the mixer. The speaker itself has no close operation.
func (cp *CuePlayer) Cleanup() {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if !cp.initialized {
		return
	}
	cp.mixer.Clear()
	cp.initialized = false
}

// ToggleMute toggles mute, returning true if sound is now enabled.
func (cp *CuePlayer) ToggleMute() bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.muted = !cp.muted
	return !cp.muted
}

// Enabled reports whether cues will actually sound.
func (cp *CuePlayer) Enabled() bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.initialized && !cp.muted && !cp.silent
}

// Cue plays the tone for a named edge event. Unknown names are ignored.
func (cp *CuePlayer) Cue(name string) {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if !cp.initialized || cp.muted || cp.silent {
		return
	}

	switch name {
	case signal.EdgeAtrial:
		cp.mixer.Add(beep.Take(sampleRate.N(atrialDuration), NewThumpGenerator(sampleRate, atrialFreq)))
	case signal.EdgeVentricular:
		cp.mixer.Add(beep.Take(sampleRate.N(ventricularDuration), NewThumpGenerator(sampleRate, ventricularFreq)))
	}
}

// ThumpGenerator produces a short decaying heart tone: a low fundamental
// with a softer octave, quick attack, exponential decay.
type ThumpGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewThumpGenerator creates a thump tone generator.
func NewThumpGenerator(sr beep.SampleRate, freq float64) *ThumpGenerator {
	return &ThumpGenerator{sr: sr, freq: freq}
}

func (g *ThumpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Quick attack over 5ms, then decay
		attack := math.Min(t/0.005, 1.0)
		envelope := attack * math.Exp(-t*18)

		sample := 0.0
		sample += 0.35 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.12 * math.Sin(2*math.Pi*g.freq*2*t)
		sample *= envelope

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ThumpGenerator) Err() error {
	return nil
}
