package sequence

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/anatomica/engine/status"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/signal"
)

// CueSink receives edge-event names for audio playback. Implementations
// must not block the tick thread.
type CueSink interface {
	Cue(name string)
}

// Pump couples the waveform generator to the heart entities: region
// activation contracts the tagged chambers about their own centers and
// raises their ambient glow, and edge events are forwarded to the cue sink.
type Pump struct {
	reg  *scene.Registry
	gen  *signal.Generator
	cues CueSink

	bpm      float64
	running  bool
	snapshot map[uint64]scene.VisualState

	lastTotal status.AtomicFloat // read by the UI thread

	statBeats *atomic.Int64
	statCues  *atomic.Int64
}

// regionTags maps waveform regions to the chamber groups they drive.
var regionTags = map[string]scene.Tag{
	signal.RegionAtria:      scene.TagAtrium,
	signal.RegionVentricles: scene.TagVentricle,
}

// NewPump creates a stopped pump at the given BPM. cues may be nil.
func NewPump(reg *scene.Registry, gen *signal.Generator, cues CueSink, bpm float64, statusReg *status.Registry) *Pump {
	if statusReg == nil {
		statusReg = status.NewRegistry()
	}
	return &Pump{
		reg:       reg,
		gen:       gen,
		cues:      cues,
		bpm:       bpm,
		statBeats: statusReg.Ints.Get("pump.beats"),
		statCues:  statusReg.Ints.Get("pump.cues"),
	}
}

func (p *Pump) Name() string { return "pump" }

func (p *Pump) Running() bool { return p.running }

func (p *Pump) BPM() float64 { return p.bpm }

// SetBPM changes the heart rate. The waveform stays continuous; the new
// cycle length takes effect on the next tick.
func (p *Pump) SetBPM(bpm float64) {
	if bpm > 0 {
		p.bpm = bpm
	}
}

// Start snapshots the chamber entities so Stop can restore them.
func (p *Pump) Start() {
	if p.running {
		return
	}
	var ids []uint64
	for _, tag := range regionTags {
		for _, e := range p.reg.ByTag(tag) {
			ids = append(ids, e.ID)
		}
	}
	p.snapshot = p.reg.Snapshot(ids)
	p.running = true
}

// Stop restores the chambers to their pre-start state.
func (p *Pump) Stop() {
	if !p.running {
		return
	}
	p.reg.Restore(p.snapshot)
	p.snapshot = nil
	p.running = false
}

// LastTotal returns the most recent waveform sample value, for plotting.
func (p *Pump) LastTotal() float64 {
	return p.lastTotal.Load()
}

// Update advances the waveform and poses the chambers for the new phase.
func (p *Pump) Update(dt time.Duration) error {
	if !p.running {
		return nil
	}
	sample, err := p.gen.Advance(dt.Seconds(), p.bpm)
	if err != nil {
		return err
	}
	p.lastTotal.Store(sample.Total)

	contraction := p.gen.Contraction()
	glow := p.gen.Glow()
	for region, tag := range regionTags {
		activation := sample.Regions[region]
		scale := 1 - contraction*activation
		ambient := glow * activation
		p.reg.SetVisual(tag, func(e *scene.Entity) {
			e.Visual.Transform = scene.ScaleAboutCenter(e, scale)
			e.Visual.Ambient = ambient
		})
	}

	for _, edge := range sample.Edges {
		if edge == signal.EdgeAtrial {
			p.statBeats.Add(1)
		}
		if p.cues != nil {
			p.cues.Cue(edge)
			p.statCues.Add(1)
		}
	}
	return nil
}
