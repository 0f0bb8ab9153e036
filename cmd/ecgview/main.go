// ecgview is a terminal demo of the animation engine: a live waveform
// sparkline, heartbeat-driven scene mutation, camera flights, and the
// stair-climb and jaw choreographies, all running against a synthetic
// anatomical scene.
package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/anatomica/audio"
	"github.com/lixenwraith/anatomica/config"
	"github.com/lixenwraith/anatomica/engine"
	"github.com/lixenwraith/anatomica/engine/status"
	"github.com/lixenwraith/anatomica/flight"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/sequence"
	"github.com/lixenwraith/anatomica/service"
	"github.com/lixenwraith/anatomica/signal"
	"github.com/lixenwraith/anatomica/vmath"
)

var sparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// demoCamera is a plain pose holder satisfying flight.Camera. Only the tick
// thread touches it.
type demoCamera struct {
	pose flight.Pose
}

func (c *demoCamera) Pose() flight.Pose     { return c.pose }
func (c *demoCamera) SetPose(p flight.Pose) { c.pose = p }

// chanRenderer forwards redraw requests from the clock to the UI loop.
type chanRenderer struct {
	redraw chan struct{}
}

func (r *chanRenderer) RequestRedraw() error {
	select {
	case r.redraw <- struct{}{}:
	default:
		// UI already has a pending redraw
	}
	return nil
}

// commandQueue runs UI-posted closures on the tick thread, keeping all
// engine mutation single-threaded.
type commandQueue struct {
	ch chan func()
}

func newCommandQueue() *commandQueue {
	return &commandQueue{ch: make(chan func(), 16)}
}

func (q *commandQueue) Name() string { return "commands" }

func (q *commandQueue) Update(time.Duration) error {
	for {
		select {
		case fn := <-q.ch:
			fn()
		default:
			return nil
		}
	}
}

// Post queues a command; full queue drops it (the key can be pressed again).
func (q *commandQueue) Post(fn func()) {
	select {
	case q.ch <- fn:
	default:
	}
}

// hudFrame is the display snapshot published once per tick.
type hudFrame struct {
	BPM     float64
	Total   float64
	Ticks   uint64
	Beats   int64
	Flights int64
	State   string
	Message string
}

// hud formats engine state on the tick thread and publishes it for the UI
// goroutine. It runs after every other subsystem.
type hud struct {
	pump    *sequence.Pump
	climber *sequence.Sequencer
	jaw     *sequence.Sequencer
	planner *flight.Planner
	clock   *engine.Clock

	statBeats   *atomic.Int64
	statFlights *atomic.Int64

	message string
	frame   atomic.Value
}

func (h *hud) Name() string { return "hud" }

func (h *hud) Update(time.Duration) error {
	state := "idle"
	switch {
	case h.planner.Active():
		state = fmt.Sprintf("flight %2.0f%%", h.planner.Progress()*100)
	case h.climber.Running():
		state = "climb:" + h.climber.PhaseName()
	case h.jaw.Running():
		state = "jaw:" + h.jaw.PhaseName()
	}
	h.frame.Store(hudFrame{
		BPM:     h.pump.BPM(),
		Total:   h.pump.LastTotal(),
		Ticks:   h.clock.TickCount(),
		Beats:   h.statBeats.Load(),
		Flights: h.statFlights.Load(),
		State:   state,
		Message: h.message,
	})
	return nil
}

func (h *hud) Frame() hudFrame {
	if f, ok := h.frame.Load().(hudFrame); ok {
		return f
	}
	return hudFrame{}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ecgview:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.Read(os.Args[1])
		if err != nil {
			return err
		}
		cfg = loaded
	}

	reg := buildScene()
	statusReg := status.NewRegistry()

	gen := signal.NewGenerator(signal.NewGaussianNoise(time.Now().UnixNano(), cfg.Waveform.NoiseSigma))
	if err := gen.Configure(cfg.SignalConfig()); err != nil {
		return err
	}
	gen.SetContraction(cfg.Waveform.Contraction)
	gen.SetGlow(cfg.Waveform.Glow)

	cues := audio.NewCuePlayer()
	narrator := audio.NewNarrator(nil)

	services := service.NewManager()
	services.Add(&audio.CueService{Player: cues}, &audio.NarrationService{Narrator: narrator})
	if err := services.Run(); err != nil {
		return err
	}
	defer services.Shutdown()

	pump := sequence.NewPump(reg, gen, cues, cfg.Engine.BPM, statusReg)
	pump.Start()

	claims := sequence.NewClaimTable()
	climber := sequence.NewSequencer("climb", reg, engine.TimerScheduler{}, claims, statusReg)
	jaw := sequence.NewSequencer("jaw", reg, engine.TimerScheduler{}, claims, statusReg)

	camera := &demoCamera{pose: flight.Pose{
		Position:   vmath.Vec3{X: 0, Y: 250, Z: 80},
		FocalPoint: vmath.Vec3{},
		ViewUp:     vmath.Vec3{Z: 1},
	}}
	planner := flight.NewPlanner(camera, reg, statusReg)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	renderer := &chanRenderer{redraw: make(chan struct{}, 1)}
	interval := time.Second / time.Duration(cfg.Engine.TickHz)
	clock := engine.NewClock(interval, engine.NewPausableClock(nil), renderer, statusReg)

	commands := newCommandQueue()
	display := &hud{
		pump:        pump,
		climber:     climber,
		jaw:         jaw,
		planner:     planner,
		clock:       clock,
		statBeats:   statusReg.Ints.Get("pump.beats"),
		statFlights: statusReg.Ints.Get("flight.completed"),
	}

	clock.Register(commands)
	clock.Register(pump)
	clock.Register(climber)
	clock.Register(jaw)
	clock.Register(planner)
	clock.Register(display)
	clock.Start()
	defer clock.Stop()

	ctrl := &controller{
		reg:      reg,
		cfg:      cfg,
		metrics:  statusReg,
		pump:     pump,
		climber:  climber,
		jaw:      jaw,
		planner:  planner,
		clock:    clock,
		cues:     cues,
		narrator: narrator,
		commands: commands,
		display:  display,
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		screen.ChannelEvents(events, quit)
		return nil
	})

	g.Go(func() error {
		defer close(quit)
		var history []float64
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-renderer.redraw:
				frame := display.Frame()
				history = append(history, frame.Total)
				if w, _ := screen.Size(); len(history) > 4*w && w > 0 {
					history = history[len(history)-2*w:]
				}
				draw(screen, frame, history)
			case ev := <-events:
				if done := ctrl.handle(ev); done {
					return nil
				}
			}
		}
	})

	err = g.Wait()
	if err == context.Canceled {
		err = nil
	}
	return err
}

// controller translates key events into tick-thread commands.
type controller struct {
	reg      *scene.Registry
	cfg      *config.File
	metrics  *status.Registry
	pump     *sequence.Pump
	climber  *sequence.Sequencer
	jaw      *sequence.Sequencer
	planner  *flight.Planner
	clock    *engine.Clock
	cues     *audio.CuePlayer
	narrator *audio.Narrator
	commands *commandQueue
	display  *hud
}

func (c *controller) handle(ev tcell.Event) (done bool) {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch {
	case key.Key() == tcell.KeyEscape, key.Key() == tcell.KeyCtrlC, key.Rune() == 'q':
		return true
	case key.Rune() == ' ':
		// Pause/resume act on the clock itself, not through a tick
		if c.clock.IsPaused() {
			c.clock.Resume()
		} else {
			c.clock.Pause()
		}
	case key.Rune() == '+', key.Rune() == '=':
		c.commands.Post(func() {
			c.pump.SetBPM(c.pump.BPM() + 5)
			c.display.message = fmt.Sprintf("bpm %.0f", c.pump.BPM())
		})
	case key.Rune() == '-':
		c.commands.Post(func() {
			c.pump.SetBPM(c.pump.BPM() - 5)
			c.display.message = fmt.Sprintf("bpm %.0f", c.pump.BPM())
		})
	case key.Rune() == 'm':
		if c.cues.ToggleMute() {
			c.post("sound on")
		} else {
			c.post("sound off")
		}
	case key.Rune() == 'c':
		c.commands.Post(c.startClimb)
	case key.Rune() == 'j':
		c.commands.Post(c.startJaw)
	case key.Rune() == 't':
		c.commands.Post(c.startTour)
	case key.Rune() == 'd':
		c.commands.Post(c.startDive)
	case key.Rune() == 's':
		c.commands.Post(func() {
			c.climber.Stop()
			c.jaw.Stop()
			c.planner.Stop()
			c.display.message = "stopped"
		})
	}
	return false
}

// post sets the HUD message from the tick thread.
func (c *controller) post(msg string) {
	c.commands.Post(func() { c.display.message = msg })
}

func (c *controller) startClimb() {
	phases, err := sequence.StairClimb(c.reg, c.metrics)
	if err != nil {
		c.display.message = err.Error()
		return
	}
	err = c.climber.Start(sequence.Options{
		Phases:  phases,
		OnPhase: func(_ int, name string) { c.narrator.Say(name) },
	})
	if err != nil {
		c.display.message = err.Error()
		return
	}
	c.display.message = "stair climb"
}

func (c *controller) startJaw() {
	phases, err := sequence.JawCycle(c.reg)
	if err != nil {
		c.display.message = err.Error()
		return
	}
	if err := c.jaw.Start(sequence.Options{Phases: phases}); err != nil {
		c.display.message = err.Error()
		return
	}
	c.display.message = "jaw cycle"
}

func (c *controller) startTour() {
	kfs := flight.BloodFlowTour()
	if len(c.cfg.Tours) > 0 {
		loaded, err := c.cfg.TourKeyframes(c.cfg.Tours[0].Name)
		if err != nil {
			c.display.message = err.Error()
			return
		}
		kfs = loaded
	}
	if err := c.planner.BuildPath(kfs); err != nil {
		c.display.message = err.Error()
		return
	}
	err := c.planner.Start(flight.Options{
		DurationTicks: c.cfg.Flight.DurationTicks,
		Tunnel:        true,
		DimTag:        scene.TagArtery,
		DimOpacity:    c.cfg.Flight.DimOpacity,
		OnComplete:    func() { c.narrator.Say("tour complete") },
	})
	if err != nil {
		c.display.message = err.Error()
		return
	}
	c.display.message = "blood flow tour"
}

func (c *controller) startDive() {
	// Dive onto the heart center, as if picked
	bounds, ok := c.reg.GroupBounds(scene.TagVentricle)
	if !ok {
		c.display.message = "no dive target"
		return
	}
	params := c.cfg.DiveParams(bounds.Center(), vmath.Vec3{Y: 1})
	kfs, err := flight.SpiralDivePath(params)
	if err != nil {
		c.display.message = err.Error()
		return
	}
	if err := c.planner.BuildPath(kfs); err != nil {
		c.display.message = err.Error()
		return
	}
	err = c.planner.Start(flight.Options{
		DurationTicks: c.cfg.Flight.DurationTicks / 2,
		Tunnel:        true,
	})
	if err != nil {
		c.display.message = err.Error()
		return
	}
	c.display.message = "spiral dive"
}

func draw(s tcell.Screen, frame hudFrame, history []float64) {
	w, h := s.Size()
	s.Clear()

	plain := tcell.StyleDefault
	accent := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	drawText(s, 0, 0, plain, fmt.Sprintf(
		"ecgview  bpm %.0f  tick %d  %s", frame.BPM, frame.Ticks, frame.State))

	if h > 3 {
		drawSparkline(s, 0, h/2, w, history, accent)
	}

	drawText(s, 0, h-2, plain, fmt.Sprintf(
		"beats %d  flights %d  %s", frame.Beats, frame.Flights, frame.Message))
	drawText(s, 0, h-1, plain,
		"[space] pause  [+/-] bpm  [c] climb  [j] jaw  [t] tour  [d] dive  [s] stop  [m] mute  [q] quit")

	s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// drawSparkline maps the last width values to 8-level block characters.
func drawSparkline(s tcell.Screen, x, y, width int, values []float64, style tcell.Style) {
	if width <= 0 || len(values) == 0 {
		return
	}
	sampled := values
	if len(sampled) > width {
		sampled = sampled[len(sampled)-width:]
	}

	min, max := sampled[0], sampled[0]
	for _, v := range sampled {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rangeV := max - min
	if rangeV == 0 {
		rangeV = 1
	}

	for i, v := range sampled {
		norm := (v - min) / rangeV
		idx := int(norm * 7.99)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		s.SetContent(x+i, y, sparklineChars[idx], nil, style)
	}
}

// buildScene registers a synthetic anatomical scene: heart chambers and
// vessels, both legs with hinge references, and the two jaw halves.
func buildScene() *scene.Registry {
	reg := scene.NewRegistry()
	add := func(name string, min, max vmath.Vec3) {
		// Names are unique here; duplicates cannot happen
		reg.Add(name, scene.Bounds{Min: min, Max: max}, scene.VisualState{Opacity: 1})
	}

	// Heart
	add("Heart_Right_Atrium", vmath.Vec3{2, -4, 8}, vmath.Vec3{8, 2, 14})
	add("Heart_Left_Atrium", vmath.Vec3{-8, -4, 8}, vmath.Vec3{-2, 2, 14})
	add("Heart_Right_Ventricle", vmath.Vec3{1, -6, 0}, vmath.Vec3{9, 2, 8})
	add("Heart_Left_Ventricle", vmath.Vec3{-9, -6, 0}, vmath.Vec3{-1, 2, 8})
	add("Aorta", vmath.Vec3{-3, -2, 12}, vmath.Vec3{3, 4, 30})
	add("Pulmonary_Artery", vmath.Vec3{0, -4, 12}, vmath.Vec3{6, 2, 24})
	add("Vena_Cava_Superior", vmath.Vec3{4, -2, 12}, vmath.Vec3{8, 2, 28})
	add("Vena_Cava_Inferior", vmath.Vec3{4, -2, -14}, vmath.Vec3{8, 2, 0})

	// Legs
	for i, side := range []string{"Left", "Right"} {
		off := float64(i*30 - 15)
		add("VHF_"+side+"_Bone_Femur", vmath.Vec3{off, -5, -50}, vmath.Vec3{off + 10, 5, 0})
		add("VHF_"+side+"_Cartilage_FemurDistal", vmath.Vec3{off + 2, -3, -52}, vmath.Vec3{off + 8, 3, -48})
		add("VHF_"+side+"_Bone_Tibia", vmath.Vec3{off, -5, -100}, vmath.Vec3{off + 10, 5, -50})
		add("VHF_"+side+"_Bone_Fibula", vmath.Vec3{off + 8, -4, -100}, vmath.Vec3{off + 11, 2, -52})
		add("VHF_"+side+"_Muscle_Soleus", vmath.Vec3{off + 1, -6, -95}, vmath.Vec3{off + 9, 6, -55})
		add("VHF_"+side+"_Muscle_TibialisAnterior", vmath.Vec3{off + 1, -7, -98}, vmath.Vec3{off + 9, -4, -54})
	}

	// Jaw
	add("Skull_Upper_Jaw", vmath.Vec3{-10, -8, 60}, vmath.Vec3{10, 8, 70})
	add("Skull_Lower_Jaw", vmath.Vec3{-10, -8, 52}, vmath.Vec3{10, 8, 60})

	return reg
}
