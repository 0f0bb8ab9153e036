package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/engine/status"
)

// Subsystem is any tick-driven animation unit (waveform pump, flight,
// choreography sequencer). Update is called once per tick on the clock
// goroutine; all scene mutation happens inside these callbacks.
type Subsystem interface {
	Name() string
	Update(dt time.Duration) error
}

// Renderer is the external redraw hook, asked once per tick. A refused
// redraw is a RenderSync condition: counted and ignored, logical state keeps
// advancing.
type Renderer interface {
	RequestRedraw() error
}

// Clock drives all registered subsystems on a fixed tick with drift
// correction, the single tick source of the engine.
type Clock struct {
	interval time.Duration
	pausable *PausableClock
	renderer Renderer

	mu         sync.Mutex
	subsystems []Subsystem

	nextTickDeadline time.Time

	tickCount atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	statusReg      *status.Registry
	statTicks      *atomic.Int64
	statRenderFail *atomic.Int64
	statSysErrors  *atomic.Int64
}

// NewClock creates a clock with the given tick interval. renderer may be nil
// when no external renderer participates (tests, headless runs).
func NewClock(interval time.Duration, pausable *PausableClock, renderer Renderer, statusReg *status.Registry) *Clock {
	if pausable == nil {
		pausable = NewPausableClock(nil)
	}
	if statusReg == nil {
		statusReg = status.NewRegistry()
	}
	return &Clock{
		interval:       interval,
		pausable:       pausable,
		renderer:       renderer,
		stopChan:       make(chan struct{}),
		statusReg:      statusReg,
		statTicks:      statusReg.Ints.Get("engine.ticks"),
		statRenderFail: statusReg.Ints.Get("engine.render_failures"),
		statSysErrors:  statusReg.Ints.Get("engine.subsystem_errors"),
	}
}

// Register adds a subsystem. Must be called before Start; update order is
// registration order.
func (c *Clock) Register(s Subsystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subsystems = append(c.subsystems, s)
}

// Interval returns the configured tick interval.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// TickCount returns the number of ticks processed so far.
func (c *Clock) TickCount() uint64 {
	return c.tickCount.Load()
}

// Pause freezes animation time; the loop keeps polling at a reduced rate.
func (c *Clock) Pause() {
	c.pausable.Pause()
}

// Resume continues animation time.
func (c *Clock) Resume() {
	c.pausable.Resume()
}

// IsPaused returns whether animation time is frozen.
func (c *Clock) IsPaused() bool {
	return c.pausable.IsPaused()
}

// Start begins the tick loop.
func (c *Clock) Start() {
	if c.running.CompareAndSwap(false, true) {
		c.wg.Add(1)
		core.Go(c.loop)
	}
}

// Stop halts the tick loop. Idempotent.
func (c *Clock) Stop() {
	c.stopOnce.Do(func() {
		if c.running.CompareAndSwap(true, false) {
			close(c.stopChan)
			c.wg.Wait()
		}
	})
}

// Tick runs one synchronous update cycle over all subsystems followed by a
// redraw request. The loop calls this once per interval; tests call it
// directly for deterministic stepping.
func (c *Clock) Tick(dt time.Duration) {
	c.mu.Lock()
	subsystems := c.subsystems
	c.mu.Unlock()

	for _, s := range subsystems {
		if err := s.Update(dt); err != nil {
			// A failing subsystem does not stop the loop or its peers
			c.statSysErrors.Add(1)
		}
	}

	if c.renderer != nil {
		if err := c.renderer.RequestRedraw(); err != nil {
			c.statRenderFail.Add(1)
		}
	}

	c.statTicks.Store(int64(c.tickCount.Add(1)))
}

// loop is the drift-corrected scheduler loop, pause-aware without busy-wait.
func (c *Clock) loop() {
	defer c.wg.Done()

	c.mu.Lock()
	c.nextTickDeadline = c.pausable.Now().Add(c.interval)
	c.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		default:
		}

		var sleep time.Duration

		if c.pausable.IsPaused() {
			// Reduced polling while paused to save CPU
			sleep = c.interval * 2
		} else {
			now := c.pausable.Now()

			c.mu.Lock()
			deadline := c.nextTickDeadline
			c.mu.Unlock()

			if !now.Before(deadline) {
				c.Tick(c.interval)

				c.mu.Lock()
				c.nextTickDeadline = c.nextTickDeadline.Add(c.interval)
				// Cap catch-up so a long stall doesn't burst-fire ticks
				if now.Sub(c.nextTickDeadline) > c.interval*2 {
					c.nextTickDeadline = now.Add(c.interval)
				}
				deadline = c.nextTickDeadline
				c.mu.Unlock()

				sleep = deadline.Sub(c.pausable.Now())
				if sleep < 0 {
					sleep = 0
				}
			} else {
				sleep = deadline.Sub(now)
			}
		}

		if sleep > 0 {
			timer.Reset(sleep)
			select {
			case <-timer.C:
			case <-c.stopChan:
				return
			}
		}
	}
}
