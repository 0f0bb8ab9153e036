package flight

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/anatomica/core"
	"github.com/lixenwraith/anatomica/engine/status"
	"github.com/lixenwraith/anatomica/scene"
	"github.com/lixenwraith/anatomica/vmath"
)

// Options configures one flight run.
type Options struct {
	// DurationTicks is the flight length in clock ticks.
	DurationTicks int
	// Tunnel enables the camera-tracking clip plane.
	Tunnel bool
	// DimTag, when non-zero, marks entities faded to DimOpacity for the
	// duration of the flight (the tour's translucent vessels).
	DimTag     scene.Tag
	DimOpacity float64
	// OnComplete fires once when the flight finishes or is stopped.
	OnComplete func()
}

// Planner builds and flies spline camera paths. One flight at a time; the
// planner owns the camera pose and, through the tunnel tracker, every
// entity's clip-plane set while a flight is active.
type Planner struct {
	camera Camera
	reg    *scene.Registry
	tunnel *TunnelTracker

	// spline per pose component, rebuilt by BuildPath
	pos, focal, up [3]*vmath.Spline
	lastAuthored   Keyframe
	hasPath        bool

	active   bool
	step     int
	duration int
	opts     Options

	dimSnapshot map[uint64]scene.VisualState

	statFlights  *atomic.Int64
	statCleanups *atomic.Int64
}

// NewPlanner creates a planner over the given camera and scene registry.
func NewPlanner(camera Camera, reg *scene.Registry, statusReg *status.Registry) *Planner {
	if statusReg == nil {
		statusReg = status.NewRegistry()
	}
	return &Planner{
		camera:       camera,
		reg:          reg,
		tunnel:       NewTunnelTracker(reg),
		statFlights:  statusReg.Ints.Get("flight.completed"),
		statCleanups: statusReg.Ints.Get("flight.cleanups"),
	}
}

// Name implements engine.Subsystem.
func (p *Planner) Name() string { return "flight" }

// Active reports whether a flight is in progress.
func (p *Planner) Active() bool { return p.active }

// BuildPath stores a new flight path. The current camera pose is captured
// and prepended as the t=0 keyframe, so takeoff is seamless from whatever
// orientation the user left the camera in; an authored frame at t<=0 is
// superseded by it. Keyframe times must be strictly increasing within (0,1].
func (p *Planner) BuildPath(keyframes []Keyframe) error {
	authored := make([]Keyframe, 0, len(keyframes))
	for _, kf := range keyframes {
		if kf.T <= 0 {
			continue
		}
		if kf.T > 1 {
			return fmt.Errorf("%w: keyframe t %v outside (0,1]", core.ErrConfiguration, kf.T)
		}
		authored = append(authored, kf)
	}
	if len(authored) == 0 {
		return fmt.Errorf("%w: empty keyframe list", core.ErrConfiguration)
	}
	for i := 1; i < len(authored); i++ {
		if authored[i].T <= authored[i-1].T {
			return fmt.Errorf("%w: keyframe times must be strictly increasing", core.ErrConfiguration)
		}
	}

	start := p.camera.Pose()
	frames := append([]Keyframe{{
		T:          0,
		Position:   start.Position,
		FocalPoint: start.FocalPoint,
		ViewUp:     start.ViewUp,
	}}, authored...)

	ts := make([]float64, len(frames))
	var px, py, pz, fx, fy, fz, ux, uy, uz []float64
	for i, kf := range frames {
		ts[i] = kf.T
		px = append(px, kf.Position.X)
		py = append(py, kf.Position.Y)
		pz = append(pz, kf.Position.Z)
		fx = append(fx, kf.FocalPoint.X)
		fy = append(fy, kf.FocalPoint.Y)
		fz = append(fz, kf.FocalPoint.Z)
		ux = append(ux, kf.ViewUp.X)
		uy = append(uy, kf.ViewUp.Y)
		uz = append(uz, kf.ViewUp.Z)
	}

	p.pos = [3]*vmath.Spline{vmath.NewSpline(ts, px), vmath.NewSpline(ts, py), vmath.NewSpline(ts, pz)}
	p.focal = [3]*vmath.Spline{vmath.NewSpline(ts, fx), vmath.NewSpline(ts, fy), vmath.NewSpline(ts, fz)}
	p.up = [3]*vmath.Spline{vmath.NewSpline(ts, ux), vmath.NewSpline(ts, uy), vmath.NewSpline(ts, uz)}
	p.lastAuthored = frames[len(frames)-1]
	p.hasPath = true
	return nil
}

// Evaluate returns the interpolated pose at t in [0,1]. Position and focal
// point interpolate per axis; view-up interpolates then renormalizes.
func (p *Planner) Evaluate(t float64) Pose {
	pose := Pose{
		Position:   vmath.Vec3{X: p.pos[0].Evaluate(t), Y: p.pos[1].Evaluate(t), Z: p.pos[2].Evaluate(t)},
		FocalPoint: vmath.Vec3{X: p.focal[0].Evaluate(t), Y: p.focal[1].Evaluate(t), Z: p.focal[2].Evaluate(t)},
	}
	up := vmath.Vec3{X: p.up[0].Evaluate(t), Y: p.up[1].Evaluate(t), Z: p.up[2].Evaluate(t)}
	if vmath.V3MagSq(up) == 0 {
		up = vmath.Vec3{Z: 1}
	}
	pose.ViewUp = vmath.V3Normalize(up)
	return pose
}

// Start begins flying the built path. Rejected while another flight is
// active or before a path exists; rejection changes no state.
func (p *Planner) Start(opts Options) error {
	if p.active {
		return fmt.Errorf("%w: flight already active", core.ErrBusy)
	}
	if !p.hasPath {
		return fmt.Errorf("%w: no flight path built", core.ErrConfiguration)
	}
	if opts.DurationTicks <= 0 {
		return fmt.Errorf("%w: flight duration %d ticks", core.ErrConfiguration, opts.DurationTicks)
	}

	p.opts = opts
	p.step = 0
	p.duration = opts.DurationTicks
	p.active = true

	if opts.DimTag != scene.TagNone {
		dimmed := p.reg.ByTag(opts.DimTag)
		ids := make([]uint64, len(dimmed))
		for i, e := range dimmed {
			ids[i] = e.ID
		}
		p.dimSnapshot = p.reg.Snapshot(ids)
		p.reg.SetOpacity(opts.DimTag, opts.DimOpacity)
	}

	if opts.Tunnel {
		p.tunnel.Begin(p.camera.Pose())
	}
	return nil
}

// Stop cancels an active flight and runs cleanup. Safe to call when idle.
func (p *Planner) Stop() {
	if !p.active {
		return
	}
	p.finish()
}

// Update advances the flight by one tick. Implements engine.Subsystem.
func (p *Planner) Update(dt time.Duration) error {
	if !p.active {
		return nil
	}

	p.step++
	t := float64(p.step) / float64(p.duration)
	if t > 1 {
		t = 1
	}

	pose := p.Evaluate(t)
	p.camera.SetPose(pose)
	if p.opts.Tunnel {
		p.tunnel.Track(pose)
	}

	if t >= 1 {
		p.statFlights.Add(1)
		p.finish()
	}
	return nil
}

// Progress returns the current flight parameter in [0,1].
func (p *Planner) Progress() float64 {
	if p.duration == 0 {
		return 0
	}
	t := float64(p.step) / float64(p.duration)
	if t > 1 {
		return 1
	}
	return t
}

// finish runs cleanup exactly once per flight: tunnel plane removal with
// per-entity clip restoration, dim restoration, completion callback.
func (p *Planner) finish() {
	p.active = false

	p.tunnel.End()

	if p.dimSnapshot != nil {
		p.reg.Restore(p.dimSnapshot)
		p.dimSnapshot = nil
	}

	p.statCleanups.Add(1)

	if p.opts.OnComplete != nil {
		cb := p.opts.OnComplete
		p.opts.OnComplete = nil
		cb()
	}
}
