package engine

import (
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/ivlev/scrollscene/internal/actors"
	"github.com/ivlev/scrollscene/internal/camera"
	"github.com/ivlev/scrollscene/internal/config"
	"github.com/ivlev/scrollscene/internal/director"
	"github.com/ivlev/scrollscene/internal/motion"
	"github.com/ivlev/scrollscene/internal/renderer"
	"github.com/ivlev/scrollscene/internal/scroll"
	"github.com/ivlev/scrollscene/internal/text"
)

// Engine owns the scroll state and every runtime component of one scene.
// It is single-threaded: SetMode, Tick and Observe must be called from the
// same goroutine.
type Engine struct {
	log  *slog.Logger
	cfg  config.Config
	prod *director.Production

	state    scroll.State
	momentum *motion.Momentum
	camera   *camera.Controller
	actors   *actors.Engine
	text     *text.Choreographer
	idle     *idleLoop

	pose        camera.Pose
	frame       int
	lastTick    time.Time
	cameraError bool
}

func NewEngine(log *slog.Logger, cfg config.Config, prod *director.Production, sink text.Sink) *Engine {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("scene", prod.Name)

	pov := lo.Map(prod.Actors, func(a director.ActorSpec, _ int) *actors.Actor {
		return actors.NewActor(a.ID, a.PathKey, a.Window)
	})
	actorEngine := actors.NewEngine(log, prod.Paths, prod.CameraKey, cfg.ActorSettings(), pov)

	e := &Engine{
		log:      log,
		cfg:      cfg,
		prod:     prod,
		momentum: motion.NewMomentum(cfg.MomentumConfig()),
		camera:   camera.NewController(log, prod.Rig, cfg.CameraSettings()),
		actors:   actorEngine,
		text:     text.NewChoreographer(log, actorEngine, sink, cfg.TextSettings(), prod.Labels()),
		idle:     newIdleLoop(log, prod, cfg.Idle.LoopSeconds, cfg.Idle.TransitionLift),
	}
	e.camera.SetEndScreen(lo.ContainsBy(prod.Layout.Sections, func(s scroll.Section) bool {
		return s.Mode == scroll.End
	}))
	e.pose = e.homePose()
	return e
}

func (e *Engine) State() scroll.State {
	return e.state
}

// Actors exposes the trigger engine for inspection.
func (e *Engine) Actors() *actors.Engine {
	return e.actors
}

// SetEndScreen toggles the end sequence of the camera.
func (e *Engine) SetEndScreen(on bool) {
	e.camera.SetEndScreen(on)
}

// SetMode switches sections, running the leave and enter side effects of
// every mode in between so skipped sections still clean up.
func (e *Engine) SetMode(next scroll.Mode, dir scroll.Direction) {
	e.state.Direction = dir
	for e.state.Mode != next {
		prev := e.state.Mode
		step := prev.Next()
		if next < prev {
			step = prev.Prev()
		}
		e.leave(prev, step)
		e.state.Mode = step
		e.enter(step)
		e.log.Debug("mode changed", "from", prev, "to", step, "direction", dir)
	}
}

func (e *Engine) leave(m, next scroll.Mode) {
	forward := next > m
	switch m {
	case scroll.Home:
		if forward {
			e.idle.capture()
		}
	case scroll.SectionScroll:
		if forward {
			e.camera.CacheHomeRotation(e.pose.Orientation)
		}
	case scroll.Pov:
		e.resetPov()
	}
	e.momentum.Reset()
}

func (e *Engine) enter(m scroll.Mode) {
	switch m {
	case scroll.Home:
		e.idle.restore()
		e.camera.ClearHomeRotation()
	case scroll.Pov:
		e.idle.setVisible(false)
		e.actors.HideAll()
		e.pose.TargetVisible = false
	}
}

// resetPov puts every per-actor and per-camera flag back to its initial
// state, whichever way the section was left.
func (e *Engine) resetPov() {
	e.camera.Reset()
	e.actors.Reset()
	e.text.Reset()
	e.idle.setVisible(true)
	e.pose.FOV = e.camera.Last().FOV
	e.pose.TargetVisible = true
}

func (e *Engine) homePose() camera.Pose {
	p := camera.Pose{
		Position:      e.prod.HomePosition,
		LookAt:        e.prod.HomeLookAt,
		FOV:           e.cfg.Camera.WideFOV,
		Phase:         camera.PhaseDefault,
		TargetVisible: true,
	}
	p.Orientation, _ = motion.LookAtRotation(p.Position, p.LookAt)
	return p
}

// Tick advances one frame with the raw progress of the current section.
// Per-frame failures are logged and recovered; Tick never blocks.
func (e *Engine) Tick(progress float64, dir scroll.Direction, now time.Time) renderer.Frame {
	var dt float64
	if !e.lastTick.IsZero() {
		dt = lo.Clamp(now.Sub(e.lastTick), 0, e.cfg.MomentumConfig().MaxStep).Seconds()
	}
	e.lastTick = now

	e.state.Direction = dir
	e.state.RawProgress = motion.Clamp01(progress)
	cp := e.momentum.Update(progress, now)
	e.state.SmoothedProgress = cp

	var labels []text.State
	switch e.state.Mode {
	case scroll.Home:
		e.idle.advance(dt)
		e.pose = e.homePose()
	case scroll.SectionScroll:
		e.idle.transition(motion.EaseInOutCubic(cp))
		e.pose = e.homePose()
	case scroll.Pov:
		e.updatePov(cp, dir)
		// labels read the same camera progress as the actors
		labels = e.text.Update(cp)
	case scroll.End:
		// hold the last Pov pose
	}
	if labels == nil {
		labels = e.text.States()
	}

	f := renderer.Frame{
		Index:     e.frame,
		Mode:      e.state.Mode.String(),
		Direction: dir.String(),
		Progress:  e.state.RawProgress,
		Smoothed:  cp,
		Camera:    e.pose,
		Ghosts:    e.idle.states(),
		Actors:    e.actorStates(),
		Labels:    labels,
	}
	e.frame++
	return f
}

func (e *Engine) updatePov(cp float64, dir scroll.Direction) {
	path, err := e.prod.Paths.Lookup(e.prod.CameraKey)
	if err == nil {
		var pose camera.Pose
		pose, err = e.camera.Update(path, cp, dir)
		if err == nil {
			pose.TargetVisible = false
			e.pose = pose
			e.cameraError = false
		}
	}
	if err != nil && !e.cameraError {
		e.log.Warn("camera update failed, holding pose", "progress", cp, "err", err)
		e.cameraError = true
	}
	e.actors.Update(cp)
}

func (e *Engine) actorStates() []renderer.ActorState {
	return lo.Map(e.actors.Actors(), func(a *actors.Actor, _ int) renderer.ActorState {
		return renderer.ActorState{
			ID:       a.ID,
			Position: a.Position,
			Rotation: a.Rotation,
			Opacity:  a.Opacity,
			Visible:  a.Visible,
			LocalT:   a.LocalT,
		}
	})
}

// Observe derives mode, progress and direction from section rectangles, as
// a scroll listener would, and ticks.
func (e *Engine) Observe(vp scroll.Viewport, rects map[string]scroll.Rect, now time.Time) renderer.Frame {
	mode, progress := e.prod.Layout.Locate(vp, rects)

	delta := progress - e.state.RawProgress
	if mode != e.state.Mode {
		delta = float64(mode - e.state.Mode)
	}
	dir := scroll.DirectionOf(delta, e.state.Direction)

	e.SetMode(mode, dir)
	return e.Tick(progress, dir, now)
}

// Callbacks returns enter/leave hooks for the section that maps to mode,
// for drivers that report section crossings instead of rectangles.
func (e *Engine) Callbacks(mode scroll.Mode) scroll.Callbacks {
	return scroll.Callbacks{
		OnEnter:     func() { e.SetMode(mode, scroll.Forward) },
		OnEnterBack: func() { e.SetMode(mode, scroll.Backward) },
		OnLeave:     func() { e.SetMode(mode.Next(), scroll.Forward) },
		OnLeaveBack: func() { e.SetMode(mode.Prev(), scroll.Backward) },
	}
}
