package actors

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/ivlev/scrollscene/internal/curve"
	"github.com/ivlev/scrollscene/internal/motion"
)

// Settings tune the trigger engine.
type Settings struct {
	Smoothing float64 // local progress and rotation approach rate
	Samples   int     // closest-parameter search resolution
	FadeFrom  float64 // local progress where the opacity ramp starts
}

func DefaultSettings() Settings {
	return Settings{
		Smoothing: 0.12,
		Samples:   curve.DefaultSamples,
		FadeFrom:  0.9,
	}
}

// Engine activates actors while the camera crosses their trigger windows.
type Engine struct {
	log       *slog.Logger
	paths     *curve.Library
	cameraKey string
	settings  Settings

	actors []*Actor
	byID   map[string]*Actor

	cameraMissing bool
}

func NewEngine(log *slog.Logger, paths *curve.Library, cameraKey string, settings Settings, actors []*Actor) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		log:       log,
		paths:     paths,
		cameraKey: cameraKey,
		settings:  settings,
		actors:    actors,
		byID:      lo.KeyBy(actors, func(a *Actor) string { return a.ID }),
	}
}

func (e *Engine) Actors() []*Actor {
	return e.actors
}

func (e *Engine) Actor(id string) (*Actor, bool) {
	a, ok := e.byID[id]
	return a, ok
}

// Bounds returns the resolved window of actor id.
func (e *Engine) Bounds(id string) (Bounds, bool) {
	a, ok := e.byID[id]
	if !ok {
		return Bounds{}, false
	}
	return a.Bounds()
}

// Update advances every actor for camera progress cp. Per-actor failures
// skip that actor for the frame.
func (e *Engine) Update(cp float64) {
	cp = motion.Clamp01(cp)
	for _, a := range e.actors {
		if !a.resolved {
			if err := e.resolve(a); err != nil {
				continue
			}
		}
		path, err := e.paths.Lookup(a.PathKey)
		if err != nil {
			if !a.missingLogged {
				e.log.Debug("actor path missing, skipping", "actor", a.ID, "err", err)
				a.missingLogged = true
			}
			continue
		}
		e.step(a, path, cp)
	}
}

func (e *Engine) step(a *Actor, path *curve.Path, cp float64) {
	b := a.bounds
	if !b.Contains(cp) {
		a.Visible = false
		a.triggered = false
		a.Opacity = 0
		// Park local progress on the side the camera left through.
		if cp > b.End {
			a.LocalT, a.Target = 1, 1
		} else {
			a.LocalT, a.Target = 0, 0
		}
		return
	}

	raw := b.Local(cp)
	a.Target = raw
	first := !a.triggered
	if first {
		a.LocalT = raw
		a.triggered = true
	} else {
		a.LocalT = motion.Approach(a.LocalT, raw, e.settings.Smoothing)
	}
	a.Visible = true
	a.Opacity = Opacity(a.LocalT, e.settings.FadeFrom)

	a.Position = path.PointAtOr(a.LocalT, a.Position)
	tan, err := path.TangentAt(a.LocalT)
	if err != nil {
		return
	}
	rot, ok := motion.LookRotation(tan)
	if !ok {
		return
	}
	if first {
		a.Rotation = rot
	} else {
		a.Rotation = motion.Slerp(a.Rotation, rot, e.settings.Smoothing)
	}
}

func (e *Engine) resolve(a *Actor) error {
	camera, err := e.paths.Lookup(e.cameraKey)
	if err != nil {
		if !e.cameraMissing {
			e.log.Warn("camera path missing, actors stay hidden", "key", e.cameraKey)
			e.cameraMissing = true
		}
		return err
	}

	var b Bounds
	if b.Trigger, err = camera.ClosestParameter(a.Window.Trigger, e.settings.Samples); err != nil {
		return e.resolveFailed(a, err)
	}
	if b.End, err = camera.ClosestParameter(a.Window.End, e.settings.Samples); err != nil {
		return e.resolveFailed(a, err)
	}
	for _, pt := range a.Window.TextFades {
		f, err := camera.ClosestParameter(pt, e.settings.Samples)
		if err != nil {
			return e.resolveFailed(a, err)
		}
		b.TextFades = append(b.TextFades, f)
	}

	nb, changed := b.normalize()
	if changed {
		e.log.Warn("trigger window out of order, clamped",
			"actor", a.ID, "authored", b, "clamped", nb)
	}
	a.bounds, a.resolved = nb, true
	e.log.Debug("actor window resolved", "actor", a.ID, "trigger", nb.Trigger, "end", nb.End)
	return nil
}

func (e *Engine) resolveFailed(a *Actor, err error) error {
	if !a.missingLogged {
		e.log.Debug("actor window unresolved", "actor", a.ID, "err", err)
		a.missingLogged = true
	}
	return fmt.Errorf("resolve %s: %w", a.ID, err)
}

// Reset returns every actor to its initial state. Resolved windows and
// poses are kept.
func (e *Engine) Reset() {
	for _, a := range e.actors {
		a.reset()
	}
}

// HideAll hides every actor without touching progress.
func (e *Engine) HideAll() {
	for _, a := range e.actors {
		a.Visible = false
		a.triggered = false
	}
}
