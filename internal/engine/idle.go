package engine

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ivlev/scrollscene/internal/curve"
	"github.com/ivlev/scrollscene/internal/director"
	"github.com/ivlev/scrollscene/internal/motion"
	"github.com/ivlev/scrollscene/internal/renderer"
)

type pose struct {
	position mgl64.Vec3
	rotation mgl64.Quat
	opacity  float64
}

type ghost struct {
	id    string
	phase float64
	path  *curve.Path

	pose    pose
	visible bool

	saved      pose
	transition *curve.Path
	settleRot  mgl64.Quat
}

// idleLoop runs the home-screen ghosts around their loops on a clock that
// only advances in Home mode.
type idleLoop struct {
	log    *slog.Logger
	period float64 // seconds per loop
	lift   float64

	clock  float64 // loop progress in [0,1)
	ghosts []*ghost

	captured   bool
	savedClock float64
}

func newIdleLoop(log *slog.Logger, prod *director.Production, period, lift float64) *idleLoop {
	l := &idleLoop{log: log, period: period, lift: lift}
	for _, gs := range prod.Ghosts {
		path, err := prod.Paths.Lookup(gs.PathKey)
		if err != nil {
			log.Warn("idle ghost without path", "ghost", gs.ID, "err", err)
		}
		g := &ghost{
			id:      gs.ID,
			phase:   gs.Phase,
			path:    path,
			visible: true,
			pose:    pose{rotation: mgl64.QuatIdent(), opacity: 1},
		}
		l.ghosts = append(l.ghosts, g)
	}
	l.place()
	return l
}

// advance moves the clock by dt seconds and places every ghost.
func (l *idleLoop) advance(dt float64) {
	if l.period > 0 && dt > 0 {
		_, l.clock = math.Modf(l.clock + dt/l.period)
	}
	l.place()
}

func (l *idleLoop) at(g *ghost) float64 {
	_, t := math.Modf(l.clock + g.phase)
	return t
}

func (l *idleLoop) place() {
	for _, g := range l.ghosts {
		t := l.at(g)
		g.pose.position = g.path.PointAtOr(t, g.pose.position)
		if tan, err := g.path.TangentAt(t); err == nil {
			if rot, ok := motion.LookRotation(tan); ok {
				g.pose.rotation = rot
			}
		}
	}
}

// capture freezes the loop and builds a lift-and-settle arc per ghost from
// where it is now to the next waypoint its loop would have reached.
func (l *idleLoop) capture() {
	l.captured = true
	l.savedClock = l.clock
	for _, g := range l.ghosts {
		g.saved = g.pose
		target, err := g.path.SegmentEnd(l.at(g))
		if err != nil {
			g.transition = curve.Empty()
			continue
		}
		if l.lift == 0 {
			g.transition = curve.Line(g.pose.position, target)
		} else {
			apex := motion.LerpVec3(g.pose.position, target, 0.5).Add(mgl64.Vec3{0, l.lift, 0})
			g.transition = curve.QuadraticArc(g.pose.position, apex, target)
		}
		g.settleRot = g.pose.rotation
		if rot, ok := motion.LookRotation(target.Sub(g.pose.position)); ok {
			g.settleRot = rot
		}
	}
	l.log.Debug("idle loop captured", "clock", l.savedClock, "ghosts", len(l.ghosts))
}

// transition places ghosts at s along their settle arcs.
func (l *idleLoop) transition(s float64) {
	if !l.captured {
		return
	}
	s = motion.Clamp01(s)
	for _, g := range l.ghosts {
		g.pose.position = g.transition.PointAtOr(s, g.pose.position)
		g.pose.rotation = motion.Slerp(g.saved.rotation, g.settleRot, s)
	}
}

// restore puts every ghost back exactly where it was captured and resumes
// the clock from the captured value.
func (l *idleLoop) restore() {
	if !l.captured {
		return
	}
	for _, g := range l.ghosts {
		g.pose = g.saved
		g.transition = nil
	}
	l.clock = l.savedClock
	l.captured = false
	l.log.Debug("idle loop restored", "clock", l.clock)
}

func (l *idleLoop) setVisible(on bool) {
	for _, g := range l.ghosts {
		g.visible = on
	}
}

func (l *idleLoop) states() []renderer.ActorState {
	out := make([]renderer.ActorState, 0, len(l.ghosts))
	for _, g := range l.ghosts {
		out = append(out, renderer.ActorState{
			ID:       g.id,
			Position: g.pose.position,
			Rotation: g.pose.rotation,
			Opacity:  g.pose.opacity,
			Visible:  g.visible,
		})
	}
	return out
}
