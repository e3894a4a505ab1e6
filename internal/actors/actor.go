package actors

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// TriggerWindow is the authored activation range of an actor, expressed as
// points near the camera path. TextFades optionally carries the label
// hand-off point and the camera-label fade-out point, in that order.
type TriggerWindow struct {
	Trigger   mgl64.Vec3
	End       mgl64.Vec3
	TextFades []mgl64.Vec3
}

// Bounds is a TriggerWindow resolved to camera progress.
type Bounds struct {
	Trigger   float64   `yaml:"trigger"`
	End       float64   `yaml:"end"`
	TextFades []float64 `yaml:"text_fades,omitempty"`
}

// Contains reports whether cp lies inside [Trigger, End].
func (b Bounds) Contains(cp float64) bool {
	return cp >= b.Trigger && cp <= b.End
}

// Local maps camera progress into the window, clamped to [0,1].
func (b Bounds) Local(cp float64) float64 {
	if b.End <= b.Trigger {
		if cp >= b.End {
			return 1
		}
		return 0
	}
	return lo.Clamp((cp-b.Trigger)/(b.End-b.Trigger), 0, 1)
}

// normalize orders the window and clamps fades into it, keeping them
// non-decreasing. It reports whether anything had to change.
func (b Bounds) normalize() (Bounds, bool) {
	changed := false
	if b.Trigger > b.End {
		b.Trigger, b.End = b.End, b.Trigger
		changed = true
	}
	fades := make([]float64, len(b.TextFades))
	lower := b.Trigger
	for i, f := range b.TextFades {
		c := lo.Clamp(f, lower, b.End)
		if c != f {
			changed = true
		}
		fades[i] = c
		lower = c
	}
	b.TextFades = fades
	return b, changed
}

// Actor is one secondary object that travels its own path while the camera
// is inside its trigger window.
type Actor struct {
	ID      string
	PathKey string
	Window  TriggerWindow

	LocalT   float64
	Target   float64
	Visible  bool
	Opacity  float64
	Position mgl64.Vec3
	Rotation mgl64.Quat

	triggered     bool
	bounds        Bounds
	resolved      bool
	missingLogged bool
}

func NewActor(id, pathKey string, window TriggerWindow) *Actor {
	return &Actor{
		ID:       id,
		PathKey:  pathKey,
		Window:   window,
		Rotation: mgl64.QuatIdent(),
	}
}

// Triggered reports whether the actor entered its window and has not left
// it since.
func (a *Actor) Triggered() bool {
	return a.triggered
}

// Bounds returns the resolved window; ok is false before resolution.
func (a *Actor) Bounds() (Bounds, bool) {
	return a.bounds, a.resolved
}

// SetBounds pins the resolved window, skipping the path search.
func (a *Actor) SetBounds(b Bounds) {
	a.bounds, _ = b.normalize()
	a.resolved = true
}

func (a *Actor) reset() {
	a.LocalT = 0
	a.Target = 0
	a.Visible = false
	a.Opacity = 0
	a.triggered = false
}

// Opacity is 1 up to fadeFrom and falls linearly to 0 at local progress 1.
func Opacity(localT, fadeFrom float64) float64 {
	if localT <= fadeFrom {
		return 1
	}
	if localT >= 1 || fadeFrom >= 1 {
		return 0
	}
	return (1 - localT) / (1 - fadeFrom)
}
