package text

import (
	"log/slog"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/ivlev/scrollscene/internal/actors"
	"github.com/ivlev/scrollscene/internal/motion"
)

// Settings tune the label choreography.
type Settings struct {
	FadeWindow    float64
	CameraPeak    float64
	RiseRate      float64
	FallRate      float64
	HideThreshold float64
}

func DefaultSettings() Settings {
	return Settings{
		FadeWindow:    0.02,
		CameraPeak:    0.8,
		RiseRate:      0.2,
		FallRate:      0.1,
		HideThreshold: 0.01,
	}
}

// BoundsSource yields resolved trigger windows; *actors.Engine satisfies it.
type BoundsSource interface {
	Bounds(id string) (actors.Bounds, bool)
}

// State is the displayed label state of one actor after a tick.
type State struct {
	ActorID      string  `yaml:"actor"`
	Ghost        float64 `yaml:"ghost"`
	Camera       float64 `yaml:"camera"`
	GhostHidden  bool    `yaml:"ghost_hidden"`
	CameraHidden bool    `yaml:"camera_hidden"`
}

type channel struct {
	label   Label
	value   float64 // smoothed, unrounded
	shown   float64
	hidden  bool
	written bool
}

type track struct {
	actorID string
	ghost   channel
	camera  channel
}

// Choreographer drives the ghost and camera labels of every actor.
type Choreographer struct {
	log      *slog.Logger
	source   BoundsSource
	sink     Sink
	settings Settings
	tracks   []*track
}

// NewChoreographer binds each actor id to the parent element of its labels.
func NewChoreographer(log *slog.Logger, source BoundsSource, sink Sink, settings Settings, parents map[string]string) *Choreographer {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = NopSink{}
	}
	ids := lo.Keys(parents)
	sort.Strings(ids)

	c := &Choreographer{log: log, source: source, sink: sink, settings: settings}
	for _, id := range ids {
		c.tracks = append(c.tracks, &track{
			actorID: id,
			ghost:   channel{label: Label{Parent: parents[id], Kind: GhostLabel}, hidden: true},
			camera:  channel{label: Label{Parent: parents[id], Kind: CameraLabel}, hidden: true},
		})
	}
	log.Debug("labels bound", "actors", len(c.tracks))
	return c
}

// Update smooths every label toward its envelope at camera progress cp and
// writes changed values to the sink.
func (c *Choreographer) Update(cp float64) []State {
	out := make([]State, 0, len(c.tracks))
	for _, t := range c.tracks {
		var ghostTarget, cameraTarget float64
		if b, ok := c.source.Bounds(t.actorID); ok {
			ge, ce := Envelopes(b, c.settings)
			ghostTarget, cameraTarget = ge.At(cp), ce.At(cp)
		}
		c.step(&t.ghost, ghostTarget)
		c.step(&t.camera, cameraTarget)
		out = append(out, t.state())
	}
	return out
}

// Reset hides every label and clears the smoothing state.
func (c *Choreographer) Reset() {
	for _, t := range c.tracks {
		for _, ch := range []*channel{&t.ghost, &t.camera} {
			ch.value = 0
			c.show(ch, 0, true)
		}
	}
}

// States returns the displayed state without advancing.
func (c *Choreographer) States() []State {
	return lo.Map(c.tracks, func(t *track, _ int) State { return t.state() })
}

func (c *Choreographer) step(ch *channel, target float64) {
	ch.value = motion.ApproachAsymmetric(ch.value, target, c.settings.RiseRate, c.settings.FallRate)

	shown := math.Round(ch.value*1000) / 1000
	if shown < c.settings.HideThreshold {
		c.show(ch, 0, true)
		return
	}
	c.show(ch, shown, false)
}

func (c *Choreographer) show(ch *channel, opacity float64, hidden bool) {
	if ch.written && ch.shown == opacity && ch.hidden == hidden {
		return
	}
	if !ch.written || ch.shown != opacity {
		c.sink.SetOpacity(ch.label, opacity)
	}
	if !ch.written || ch.hidden != hidden {
		c.sink.SetHidden(ch.label, hidden)
	}
	ch.shown, ch.hidden, ch.written = opacity, hidden, true
}

func (t *track) state() State {
	return State{
		ActorID:      t.actorID,
		Ghost:        t.ghost.shown,
		Camera:       t.camera.shown,
		GhostHidden:  t.ghost.hidden,
		CameraHidden: t.camera.hidden,
	}
}
