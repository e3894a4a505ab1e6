package director

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/ivlev/scrollscene/internal/actors"
	"github.com/ivlev/scrollscene/internal/camera"
	"github.com/ivlev/scrollscene/internal/curve"
	"github.com/ivlev/scrollscene/internal/scroll"
)

var ErrInvalidScenario = errors.New("invalid scenario")

const CameraKey = "camera"

func GhostKey(id string) string { return "ghost/" + id }
func ActorKey(id string) string { return "actor/" + id }

// GhostSpec is a built idle ghost.
type GhostSpec struct {
	ID      string
	PathKey string
	Phase   float64
}

// ActorSpec is a built POV actor.
type ActorSpec struct {
	ID      string
	PathKey string
	Label   string
	Window  actors.TriggerWindow
}

// Production is a validated scenario with every path built. It is
// read-only once built and may be shared between engines.
type Production struct {
	Name         string
	Paths        *curve.Library
	CameraKey    string
	Rig          camera.Rig
	HomePosition mgl64.Vec3
	HomeLookAt   mgl64.Vec3
	Ghosts       []GhostSpec
	Actors       []ActorSpec
	Layout       scroll.Layout
	Heights      []float64 // per section, in viewport heights
}

// Labels maps actor ids to their label parent element.
func (p *Production) Labels() map[string]string {
	return lo.SliceToMap(p.Actors, func(a ActorSpec) (string, string) { return a.ID, a.Label })
}

// Page lays the sections out for a viewport of height vh.
func (p *Production) Page(vh float64) scroll.Page {
	page := scroll.Page{Viewport: scroll.Viewport{Height: vh}}
	for i, s := range p.Layout.Sections {
		page.Sections = append(page.Sections, scroll.PageSection{Name: s.Name, Height: p.Heights[i] * vh})
	}
	return page
}

// Build validates the scenario and builds every path. All problems are
// reported together.
func Build(sc *Scenario) (*Production, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	prod := &Production{
		Name:         sc.Name,
		Paths:        curve.NewLibrary(),
		CameraKey:    CameraKey,
		HomePosition: sc.Camera.Home.Position.Vec3(),
		HomeLookAt:   sc.Camera.Home.LookAt.Vec3(),
		Rig: camera.Rig{
			HomeTransitionFrom: sc.Camera.Rig.HomeTransitionFrom.Vec3(),
			HomeTransitionTo:   sc.Camera.Rig.HomeTransitionTo.Vec3(),
			RotationStart:      sc.Camera.Rig.RotationStart.Vec3(),
			RotationEnd:        sc.Camera.Rig.RotationEnd.Vec3(),
			RotationTarget:     sc.Camera.Rig.RotationTarget.Vec3(),
			FinalLookAt:        sc.Camera.Rig.FinalLookAt.Vec3(),
			ReverseLook:        sc.Camera.Rig.ReverseLook.Vec3(),
		},
	}

	addPath := func(key string, wps []Waypoint) bool {
		path, err := buildPath(wps)
		if err != nil {
			fail("%s: %w", key, err)
			return false
		}
		prod.Paths.Add(key, path)
		return true
	}

	addPath(CameraKey, sc.Camera.Waypoints)

	seen := make(map[string]bool)
	unique := func(kind, id string) bool {
		if id == "" {
			fail("%s without id", kind)
			return false
		}
		key := kind + "/" + id
		if seen[key] {
			fail("duplicate %s %q", kind, id)
			return false
		}
		seen[key] = true
		return true
	}

	for _, g := range sc.Ghosts {
		if !unique("ghost", g.ID) {
			continue
		}
		if g.Phase < 0 || g.Phase >= 1 {
			fail("ghost %q: phase %v outside [0,1)", g.ID, g.Phase)
		}
		if addPath(GhostKey(g.ID), g.Waypoints) {
			prod.Ghosts = append(prod.Ghosts, GhostSpec{ID: g.ID, PathKey: GhostKey(g.ID), Phase: g.Phase})
		}
	}

	for _, a := range sc.Actors {
		if !unique("actor", a.ID) {
			continue
		}
		if len(a.TextFades) > 2 {
			fail("actor %q: at most two text fades, got %d", a.ID, len(a.TextFades))
		}
		if addPath(ActorKey(a.ID), a.Waypoints) {
			prod.Actors = append(prod.Actors, ActorSpec{
				ID:      a.ID,
				PathKey: ActorKey(a.ID),
				Label:   lo.Ternary(a.Label != "", a.Label, "#"+a.ID),
				Window: actors.TriggerWindow{
					Trigger:   a.Trigger.Vec3(),
					End:       a.End.Vec3(),
					TextFades: lo.Map(a.TextFades, func(p Point, _ int) mgl64.Vec3 { return p.Vec3() }),
				},
			})
		}
	}

	if len(sc.Sections) == 0 {
		fail("no sections")
	}
	last := scroll.Home
	for i, s := range sc.Sections {
		mode, err := scroll.ParseMode(s.Mode)
		if err != nil {
			fail("section %q: %w", s.Name, err)
			continue
		}
		if i > 0 && mode < last {
			fail("section %q: mode %s after %s", s.Name, mode, last)
		}
		if s.Height <= 0 {
			fail("section %q: height must be positive", s.Name)
		}
		last = mode
		prod.Layout.Sections = append(prod.Layout.Sections, scroll.Section{Name: s.Name, Mode: mode})
		prod.Heights = append(prod.Heights, s.Height)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return prod, nil
}

func buildPath(wps []Waypoint) (*curve.Path, error) {
	out := make([]curve.Waypoint, 0, len(wps))
	for i, w := range wps {
		kind, err := curve.ParseSegmentKind(w.Kind)
		if err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		arc, err := curve.ParseArcKind(w.Arc)
		if err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		out = append(out, curve.Waypoint{Position: w.Vec3(), Kind: kind, Arc: arc})
	}
	return curve.Build(out)
}
