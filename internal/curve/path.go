package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidWaypointList = errors.New("at least two waypoints are required")
	ErrEmptyPath           = errors.New("path has no segments")
	ErrParameterRange      = errors.New("path parameter out of range")
	ErrZeroTangent         = errors.New("zero-length tangent")
	ErrMissingPath         = errors.New("path was never built")
	ErrNoSamples           = errors.New("no sample could be evaluated")
)

// DefaultSamples is the resolution used by ClosestParameter when none is given.
// Trigger tables are authored against 800..2000 samples.
const DefaultSamples = 1000

// Path is a C0-continuous chain of line and quadratic segments with an
// arc-length parameter t in [0,1]. The zero value is an empty path.
type Path struct {
	segments []segment
	ends     []float64 // cumulative length at the end of each segment
	length   float64
}

// Empty returns a path without segments.
func Empty() *Path {
	return &Path{}
}

// Build turns waypoints into a path. The segment between waypoints i and i+1
// takes its kind from waypoint i. Fewer than two waypoints is an authoring
// error: an empty path is returned together with ErrInvalidWaypointList.
func Build(waypoints []Waypoint) (*Path, error) {
	if len(waypoints) < 2 {
		return Empty(), fmt.Errorf("%w: got %d", ErrInvalidWaypointList, len(waypoints))
	}

	p := &Path{
		segments: make([]segment, 0, len(waypoints)-1),
		ends:     make([]float64, 0, len(waypoints)-1),
	}
	for i := 0; i+1 < len(waypoints); i++ {
		cur, next := waypoints[i], waypoints[i+1]
		if cur.Kind == Arc {
			p.append(newQuadratic(cur.Position, ControlPoint(cur.Position, next.Position, cur.Arc), next.Position))
		} else {
			p.append(newLine(cur.Position, next.Position))
		}
	}
	return p, nil
}

// MustBuild is Build for static tables; it panics on authoring errors.
func MustBuild(waypoints []Waypoint) *Path {
	p, err := Build(waypoints)
	if err != nil {
		panic(err)
	}
	return p
}

// QuadraticArc builds a single-segment path with an explicit control point.
func QuadraticArc(start, control, end mgl64.Vec3) *Path {
	p := &Path{}
	p.append(newQuadratic(start, control, end))
	return p
}

// Line builds a single straight segment.
func Line(start, end mgl64.Vec3) *Path {
	p := &Path{}
	p.append(newLine(start, end))
	return p
}

func (p *Path) append(s segment) {
	p.segments = append(p.segments, s)
	p.length += s.Length
	p.ends = append(p.ends, p.length)
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return p == nil || len(p.segments) == 0
}

// Length is the total arc length.
func (p *Path) Length() float64 {
	if p == nil {
		return 0
	}
	return p.length
}

// Segments returns a copy of the segment list.
func (p *Path) Segments() []Segment {
	if p == nil {
		return nil
	}
	out := make([]Segment, len(p.segments))
	for i := range p.segments {
		out[i] = p.segments[i].Segment
	}
	return out
}

// Boundaries returns the t value at the end of every segment but the last.
func (p *Path) Boundaries() []float64 {
	if p.IsEmpty() || p.length == 0 {
		return nil
	}
	out := make([]float64, 0, len(p.ends)-1)
	for _, e := range p.ends[:len(p.ends)-1] {
		out = append(out, e/p.length)
	}
	return out
}

func (p *Path) locate(t float64) (int, float64, error) {
	if p.IsEmpty() {
		return 0, 0, ErrEmptyPath
	}
	if math.IsNaN(t) || t < 0 || t > 1 {
		return 0, 0, fmt.Errorf("%w: %v", ErrParameterRange, t)
	}

	n := len(p.segments)
	if p.length == 0 {
		// Every segment is degenerate; fall back to uniform subdivision.
		idx := int(t * float64(n))
		if idx >= n {
			idx = n - 1
		}
		return idx, t*float64(n) - float64(idx), nil
	}

	d := t * p.length
	i := sort.SearchFloat64s(p.ends, d)
	if i >= n {
		i = n - 1
	}
	start := 0.0
	if i > 0 {
		start = p.ends[i-1]
	}
	return i, p.segments[i].localParam(d - start), nil
}

// PointAt returns the position at parameter t.
func (p *Path) PointAt(t float64) (mgl64.Vec3, error) {
	i, u, err := p.locate(t)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return p.segments[i].eval(u), nil
}

// PointAtOr returns the position at t, or fallback when the path cannot be
// evaluated (empty path, bad parameter).
func (p *Path) PointAtOr(t float64, fallback mgl64.Vec3) mgl64.Vec3 {
	pt, err := p.PointAt(t)
	if err != nil {
		return fallback
	}
	return pt
}

// TangentAt returns the unit tangent at t. A zero-length tangent yields
// ErrZeroTangent and a zero vector; callers keep their current orientation.
func (p *Path) TangentAt(t float64) (mgl64.Vec3, error) {
	i, u, err := p.locate(t)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	d := p.segments[i].derivative(u)
	l := d.Len()
	if l < 1e-12 || math.IsNaN(l) {
		return mgl64.Vec3{}, ErrZeroTangent
	}
	return d.Mul(1 / l), nil
}

// SegmentEnd returns the end point of the segment containing t, i.e. the
// next waypoint a traveller at t would reach.
func (p *Path) SegmentEnd(t float64) (mgl64.Vec3, error) {
	i, _, err := p.locate(t)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return p.segments[i].End, nil
}

// ClosestParameter brute-forces samples+1 uniform parameters and returns the
// one whose point is nearest to point. Samples that fail to evaluate are
// skipped. The result is deterministic for a fixed sample count.
func (p *Path) ClosestParameter(point mgl64.Vec3, samples int) (float64, error) {
	if samples <= 0 {
		samples = DefaultSamples
	}

	best, bestDist := 0.0, math.Inf(1)
	found := false
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		q, err := p.PointAt(t)
		if err != nil {
			continue
		}
		diff := q.Sub(point)
		d := diff.Dot(diff)
		if d < bestDist {
			best, bestDist, found = t, d, true
		}
	}
	if !found {
		return 0, ErrNoSamples
	}
	return best, nil
}

// Sample returns n+1 evenly spaced points along the path.
func (p *Path) Sample(n int) []mgl64.Vec3 {
	if p.IsEmpty() || n <= 0 {
		return nil
	}
	out := make([]mgl64.Vec3, 0, n+1)
	for i := 0; i <= n; i++ {
		if pt, err := p.PointAt(float64(i) / float64(n)); err == nil {
			out = append(out, pt)
		}
	}
	return out
}
