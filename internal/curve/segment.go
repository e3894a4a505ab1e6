package curve

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// arcSamples is the resolution of the arc-length table kept per quadratic segment.
const arcSamples = 64

// Segment is a read-only view of one piece of a Path.
type Segment struct {
	Start     mgl64.Vec3
	Control   mgl64.Vec3
	End       mgl64.Vec3
	Quadratic bool
	Length    float64
}

type segment struct {
	Segment
	lut []float64 // cumulative length at u = i/arcSamples
}

func newLine(a, b mgl64.Vec3) segment {
	return segment{Segment: Segment{Start: a, Control: a, End: b, Length: b.Sub(a).Len()}}
}

func newQuadratic(a, c, b mgl64.Vec3) segment {
	s := segment{Segment: Segment{Start: a, Control: c, End: b, Quadratic: true}}
	s.lut = make([]float64, arcSamples+1)
	prev := a
	for i := 1; i <= arcSamples; i++ {
		p := s.eval(float64(i) / arcSamples)
		s.lut[i] = s.lut[i-1] + p.Sub(prev).Len()
		prev = p
	}
	s.Length = s.lut[arcSamples]
	return s
}

// eval returns the point at local parameter u. Both endpoints are reproduced
// exactly, which keeps neighbouring segments bit-for-bit continuous.
func (s *segment) eval(u float64) mgl64.Vec3 {
	v := 1 - u
	if !s.Quadratic {
		return s.Start.Mul(v).Add(s.End.Mul(u))
	}
	return s.Start.Mul(v * v).Add(s.Control.Mul(2 * v * u)).Add(s.End.Mul(u * u))
}

func (s *segment) derivative(u float64) mgl64.Vec3 {
	chord := s.End.Sub(s.Start)
	if !s.Quadratic {
		return chord
	}
	d := s.Control.Sub(s.Start).Mul(2 * (1 - u)).Add(s.End.Sub(s.Control).Mul(2 * u))
	// A control point sitting on an endpoint zeroes the derivative there.
	if d.Len() < 1e-12 {
		return chord
	}
	return d
}

// localParam maps a distance travelled inside the segment to its local parameter.
func (s *segment) localParam(dist float64) float64 {
	if s.Length <= 0 {
		return 0
	}
	if dist <= 0 {
		return 0
	}
	if dist >= s.Length {
		return 1
	}
	if !s.Quadratic {
		return dist / s.Length
	}
	i := sort.SearchFloat64s(s.lut, dist)
	if i == 0 {
		return 0
	}
	span := s.lut[i] - s.lut[i-1]
	frac := 0.0
	if span > 0 {
		frac = (dist - s.lut[i-1]) / span
	}
	return (float64(i-1) + frac) / arcSamples
}
