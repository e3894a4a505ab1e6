package curve

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// SegmentKind selects the shape of the segment that starts at a waypoint.
type SegmentKind int

const (
	Straight SegmentKind = iota
	Arc
)

func (k SegmentKind) String() string {
	if k == Arc {
		return "arc"
	}
	return "straight"
}

// ParseSegmentKind accepts "straight" (or "") and "arc".
func ParseSegmentKind(s string) (SegmentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "straight", "line":
		return Straight, nil
	case "arc", "curve":
		return Arc, nil
	default:
		return Straight, fmt.Errorf("unknown segment kind: %q", s)
	}
}

// ArcKind selects how the quadratic control point of an Arc segment is derived.
type ArcKind int

const (
	ArcDefault ArcKind = iota
	UpperArc
	LowerArc
	ForwardDownArc
)

func (k ArcKind) String() string {
	switch k {
	case UpperArc:
		return "upper"
	case LowerArc:
		return "lower"
	case ForwardDownArc:
		return "forward-down"
	default:
		return ""
	}
}

// ParseArcKind accepts "upper", "lower", "forward-down" and "" (default).
func ParseArcKind(s string) (ArcKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ArcDefault, nil
	case "upper":
		return UpperArc, nil
	case "lower":
		return LowerArc, nil
	case "forward-down", "forwarddown":
		return ForwardDownArc, nil
	default:
		return ArcDefault, fmt.Errorf("unknown arc kind: %q", s)
	}
}

// Waypoint is one authored point of a path. Kind and Arc describe the segment
// running from this waypoint to the next one.
type Waypoint struct {
	Position mgl64.Vec3
	Kind     SegmentKind
	Arc      ArcKind
}

// ControlPoint derives the quadratic control point for the pair (cur, next).
func ControlPoint(cur, next mgl64.Vec3, arc ArcKind) mgl64.Vec3 {
	switch arc {
	case LowerArc:
		return mgl64.Vec3{next.X(), cur.Y(), cur.Z()}
	case ForwardDownArc:
		return mgl64.Vec3{cur.X(), next.Y(), cur.Z()}
	default: // UpperArc and unspecified
		return mgl64.Vec3{cur.X(), cur.Y(), next.Z()}
	}
}
