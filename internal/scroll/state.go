package scroll

import (
	"fmt"
	"strings"
)

// Mode is the named section the page is currently in, in document order.
type Mode int

const (
	Home Mode = iota
	SectionScroll
	Pov
	End
)

var modeNames = [...]string{"home", "section-scroll", "pov", "end"}

func (m Mode) String() string {
	if m < Home || m > End {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return Home, fmt.Errorf("unknown mode: %q", s)
}

// Next is the mode after m in document order (End stays End).
func (m Mode) Next() Mode {
	if m >= End {
		return End
	}
	return m + 1
}

// Prev is the mode before m in document order (Home stays Home).
func (m Mode) Prev() Mode {
	if m <= Home {
		return Home
	}
	return m - 1
}

// Direction of the last scroll movement.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// DirectionOf derives a direction from a progress delta, keeping prev when
// nothing moved.
func DirectionOf(delta float64, prev Direction) Direction {
	switch {
	case delta > 0:
		return Forward
	case delta < 0:
		return Backward
	default:
		return prev
	}
}

// State is re-derived every frame. It is owned by the engine and read by
// every other component.
type State struct {
	Mode             Mode
	RawProgress      float64
	SmoothedProgress float64
	Direction        Direction
}

// Callbacks mirrors the enter/leave hooks a scroll-trigger library exposes
// for one section.
type Callbacks struct {
	OnEnter     func()
	OnEnterBack func()
	OnLeave     func()
	OnLeaveBack func()
}
