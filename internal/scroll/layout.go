package scroll

import (
	"github.com/samber/lo"
)

// Rect is a section's bounding rectangle relative to the viewport: Top is the
// distance from the viewport's top edge (negative once scrolled past).
type Rect struct {
	Top    float64
	Height float64
}

// Bottom edge relative to the viewport top.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Viewport describes the visible window.
type Viewport struct {
	Height float64
}

// Section binds a DOM section name to a mode.
type Section struct {
	Name string
	Mode Mode
}

// Layout is the ordered list of sections on the page.
type Layout struct {
	Sections []Section
}

// SectionProgress is 0 before the section reaches the viewport top, grows
// while it scrolls past and is pinned to 1 once the scrollable span is used up.
func SectionProgress(r Rect, vp Viewport) float64 {
	span := r.Height - vp.Height
	if span <= 0 {
		span = r.Height
	}
	if span <= 0 {
		if r.Top < 0 {
			return 1
		}
		return 0
	}
	return lo.Clamp(-r.Top/span, 0, 1)
}

// Locate picks the last section (in document order) whose top edge has
// reached the viewport top and reports its mode and raw progress. Sections
// without a rectangle are ignored. Before any section has crossed, the first
// section is reported at progress 0.
func (l Layout) Locate(vp Viewport, rects map[string]Rect) (Mode, float64) {
	if len(l.Sections) == 0 {
		return Home, 0
	}

	mode, progress := l.Sections[0].Mode, 0.0
	for _, s := range l.Sections {
		r, ok := rects[s.Name]
		if !ok {
			continue
		}
		if r.Top <= 0 {
			mode, progress = s.Mode, SectionProgress(r, vp)
		}
	}
	return mode, progress
}
