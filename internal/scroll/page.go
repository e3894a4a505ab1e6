package scroll

// PageSection is one block of a synthetic page.
type PageSection struct {
	Name   string
	Height float64
}

// Page is a stack of sections used to generate rectangles for a given scroll
// offset, standing in for the browser when baking or scrubbing.
type Page struct {
	Viewport Viewport
	Sections []PageSection
}

// ScrollHeight is the largest meaningful scroll offset.
func (p Page) ScrollHeight() float64 {
	total := 0.0
	for _, s := range p.Sections {
		total += s.Height
	}
	if total < p.Viewport.Height {
		return 0
	}
	return total - p.Viewport.Height
}

// Rects returns every section's rectangle at scroll offset y.
func (p Page) Rects(y float64) map[string]Rect {
	out := make(map[string]Rect, len(p.Sections))
	top := 0.0
	for _, s := range p.Sections {
		out[s.Name] = Rect{Top: top - y, Height: s.Height}
		top += s.Height
	}
	return out
}
