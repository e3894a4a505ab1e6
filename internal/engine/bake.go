package engine

import (
	"context"
	"time"

	"github.com/ivlev/scrollscene/internal/renderer"
	"github.com/ivlev/scrollscene/internal/scroll"
)

// BakeOptions control a synthetic scroll sweep.
type BakeOptions struct {
	Frames  int // frames per direction
	FPS     int
	Start   time.Time
	OnFrame func(renderer.Frame)
}

// Offsets returns the scroll offsets of a sweep from the top of page to the
// bottom and back again.
func Offsets(page scroll.Page, frames int) []float64 {
	if frames < 2 {
		frames = 2
	}
	h := page.ScrollHeight()
	out := make([]float64, 0, 2*frames)
	for i := 0; i < frames; i++ {
		out = append(out, h*float64(i)/float64(frames-1))
	}
	for i := frames - 1; i >= 0; i-- {
		out = append(out, h*float64(i)/float64(frames-1))
	}
	return out
}

// Bake drives e through a forward and backward sweep of page, one Observe
// per frame, and returns every frame.
func Bake(ctx context.Context, e *Engine, page scroll.Page, opts BakeOptions) ([]renderer.Frame, error) {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	step := time.Second / time.Duration(fps)
	now := opts.Start
	if now.IsZero() {
		now = time.Now()
	}

	offsets := Offsets(page, opts.Frames)
	frames := make([]renderer.Frame, 0, len(offsets))
	for _, y := range offsets {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		f := e.Observe(page.Viewport, page.Rects(y), now)
		frames = append(frames, f)
		if opts.OnFrame != nil {
			opts.OnFrame(f)
		}
		now = now.Add(step)
	}
	return frames, nil
}
