package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/ivlev/scrollscene/internal/config"
	"github.com/ivlev/scrollscene/internal/engine"
	"github.com/ivlev/scrollscene/internal/renderer"
	"github.com/ivlev/scrollscene/internal/scroll"
)

// scrubber is a terminal stand-in for the browser: arrows, page keys and
// the mouse wheel move the scroll offset, the engine observes the synthetic
// page every tick.
type scrubber struct {
	screen tcell.Screen
	engine *engine.Engine
	page   scroll.Page
	path   []mgl64.Vec3

	offset float64
	step   float64
	frame  renderer.Frame

	width, height int
}

func scrub(cfg config.Config, sc scene) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	defer screen.Fini()

	// the screen owns the terminal, engine logs are dropped
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := &scrubber{
		screen: screen,
		engine: engine.NewEngine(logger, cfg, sc.prod, nil),
		page:   sc.prod.Page(cfg.Render.Viewport),
		step:   cfg.Render.Viewport / 20,
	}
	if camPath, err := sc.prod.Paths.Lookup(sc.prod.CameraKey); err == nil {
		s.path = camPath.Sample(300)
	}
	s.width, s.height = screen.Size()
	s.run()
	return nil
}

func (s *scrubber) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			s.frame = s.engine.Observe(s.page.Viewport, s.page.Rects(s.offset), now)
			s.draw()
		}
	}
}

func (s *scrubber) scrollBy(dy float64) {
	s.offset = lo.Clamp(s.offset+dy, 0, s.page.ScrollHeight())
}

func (s *scrubber) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyDown:
			s.scrollBy(s.step)
		case tcell.KeyUp:
			s.scrollBy(-s.step)
		case tcell.KeyPgDn:
			s.scrollBy(s.page.Viewport.Height)
		case tcell.KeyPgUp:
			s.scrollBy(-s.page.Viewport.Height)
		case tcell.KeyHome:
			s.offset = 0
		case tcell.KeyEnd:
			s.offset = s.page.ScrollHeight()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'j':
				s.scrollBy(s.step)
			case 'k':
				s.scrollBy(-s.step)
			}
		}

	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelDown != 0:
			s.scrollBy(s.step)
		case ev.Buttons()&tcell.WheelUp != 0:
			s.scrollBy(-s.step)
		}

	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
		s.screen.Sync()
	}

	return true
}

func (s *scrubber) text(x, y int, style tcell.Style, str string) {
	for _, r := range str {
		if x >= s.width {
			return
		}
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (s *scrubber) draw() {
	s.screen.Clear()
	plain := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	f := s.frame

	s.text(0, 0, plain.Bold(true), "scrollscene  ↑/↓ j/k wheel PgUp/PgDn Home/End  q: quit")
	s.text(0, 1, plain, fmt.Sprintf("mode %-15s dir %-8s raw %.3f  smoothed %.3f  offset %.0f/%.0f",
		f.Mode, f.Direction, f.Progress, f.Smoothed, s.offset, s.page.ScrollHeight()))
	c := f.Camera
	s.text(0, 2, plain, fmt.Sprintf("camera (%.2f, %.2f, %.2f) look (%.2f, %.2f, %.2f) fov %.1f phase %s",
		c.Position.X(), c.Position.Y(), c.Position.Z(), c.LookAt.X(), c.LookAt.Y(), c.LookAt.Z(), c.FOV, c.Phase))

	row := 3
	for _, a := range f.Actors {
		s.text(0, row, dim, fmt.Sprintf("actor %-10s visible %-5v local %.3f opacity %.2f", a.ID, a.Visible, a.LocalT, a.Opacity))
		row++
	}
	for _, l := range f.Labels {
		s.text(0, row, dim, fmt.Sprintf("labels %-9s ghost %.3f%s camera %.3f%s", l.ActorID,
			l.Ghost, lo.Ternary(l.GhostHidden, " (hidden)", ""), l.Camera, lo.Ternary(l.CameraHidden, " (hidden)", "")))
		row++
	}

	s.drawScrollbar()
	s.drawMap(row + 1)
	s.screen.Show()
}

func (s *scrubber) drawScrollbar() {
	h := s.page.ScrollHeight()
	if h <= 0 || s.height < 2 {
		return
	}
	x := s.width - 1
	pos := int(math.Round(s.offset / h * float64(s.height-1)))
	for y := 0; y < s.height; y++ {
		r := '│'
		if y == pos {
			r = '█'
		}
		s.screen.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
}

// drawMap plots a top-down x/z view of the camera path, the camera and
// every visible actor below row top.
func (s *scrubber) drawMap(top int) {
	w, h := s.width-2, s.height-top
	if w < 10 || h < 5 || len(s.path) == 0 {
		return
	}
	xs := lo.Map(s.path, func(v mgl64.Vec3, _ int) float64 { return v.X() })
	zs := lo.Map(s.path, func(v mgl64.Vec3, _ int) float64 { return v.Z() })
	minX, maxX, minZ, maxZ := lo.Min(xs), lo.Max(xs), lo.Min(zs), lo.Max(zs)
	// terminal cells are about twice as tall as wide
	scale := math.Min(float64(w-1)/math.Max(maxX-minX, 1e-6), 2*float64(h-1)/math.Max(maxZ-minZ, 1e-6))

	plot := func(v mgl64.Vec3, r rune, style tcell.Style) {
		x := int(math.Round((v.X() - minX) * scale))
		y := int(math.Round((v.Z() - minZ) * scale / 2))
		if x >= 0 && x < w && y >= 0 && y < h {
			s.screen.SetContent(x, top+y, r, nil, style)
		}
	}

	for _, v := range s.path {
		plot(v, '·', tcell.StyleDefault.Foreground(tcell.ColorDarkGray))
	}
	for _, g := range s.frame.Ghosts {
		if g.Visible {
			plot(g.Position, 'g', tcell.StyleDefault.Foreground(tcell.ColorPurple))
		}
	}
	for _, a := range s.frame.Actors {
		if a.Visible {
			style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
			if a.Opacity < 1 {
				style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
			}
			plot(a.Position, []rune(a.ID)[0], style)
		}
	}
	plot(s.frame.Camera.Position, '@', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
}
