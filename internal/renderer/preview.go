package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var palette = []color.RGBA{
	{0x4e, 0x79, 0xa7, 0xff},
	{0xf2, 0x8e, 0x2b, 0xff},
	{0xe1, 0x57, 0x59, 0xff},
	{0x76, 0xb7, 0xb2, 0xff},
	{0x59, 0xa1, 0x4f, 0xff},
	{0xed, 0xc9, 0x48, 0xff},
	{0xb0, 0x7a, 0xa1, 0xff},
}

var (
	background  = color.RGBA{0x16, 0x16, 0x1a, 0xff}
	cameraColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	textColor   = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
)

type PreviewOptions struct {
	Width, Height int
	Margin        float64
	LineWidth     float64
}

func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{Width: 1024, Height: 1024, Margin: 48, LineWidth: 2}
}

// Preview draws a top-down (x/z) map of paths and sampled frames.
type Preview struct {
	opts   PreviewOptions
	paths  map[string][]mgl64.Vec3
	frames []Frame
}

func NewPreview(opts PreviewOptions) *Preview {
	return &Preview{opts: opts, paths: make(map[string][]mgl64.Vec3)}
}

func (p *Preview) AddPath(name string, points []mgl64.Vec3) {
	if len(points) > 0 {
		p.paths[name] = points
	}
}

func (p *Preview) AddFrames(frames ...Frame) {
	p.frames = append(p.frames, frames...)
}

type projection struct {
	minX, minZ float64
	scale      float64
	margin     float64
}

func (pr projection) apply(v mgl64.Vec3) (float32, float32) {
	return float32(pr.margin + (v.X()-pr.minX)*pr.scale),
		float32(pr.margin + (v.Z()-pr.minZ)*pr.scale)
}

func (p *Preview) project() projection {
	var all []mgl64.Vec3
	for _, pts := range p.paths {
		all = append(all, pts...)
	}
	for _, f := range p.frames {
		all = append(all, f.Camera.Position)
	}
	if len(all) == 0 {
		return projection{scale: 1, margin: p.opts.Margin}
	}

	xs := lo.Map(all, func(v mgl64.Vec3, _ int) float64 { return v.X() })
	zs := lo.Map(all, func(v mgl64.Vec3, _ int) float64 { return v.Z() })
	minX, maxX := lo.Min(xs), lo.Max(xs)
	minZ, maxZ := lo.Min(zs), lo.Max(zs)

	w := float64(p.opts.Width) - 2*p.opts.Margin
	h := float64(p.opts.Height) - 2*p.opts.Margin
	scale := math.Min(w/math.Max(maxX-minX, 1e-6), h/math.Max(maxZ-minZ, 1e-6))
	return projection{minX: minX, minZ: minZ, scale: scale, margin: p.opts.Margin}
}

// Render rasterizes the preview.
func (p *Preview) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.opts.Width, p.opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	pr := p.project()

	names := lo.Keys(p.paths)
	sort.Strings(names)
	for i, name := range names {
		col := palette[i%len(palette)]
		pts := p.paths[name]
		p.stroke(img, pr, pts, col)
		x, y := pr.apply(pts[0])
		p.label(img, int(x)+6, int(y)-6, name, textColor)
	}

	for _, f := range p.frames {
		p.dot(img, pr, f.Camera.Position, 2, cameraColor)
		for _, a := range f.Visible() {
			c := palette[len(palette)-1]
			alpha := uint8(math.Round(255 * lo.Clamp(a.Opacity, 0.15, 1)))
			p.dot(img, pr, a.Position, 3, color.NRGBA{c.R, c.G, c.B, alpha})
		}
	}
	return img
}

// Save renders and writes a PNG.
func (p *Preview) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, p.Render()); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func (p *Preview) stroke(img *image.RGBA, pr projection, pts []mgl64.Vec3, col color.RGBA) {
	z := vector.NewRasterizer(p.opts.Width, p.opts.Height)
	half := float32(p.opts.LineWidth / 2)
	for i := 0; i+1 < len(pts); i++ {
		ax, ay := pr.apply(pts[i])
		bx, by := pr.apply(pts[i+1])
		dx, dy := bx-ax, by-ay
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l < 1e-3 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		z.MoveTo(ax+nx, ay+ny)
		z.LineTo(bx+nx, by+ny)
		z.LineTo(bx-nx, by-ny)
		z.LineTo(ax-nx, ay-ny)
		z.ClosePath()
	}
	z.DrawOp = draw.Over
	z.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
}

func (p *Preview) dot(img *image.RGBA, pr projection, v mgl64.Vec3, r float32, col color.Color) {
	x, y := pr.apply(v)
	z := vector.NewRasterizer(p.opts.Width, p.opts.Height)
	z.MoveTo(x-r, y-r)
	z.LineTo(x+r, y-r)
	z.LineTo(x+r, y+r)
	z.LineTo(x-r, y+r)
	z.ClosePath()
	z.DrawOp = draw.Over
	z.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
}

func (p *Preview) label(img *image.RGBA, x, y int, s string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
