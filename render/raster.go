package render

import (
	"image"
	"image/color"
	"math"

	"github.com/tdewolff/arrangement"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Image rasterizes the drawing on a new image with the given width in pixels.
func (d *Drawing) Image(width int, style Style) *image.RGBA {
	v := newViewport(d.Segments, float64(width), style.Margin)
	img := image.NewRGBA(image.Rect(0, 0, width, int(v.h)))
	draw.Draw(img, img.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	r := &rasterizer{img: img, v: v}
	for _, seg := range d.Segments {
		r.line(seg.Start, seg.End, style.SegmentWidth)
	}
	r.fill(style.SegmentColor)
	for i, f := range d.Fragments {
		r.line(f.Start, f.End, style.FragmentWidth)
		r.fill(style.fragmentColor(i))
	}
	for _, c := range d.Crossings {
		r.dot(c.Point, style.CrossingRadius)
	}
	r.fill(style.CrossingColor)
	return img
}

type rasterizer struct {
	img *image.RGBA
	v   viewport
	ras *vector.Rasterizer
}

func (r *rasterizer) rasterizer() *vector.Rasterizer {
	if r.ras == nil {
		size := r.img.Bounds().Size()
		r.ras = vector.NewRasterizer(size.X, size.Y)
	}
	return r.ras
}

// line adds a stroke of the given width as a quadrilateral.
func (r *rasterizer) line(p0, p1 arrangement.Point, width float64) {
	x0, y0 := r.v.point(p0)
	x1, y1 := r.v.point(p1)
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0.0 {
		return
	}
	nx, ny := -dy/length*width/2.0, dx/length*width/2.0

	ras := r.rasterizer()
	ras.MoveTo(float32(x0+nx), float32(y0+ny))
	ras.LineTo(float32(x1+nx), float32(y1+ny))
	ras.LineTo(float32(x1-nx), float32(y1-ny))
	ras.LineTo(float32(x0-nx), float32(y0-ny))
	ras.ClosePath()
}

// dot adds a filled circle approximated by a polygon.
func (r *rasterizer) dot(p arrangement.Point, radius float64) {
	const n = 16
	x, y := r.v.point(p)
	ras := r.rasterizer()
	ras.MoveTo(float32(x+radius), float32(y))
	for i := 1; i < n; i++ {
		sin, cos := math.Sincos(2.0 * math.Pi * float64(i) / n)
		ras.LineTo(float32(x+radius*cos), float32(y+radius*sin))
	}
	ras.ClosePath()
}

// fill draws all added shapes in one color and starts a new layer.
func (r *rasterizer) fill(c color.RGBA) {
	if r.ras == nil {
		return
	}
	r.ras.DrawOp = draw.Over
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
	r.ras = nil
}
