// Package render draws an arrangement of segments, with its fragments and crossings, as SVG or PNG.
package render

import (
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tdewolff/arrangement"
)

// Drawing holds the input segments and the arrangement computed from them.
type Drawing struct {
	Segments  []arrangement.Segment
	Fragments []arrangement.Fragment
	Crossings []arrangement.Crossing
}

// NewDrawing splits the segments and finds their crossings.
func NewDrawing(segments []arrangement.Segment, opts ...arrangement.Option) *Drawing {
	return &Drawing{
		Segments:  segments,
		Fragments: arrangement.Split(segments, opts...),
		Crossings: arrangement.Intersections(segments, opts...),
	}
}

// Style sets the colors and sizes in pixels of the drawing.
type Style struct {
	Margin          float64
	SegmentWidth    float64
	FragmentWidth   float64
	CrossingRadius  float64
	Background      color.RGBA
	SegmentColor    color.RGBA
	CrossingColor   color.RGBA
	FragmentPalette []color.RGBA
}

// DefaultStyle draws fragments in alternating colors over wide grey input segments.
var DefaultStyle = Style{
	Margin:         10.0,
	SegmentWidth:   6.0,
	FragmentWidth:  2.0,
	CrossingRadius: 3.0,
	Background:     color.RGBA{255, 255, 255, 255},
	SegmentColor:   color.RGBA{208, 208, 208, 255},
	CrossingColor:  color.RGBA{220, 30, 30, 255},
	FragmentPalette: []color.RGBA{
		{31, 119, 180, 255},
		{44, 160, 44, 255},
		{255, 127, 14, 255},
		{148, 103, 189, 255},
	},
}

func (s Style) fragmentColor(i int) color.RGBA {
	if len(s.FragmentPalette) == 0 {
		return s.SegmentColor
	}
	return s.FragmentPalette[i%len(s.FragmentPalette)]
}

// viewport maps drawing coordinates to pixels, with the y-axis pointing down.
type viewport struct {
	x0, y0 float64
	scale  float64
	margin float64
	w, h   float64
}

func newViewport(segments []arrangement.Segment, width, margin float64) viewport {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for _, seg := range segments {
		for _, p := range []arrangement.Point{seg.Start, seg.End} {
			x, y := p.Float()
			x0, y0 = math.Min(x0, x), math.Min(y0, y)
			x1, y1 = math.Max(x1, x), math.Max(y1, y)
		}
	}
	if len(segments) == 0 {
		x0, y0, x1, y1 = 0.0, 0.0, 1.0, 1.0
	}

	dx, dy := x1-x0, y1-y0
	if dx == 0.0 && dy == 0.0 {
		dx = 1.0
	}
	inner := math.Max(width-2.0*margin, 1.0)
	scale := inner / math.Max(dx, dy)
	return viewport{
		x0:     x0,
		y0:     y0,
		scale:  scale,
		margin: margin,
		w:      width,
		h:      math.Ceil(dy*scale + 2.0*margin),
	}
}

func (v viewport) point(p arrangement.Point) (float64, float64) {
	x, y := p.Float()
	return v.margin + (x-v.x0)*v.scale, v.h - (v.margin + (y-v.y0)*v.scale)
}

// Write draws to a file, using the extension to choose between SVG and PNG. The width is in pixels.
func Write(filename string, d *Drawing, width int, style Style) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".svg" && ext != ".png" {
		return errors.Newf("unknown image format: %s", ext)
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "render")
	}

	switch ext {
	case ".svg":
		err = d.WriteSVG(f, float64(width), style)
	case ".png":
		err = png.Encode(f, d.Image(width, style))
	}
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "render %s", filename)
	}
	return errors.Wrap(f.Close(), "render")
}
