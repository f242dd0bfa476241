package render

import (
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo/float"
	"github.com/cockroachdb/errors"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// errWriter records the first write error, svgo does not return them.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(b)
	w.err = err
	return n, err
}

// WriteSVG draws the segments, their fragments, and the crossings as SVG with the given width in pixels.
func (d *Drawing) WriteSVG(w io.Writer, width float64, style Style) error {
	v := newViewport(d.Segments, width, style.Margin)
	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(v.w, v.h)
	canvas.Rect(0, 0, v.w, v.h, "fill:"+hex(style.Background))

	canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-linecap:round", hex(style.SegmentColor), style.SegmentWidth))
	for _, seg := range d.Segments {
		x0, y0 := v.point(seg.Start)
		x1, y1 := v.point(seg.End)
		canvas.Line(x0, y0, x1, y1)
	}
	canvas.Gend()

	canvas.Gstyle(fmt.Sprintf("stroke-width:%g", style.FragmentWidth))
	for i, f := range d.Fragments {
		x0, y0 := v.point(f.Start)
		x1, y1 := v.point(f.End)
		canvas.Line(x0, y0, x1, y1, "stroke:"+hex(style.fragmentColor(i)))
	}
	canvas.Gend()

	canvas.Gstyle("fill:" + hex(style.CrossingColor))
	for _, c := range d.Crossings {
		x, y := v.point(c.Point)
		canvas.Circle(x, y, style.CrossingRadius)
	}
	canvas.Gend()
	canvas.End()

	if cw.err != nil {
		return errors.Wrap(cw.err, "svg")
	}
	return nil
}
