package render

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdewolff/arrangement"
	"github.com/tdewolff/test"
)

func cross() *Drawing {
	return NewDrawing([]arrangement.Segment{
		arrangement.Seg(0, 0, 2, 2),
		arrangement.Seg(0, 2, 2, 0),
	})
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return -8 < d && d < 8
}

func TestNewDrawing(t *testing.T) {
	d := cross()
	test.T(t, len(d.Fragments), 4)
	test.T(t, len(d.Crossings), 1)
	test.T(t, d.Crossings[0].Point.String(), "(1,1)")
}

func TestViewport(t *testing.T) {
	v := newViewport(cross().Segments, 100.0, 10.0)
	test.Float(t, v.h, 100.0)

	x, y := v.point(arrangement.Pt(0, 0))
	test.Float(t, x, 10.0)
	test.Float(t, y, 90.0)
	x, y = v.point(arrangement.Pt(2, 2))
	test.Float(t, x, 90.0)
	test.Float(t, y, 10.0)

	// a horizontal line keeps a small height
	v = newViewport([]arrangement.Segment{arrangement.Seg(0, 0, 4, 0)}, 100.0, 10.0)
	test.Float(t, v.h, 20.0)
	x, y = v.point(arrangement.Pt(4, 0))
	test.Float(t, x, 90.0)
	test.Float(t, y, 10.0)
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	err := cross().WriteSVG(&buf, 100.0, DefaultStyle)
	test.Error(t, err)

	s := buf.String()
	test.That(t, strings.HasPrefix(s, "<?xml"), s)
	test.T(t, strings.Count(s, "<line"), 6)
	test.T(t, strings.Count(s, "<circle"), 1)
	test.That(t, strings.Contains(s, hex(DefaultStyle.CrossingColor)), s)
}

func TestImage(t *testing.T) {
	img := cross().Image(100, DefaultStyle)
	test.T(t, img.Bounds().Dx(), 100)
	test.T(t, img.Bounds().Dy(), 100)

	test.T(t, img.RGBAAt(1, 1), DefaultStyle.Background)

	c := img.RGBAAt(50, 50)
	test.That(t, near(c.R, DefaultStyle.CrossingColor.R) && near(c.G, DefaultStyle.CrossingColor.G), c)

	// first fragment runs from (0,0) to (1,1)
	c = img.RGBAAt(20, 79)
	test.That(t, near(c.R, DefaultStyle.FragmentPalette[0].R) && near(c.B, DefaultStyle.FragmentPalette[0].B), c)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	d := cross()

	filename := filepath.Join(dir, "cross.svg")
	test.Error(t, Write(filename, d, 100, DefaultStyle))
	data, err := os.ReadFile(filename)
	test.Error(t, err)
	test.That(t, bytes.Contains(data, []byte("<svg")))

	filename = filepath.Join(dir, "cross.png")
	test.Error(t, Write(filename, d, 100, DefaultStyle))
	f, err := os.Open(filename)
	test.Error(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	test.Error(t, err)
	test.T(t, color.RGBAModel.Convert(img.At(1, 1)), color.Color(DefaultStyle.Background))

	err = Write(filepath.Join(dir, "cross.pdf"), d, 100, DefaultStyle)
	test.That(t, err != nil, "expected error")
}
