// Package geomio converts between arrangement segments and the geometry types of orb and go-geom, and reads and writes them as GeoJSON and WKT.
package geomio

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/tdewolff/arrangement"
	"github.com/wroge/wgs84/v2"
)

// Transform maps coordinates before they are converted to exact points.
type Transform func(x, y float64) (float64, float64)

// Project returns the transformation from one EPSG coordinate reference system to another, such as Project(4326, 32633) from WGS84 longitude/latitude to UTM zone 33N.
func Project(from, to int) Transform {
	f := wgs84.Transform(wgs84.EPSG(from), wgs84.EPSG(to))
	return func(x, y float64) (float64, float64) {
		x, y, _ = f(x, y, 0.0)
		return x, y
	}
}

// polyline accumulates the segments between consecutive vertices.
type polyline struct {
	t        Transform
	segments []arrangement.Segment
}

func (l *polyline) point(x, y float64) (arrangement.Point, error) {
	if l.t != nil {
		x, y = l.t(x, y)
	}
	p, ok := arrangement.PtFloat(x, y)
	if !ok {
		return arrangement.Point{}, errors.Newf("invalid coordinate (%v,%v)", x, y)
	}
	return p, nil
}

// add appends the edges between the vertices, and the closing edge if closed is set. Repeated vertices are skipped.
func (l *polyline) add(pts []orb.Point, closed bool) error {
	if len(pts) == 0 {
		return nil
	}
	first, err := l.point(pts[0][0], pts[0][1])
	if err != nil {
		return err
	}

	prev := first
	for _, pt := range pts[1:] {
		p, err := l.point(pt[0], pt[1])
		if err != nil {
			return err
		} else if !p.Equals(prev) {
			l.segments = append(l.segments, arrangement.Segment{Start: prev, End: p})
			prev = p
		}
	}
	if closed && !prev.Equals(first) {
		l.segments = append(l.segments, arrangement.Segment{Start: prev, End: first})
	}
	return nil
}
