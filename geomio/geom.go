package geomio

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/tdewolff/arrangement"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// FromGeom returns the edges of a geometry. Polygon rings are closed, points have no edges. The transformation may be nil.
func FromGeom(g geom.T, t Transform) ([]arrangement.Segment, error) {
	l := &polyline{t: t}
	if err := l.addGeom(g); err != nil {
		return nil, err
	}
	return l.segments, nil
}

func coords(cs []geom.Coord) []orb.Point {
	pts := make([]orb.Point, len(cs))
	for i, c := range cs {
		pts[i] = orb.Point{c.X(), c.Y()}
	}
	return pts
}

func (l *polyline) addGeom(g geom.T) error {
	switch g := g.(type) {
	case nil, *geom.Point, *geom.MultiPoint:
		return nil
	case *geom.LineString:
		return l.add(coords(g.Coords()), false)
	case *geom.LinearRing:
		return l.add(coords(g.Coords()), true)
	case *geom.MultiLineString:
		for i := 0; i < g.NumLineStrings(); i++ {
			if err := l.addGeom(g.LineString(i)); err != nil {
				return err
			}
		}
	case *geom.Polygon:
		for i := 0; i < g.NumLinearRings(); i++ {
			if err := l.addGeom(g.LinearRing(i)); err != nil {
				return err
			}
		}
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			if err := l.addGeom(g.Polygon(i)); err != nil {
				return err
			}
		}
	case *geom.GeometryCollection:
		for _, h := range g.Geoms() {
			if err := l.addGeom(h); err != nil {
				return err
			}
		}
	default:
		return errors.Newf("unsupported geometry: %T", g)
	}
	return nil
}

// ParseWKT returns the edges of a geometry in well-known text.
func ParseWKT(s string, t Transform) ([]arrangement.Segment, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "wkt")
	}
	return FromGeom(g, t)
}

// ToGeom returns the segments as a multi line string of two-point lines.
func ToGeom(segments []arrangement.Segment) *geom.MultiLineString {
	mls := geom.NewMultiLineString(geom.XY)
	for _, seg := range segments {
		x0, y0 := seg.Start.Float()
		x1, y1 := seg.End.Float()
		ls := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{{x0, y0}, {x1, y1}})
		if err := mls.Push(ls); err != nil {
			panic(errors.NewAssertionErrorWithWrappedErrf(err, "push line string"))
		}
	}
	return mls
}

// MarshalWKT returns the segments as a well-known text multi line string.
func MarshalWKT(segments []arrangement.Segment) (string, error) {
	s, err := wkt.Marshal(ToGeom(segments))
	if err != nil {
		return "", errors.Wrap(err, "wkt")
	}
	return s, nil
}
