package geomio

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tdewolff/arrangement"
)

// FromOrb returns the edges of a geometry. Rings and polygons are closed, points have no edges. The transformation may be nil.
func FromOrb(g orb.Geometry, t Transform) ([]arrangement.Segment, error) {
	l := &polyline{t: t}
	if err := l.addOrb(g); err != nil {
		return nil, err
	}
	return l.segments, nil
}

func (l *polyline) addOrb(g orb.Geometry) error {
	switch g := g.(type) {
	case nil, orb.Point, orb.MultiPoint:
		return nil
	case orb.LineString:
		return l.add(g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			if err := l.add(ls, false); err != nil {
				return err
			}
		}
	case orb.Ring:
		return l.add(g, true)
	case orb.Polygon:
		for _, ring := range g {
			if err := l.add(ring, true); err != nil {
				return err
			}
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			if err := l.addOrb(poly); err != nil {
				return err
			}
		}
	case orb.Bound:
		return l.add(g.ToRing(), true)
	case orb.Collection:
		for _, h := range g {
			if err := l.addOrb(h); err != nil {
				return err
			}
		}
	default:
		return errors.Newf("unsupported geometry: %T", g)
	}
	return nil
}

// ReadGeoJSON returns the edges of all geometries in a GeoJSON feature collection, feature, or geometry.
func ReadGeoJSON(r io.Reader, t Transform) ([]arrangement.Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "geojson")
	}

	var gs []orb.Geometry
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && fc.Type == "FeatureCollection" {
		for _, f := range fc.Features {
			gs = append(gs, f.Geometry)
		}
	} else if f, err := geojson.UnmarshalFeature(data); err == nil && f.Type == "Feature" {
		gs = append(gs, f.Geometry)
	} else if g, err := geojson.UnmarshalGeometry(data); err == nil {
		gs = append(gs, g.Geometry())
	} else {
		return nil, errors.Wrap(err, "geojson")
	}

	l := &polyline{t: t}
	for i, g := range gs {
		if err := l.addOrb(g); err != nil {
			return nil, errors.Wrapf(err, "geojson: geometry %d", i)
		}
	}
	return l.segments, nil
}

// ToOrb returns the segments as a multi line string of two-point lines.
func ToOrb(segments []arrangement.Segment) orb.MultiLineString {
	mls := make(orb.MultiLineString, 0, len(segments))
	for _, seg := range segments {
		x0, y0 := seg.Start.Float()
		x1, y1 := seg.End.Float()
		mls = append(mls, orb.LineString{{x0, y0}, {x1, y1}})
	}
	return mls
}

// WriteGeoJSON writes the fragments as line features and the crossings as point features of a feature collection. Each feature has an "ids" property listing the input segments.
func WriteGeoJSON(w io.Writer, fragments []arrangement.Fragment, crossings []arrangement.Crossing) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range fragments {
		feature := geojson.NewFeature(ToOrb([]arrangement.Segment{f.Segment})[0])
		feature.Properties["ids"] = f.IDs
		fc.Append(feature)
	}
	for _, c := range crossings {
		x, y := c.Float()
		feature := geojson.NewFeature(orb.Point{x, y})
		feature.Properties["ids"] = c.IDs
		fc.Append(feature)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "geojson")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "geojson")
	}
	return nil
}
