package arrangement

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"
)

// Relation is the relation between two segments that meet.
type Relation int

// see Relate
const (
	Disjoint  Relation = iota // segments do not meet
	Touch                     // segments meet in a single point that is an endpoint of at least one of them
	Cross                     // segments meet in a single point interior to both
	Overlap                   // collinear segments share a part, neither contains the other
	Component                 // first segment lies within the second
	Composite                 // first segment contains the second
	Equal                     // segments have the same endpoints
)

func (rel Relation) String() string {
	switch rel {
	case Disjoint:
		return "disjoint"
	case Touch:
		return "touch"
	case Cross:
		return "cross"
	case Overlap:
		return "overlap"
	case Component:
		return "component"
	case Composite:
		return "composite"
	case Equal:
		return "equal"
	}
	return fmt.Sprintf("Relation(%d)", int(rel))
}

// Complement returns the relation of the second segment to the first.
func (rel Relation) Complement() Relation {
	switch rel {
	case Component:
		return Composite
	case Composite:
		return Component
	}
	return rel
}

// Relate returns the relation of segment a to segment b.
func Relate(a, b Segment) Relation {
	a, b = a.Sorted(), b.Sorted()
	ob0, ob1 := Orient(a.Start, a.End, b.Start), Orient(a.Start, a.End, b.End)
	if ob0 == Collinear && ob1 == Collinear {
		return relateCollinear(a, b)
	} else if ob0 == ob1 {
		return Disjoint // b lies on one side of a
	}

	oa0, oa1 := Orient(b.Start, b.End, a.Start), Orient(b.Start, b.End, a.End)
	if oa0 == oa1 {
		return Disjoint // a lies on one side of b
	} else if ob0 == Collinear || ob1 == Collinear || oa0 == Collinear || oa1 == Collinear {
		return Touch
	}
	return Cross
}

// relateCollinear returns the relation of two sorted segments on the same line.
func relateCollinear(a, b Segment) Relation {
	if a.Start.Equals(b.Start) && a.End.Equals(b.End) {
		return Equal
	}
	lo, hi := maxPoint(a.Start, b.Start), minPoint(a.End, b.End)
	if cmp := lo.Compare(hi); 0 < cmp {
		return Disjoint
	} else if cmp == 0 {
		return Touch
	} else if !b.Start.Less(a.Start) && !a.End.Less(b.End) {
		return Composite
	} else if !a.Start.Less(b.Start) && !b.End.Less(a.End) {
		return Component
	}
	return Overlap
}

////////////////////////////////////////////////////////////////

// Relationship is the relation of two input segments, with First < Second.
type Relationship struct {
	First, Second int
	Relation
}

func (r Relationship) String() string {
	return fmt.Sprintf("%d %d %v", r.First, r.Second, r.Relation)
}

// meeting is a point where events of the sweep coincide, together with every input segment that passes through it.
type meeting struct {
	Point
	ids []int
}

// meetings groups the events returned by a registry by their position.
type meetings struct {
	r        *Registry
	segments []Segment

	next    Event
	hasNext bool
	seen    map[int]bool
}

func newMeetings(r *Registry, segments []Segment) *meetings {
	m := &meetings{
		r:        r,
		segments: segments,
		seen:     map[int]bool{},
	}
	m.next, m.hasNext = r.Next()
	return m
}

// Next returns the next position where events occur, with the input segments passing through it in order of discovery. Segments that coincide with a fragment at that position are included through their collinear group, even if the duplicate fragment itself was not divided.
func (m *meetings) Next() (meeting, bool) {
	if !m.hasNext {
		return meeting{}, false
	}

	p := m.r.start(m.next)
	clear(m.seen)
	var ids []int
	add := func(id int) {
		if !m.seen[id] {
			m.seen[id] = true
			ids = append(ids, id)
		}
	}
	for m.hasNext && m.r.start(m.next).Equals(p) {
		id := m.r.segmentID(m.next)
		add(id)
		m.r.Members(id, func(member int) {
			if !m.seen[member] && m.segments[member].Contains(p) {
				add(member)
			}
		})
		m.next, m.hasNext = m.r.Next()
	}
	return meeting{p, ids}, true
}

// Relater reports the relation of every pair of input segments that meet. Each pair is reported once, at the first position along the sweep where they meet.
type Relater struct {
	segments []Segment
	r        *Registry
	meetings *meetings

	pending  []Relationship
	reported map[[2]int]bool
}

// NewRelater returns a relater for the given segments, which must have non-zero length. Its registry never filters duplicate fragments, as every copy of a segment is related to the others. Use NewRegistry with unique set to sweep each fragment once.
func NewRelater(segments []Segment, opts ...Option) *Relater {
	checkSegments(segments)
	sorted := make([]Segment, len(segments))
	for i, seg := range segments {
		sorted[i] = seg.Sorted()
	}
	r := NewRegistry(sorted, false, opts...)
	return &Relater{
		segments: sorted,
		r:        r,
		meetings: newMeetings(r, sorted),
		reported: map[[2]int]bool{},
	}
}

// Next returns the next relationship. It returns false when all pairs have been reported.
func (rel *Relater) Next() (Relationship, bool) {
	for len(rel.pending) == 0 {
		m, ok := rel.meetings.Next()
		if !ok {
			return Relationship{}, false
		}
		for i, a := range m.ids {
			for _, b := range m.ids[i+1:] {
				first, second := min(a, b), max(a, b)
				if key := [2]int{first, second}; !rel.reported[key] {
					rel.reported[key] = true
					rel.pending = append(rel.pending, Relationship{first, second, rel.relate(first, second, m.Point)})
				}
			}
		}
		sort.Slice(rel.pending, func(i, j int) bool {
			if rel.pending[i].First != rel.pending[j].First {
				return rel.pending[i].First < rel.pending[j].First
			}
			return rel.pending[i].Second < rel.pending[j].Second
		})
	}

	r := rel.pending[0]
	rel.pending = rel.pending[1:]
	return r, true
}

// relate classifies two input segments that both pass through p.
func (rel *Relater) relate(i, j int, p Point) Relation {
	a, b := rel.segments[i], rel.segments[j]
	if rel.r.Collinear(i, j) || Orient(a.Start, a.End, b.Start) == Collinear && Orient(a.Start, a.End, b.End) == Collinear {
		r := relateCollinear(a, b)
		if r == Disjoint {
			panic(errors.AssertionFailedf("collinear segments %d and %d meet at %v but are disjoint", i, j, p))
		}
		return r
	} else if p.Equals(a.Start) || p.Equals(a.End) || p.Equals(b.Start) || p.Equals(b.End) {
		return Touch
	}
	return Cross
}

// Relations returns the relation of every pair of input segments that meet, in sweep order.
func Relations(segments []Segment, opts ...Option) []Relationship {
	var rs []Relationship
	rel := NewRelater(segments, opts...)
	for {
		r, ok := rel.Next()
		if !ok {
			return rs
		}
		rs = append(rs, r)
	}
}

// IsSimple returns true if segments only meet at their endpoints, as for the edges of a valid polygon.
func IsSimple(segments []Segment, opts ...Option) bool {
	rel := NewRelater(segments, opts...)
	for {
		r, ok := rel.Next()
		if !ok {
			return true
		} else if r.Relation != Touch {
			return false
		}
	}
}

////////////////////////////////////////////////////////////////

// Fragment is a part of the arrangement together with the input segments that cover it.
type Fragment struct {
	Segment
	IDs []int
}

func (f Fragment) String() string {
	return fmt.Sprintf("%v %v", f.Segment, f.IDs)
}

// Split subdivides the segments at every point where they meet, so that no two fragments cross or overlap. Fragments are returned in sweep order, each with the sorted indices of the input segments covering it.
func Split(segments []Segment, opts ...Option) []Fragment {
	checkSegments(segments)
	r := NewRegistry(segments, true, opts...)
	var lefts []Event
	for {
		e, ok := r.Next()
		if !ok {
			break
		} else if e.IsLeft() {
			lefts = append(lefts, e)
		}
	}

	// fragment geometry is final only once the sweep has finished
	type fragment struct {
		Segment
		id int
	}
	frags := make([]fragment, 0, len(lefts))
	for _, e := range lefts {
		frags = append(frags, fragment{Segment{r.Start(e), r.End(e)}, r.SegmentID(e)})
	}
	sort.SliceStable(frags, func(i, j int) bool {
		if cmp := frags[i].Start.Compare(frags[j].Start); cmp != 0 {
			return cmp < 0
		}
		return frags[i].End.Less(frags[j].End)
	})

	// coinciding fragments of different segments are listed once
	var fragments []Fragment
	for i := 0; i < len(frags); {
		f := frags[i]
		var ids []int
		for ; i < len(frags) && frags[i].Start.Equals(f.Start) && frags[i].End.Equals(f.End); i++ {
			r.Members(frags[i].id, func(id int) {
				if seg := segments[id]; seg.Contains(f.Start) && seg.Contains(f.End) {
					ids = append(ids, id)
				}
			})
		}
		fragments = append(fragments, Fragment{f.Segment, uniqueInts(ids)})
	}
	return fragments
}

// Crossing is a point where two or more input segments meet.
type Crossing struct {
	Point
	IDs []int
}

func (c Crossing) String() string {
	return fmt.Sprintf("%v %v", c.Point, c.IDs)
}

// Intersections returns every point where two or more input segments meet, in sweep order, each with the sorted indices of the segments passing through it. Segments that overlap meet at the endpoints of their common part.
func Intersections(segments []Segment, opts ...Option) []Crossing {
	checkSegments(segments)
	m := newMeetings(NewRegistry(segments, false, opts...), segments)
	var crossings []Crossing
	for {
		c, ok := m.Next()
		if !ok {
			return crossings
		} else if 1 < len(c.ids) {
			crossings = append(crossings, Crossing{c.Point, uniqueInts(c.ids)})
		}
	}
}

func checkSegments(segments []Segment) {
	for i, seg := range segments {
		if seg.Degenerate() {
			panic(errors.AssertionFailedf("segment %d has zero length: %v", i, seg))
		}
	}
}

// uniqueInts returns the sorted distinct values.
func uniqueInts(a []int) []int {
	sort.Ints(a)
	k := 0
	for i, v := range a {
		if 0 < i && a[k-1] == v {
			continue
		}
		a[k] = v
		k++
	}
	return a[:k]
}
