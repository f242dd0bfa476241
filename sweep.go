package arrangement

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger that receives debug traces of splits and merges.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry runs the Bentley-Ottmann sweep over a set of segments. It owns the event tables, the queue of pending events, the sweep status of active segments, and the groups of collinear overlapping segments. Segments are split at every crossing and overlap while the sweep advances, so that the left events it returns are fragments that do not cross or partially overlap any other.
//
// A Registry is used by a single goroutine and is discarded after the sweep.
type Registry struct {
	events
	queue  *eventsQueue
	status *sweepStatus

	parents []int // segment ID -> representative of its collinear group
	sizes   []int // representative -> group size
	ring    []int // segment ID -> next segment ID in its collinear group

	unique bool
	logger *zap.Logger
}

// NewRegistry returns a registry for the given segments, which must have non-zero length. Input segment i is represented by LeftEvent(i) and RightEvent(i). If unique is set, fragments that coincide with an active fragment are not returned.
func NewRegistry(segments []Segment, unique bool, opts ...Option) *Registry {
	r := &Registry{
		events: events{
			endpoints:  make([]Point, 0, 2*len(segments)),
			opposites:  make([]Event, 0, 2*len(segments)),
			segmentIDs: make([]int, 0, len(segments)),
		},
		parents: make([]int, len(segments)),
		sizes:   make([]int, len(segments)),
		ring:    make([]int, len(segments)),
		unique:  unique,
		logger:  zap.NewNop(),
	}
	for i, seg := range segments {
		seg = seg.Sorted()
		r.endpoints = append(r.endpoints, seg.Start, seg.End)
		r.opposites = append(r.opposites, RightEvent(i), LeftEvent(i))
		r.segmentIDs = append(r.segmentIDs, i)
		r.parents[i] = i
		r.sizes[i] = 1
		r.ring[i] = i
	}
	for _, opt := range opts {
		opt(r)
	}

	r.queue = &eventsQueue{events: &r.events, heap: make([]Event, len(r.endpoints))}
	for i := range r.queue.heap {
		r.queue.heap[i] = Event(i)
	}
	r.queue.Init() // sort from left to right
	r.status = newSweepStatus(&r.events)
	return r
}

// Len returns the number of event handles allocated so far.
func (r *Registry) Len() int {
	return len(r.endpoints)
}

// Start returns the position of the event.
func (r *Registry) Start(e Event) Point {
	return r.start(e)
}

// End returns the position of the opposite event.
func (r *Registry) End(e Event) Point {
	return r.end(e)
}

// Opposite returns the other endpoint event of the fragment.
func (r *Registry) Opposite(e Event) Event {
	return r.opposites[e]
}

// SegmentID returns the index of the input segment the event belongs to.
func (r *Registry) SegmentID(e Event) int {
	return r.segmentID(e)
}

// Collinear returns true if input segments i and j were found to lie on the same line and to overlap, directly or through other segments.
func (r *Registry) Collinear(i, j int) bool {
	return r.find(i) == r.find(j)
}

// Members calls f for every input segment in the collinear group of segment i, starting with i.
func (r *Registry) Members(i int, f func(int)) {
	j := i
	for {
		f(j)
		if j = r.ring[j]; j == i {
			return
		}
	}
}

// Next processes events until one is to be reported. It returns false when all events have been processed.
func (r *Registry) Next() (Event, bool) {
	for 0 < r.queue.Len() {
		if e, ok := r.pop(); ok {
			return e, true
		}
	}
	return 0, false
}

func (r *Registry) pop() (Event, bool) {
	// pop the next left-most endpoint from the queue
	e := r.queue.Pop()
	if e.IsLeft() {
		if equal := r.status.Find(e); equal != nil {
			// fragment coincides with an active fragment
			r.logger.Debug("duplicate fragment",
				zap.Stringer("event", e),
				zap.Stringer("equal", equal.Event),
				zap.Stringer("start", r.start(e)),
				zap.Stringer("end", r.end(e)))
			r.merge(r.segmentID(equal.Event), r.segmentID(e))
			return e, !r.unique
		}

		// add segment to sweep status
		n := r.status.Insert(e)
		if below := n.Prev(); below != nil {
			r.detectIntersection(below.Event, e)
		}
		if above := n.Next(); above != nil {
			r.detectIntersection(e, above.Event)
		}
		return e, true
	}

	// remove segment from sweep status
	left := r.opposites[e]
	n := r.status.node(left)
	if n == nil {
		// left event was a duplicate, remove the fragment it coincided with
		if n = r.status.Find(left); n == nil {
			return e, !r.unique
		}
		r.merge(r.segmentID(n.Event), r.segmentID(left))
	}
	below, above := n.Prev(), n.Next()
	if below != nil && above != nil {
		// Remove swaps events between nodes, read the neighbours first
		belowEvent, aboveEvent := below.Event, above.Event
		r.status.Remove(n)
		r.detectIntersection(belowEvent, aboveEvent)
	} else {
		r.status.Remove(n)
	}
	return e, true
}

// detectIntersection splits the fragments of two adjacent active left events where they cross, touch in the interior of one of them, or overlap.
func (r *Registry) detectIntersection(below, event Event) {
	a0, a1 := r.start(below), r.end(below)
	b0, b1 := r.start(event), r.end(event)
	ob0, ob1 := Orient(a0, a1, b0), Orient(a0, a1, b1)
	if ob0 == Collinear && ob1 == Collinear {
		r.detectOverlap(below, event)
		return
	}

	oa0, oa1 := Orient(b0, b1, a0), Orient(b0, b1, a1)
	if ob0 != Collinear && ob1 != Collinear && ob0 != ob1 && oa0 != Collinear && oa1 != Collinear && oa0 != oa1 {
		// proper crossing
		p := intersectionPoint(a0, a1, b0, b1)
		r.divide(below, p)
		r.divide(event, p)
		return
	}

	// an endpoint of one fragment touches the interior of the other, or they share an endpoint
	if ob0 == Collinear && a0.Less(b0) && b0.Less(a1) {
		r.divide(below, b0)
	} else if ob1 == Collinear && a0.Less(b1) && b1.Less(a1) {
		r.divide(below, b1)
	} else if oa0 == Collinear && b0.Less(a0) && a0.Less(b1) {
		r.divide(event, a0)
	} else if oa1 == Collinear && b0.Less(a1) && a1.Less(b1) {
		r.divide(event, a1)
	}
}

// detectOverlap splits two collinear fragments so that their common part becomes a fragment of both.
func (r *Registry) detectOverlap(a, b Event) {
	lo := maxPoint(r.start(a), r.start(b))
	hi := minPoint(r.end(a), r.end(b))
	if !lo.Less(hi) {
		return // disjoint or touching at one point
	}

	// split at hi first so that we only divide active events
	for _, e := range [2]Event{a, b} {
		if hi.Less(r.end(e)) {
			r.divide(e, hi)
		}
		if r.start(e).Less(lo) {
			r.divide(e, lo)
		}
	}
	r.merge(r.segmentID(a), r.segmentID(b))
}

// divide splits the fragment of left event e at p, which must lie strictly between its endpoints. The fragment of e ends at p afterwards, and a new right event and left event at p are queued. It returns the new right and left events.
func (r *Registry) divide(e Event, p Point) (Event, Event) {
	if !e.IsLeft() || !r.start(e).Less(p) || !p.Less(r.end(e)) {
		panic(errors.AssertionFailedf("divide %v at %v outside of %v−%v", e, p, r.start(e), r.end(e)))
	}
	r.logger.Debug("divide",
		zap.Stringer("event", e),
		zap.Int("segment", r.segmentID(e)),
		zap.Stringer("point", p))

	end := r.opposites[e]
	left := Event(len(r.endpoints))
	right := left + 1
	r.endpoints = append(r.endpoints, p, p)
	r.opposites = append(r.opposites, end, e)
	r.segmentIDs = append(r.segmentIDs, r.segmentIDs[e/2])
	r.opposites[end] = left
	r.opposites[e] = right

	// end's opposite changed, but only its tie-break amongst right events at the same position
	r.queue.Push(right)
	r.queue.Push(left)
	return right, left
}

// find returns the representative of the collinear group of segment i. Groups are flattened on every merge, so a representative is never more than two links away.
func (r *Registry) find(i int) int {
	for hops := 0; ; hops++ {
		parent := r.parents[i]
		if parent == i {
			return i
		} else if 2 <= hops {
			panic(errors.AssertionFailedf("collinear group of segment %d exceeds two links", i))
		}
		i = parent
	}
}

// merge joins the collinear groups of segments i and j. The members of the smaller group are pointed at the representative of the larger.
func (r *Registry) merge(i, j int) {
	ri, rj := r.find(i), r.find(j)
	if ri == rj {
		return
	}
	if r.sizes[ri] < r.sizes[rj] || r.sizes[ri] == r.sizes[rj] && rj < ri {
		ri, rj = rj, ri
	}
	r.logger.Debug("merge collinear",
		zap.Int("segment", i),
		zap.Int("other", j),
		zap.Int("group", ri))

	r.Members(rj, func(k int) {
		r.parents[k] = ri
	})
	r.sizes[ri] += r.sizes[rj]
	r.ring[ri], r.ring[rj] = r.ring[rj], r.ring[ri]
}
