package arrangement

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/tdewolff/test"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEvent(t *testing.T) {
	test.T(t, LeftEvent(3), Event(6))
	test.T(t, RightEvent(3), Event(7))
	test.That(t, LeftEvent(3).IsLeft())
	test.That(t, !RightEvent(3).IsLeft())
	test.T(t, LeftEvent(3).String(), "L3")
	test.T(t, RightEvent(3).String(), "R3")
}

func TestEventsQueue(t *testing.T) {
	var tts = []struct {
		segments []Segment
		order    string
	}{
		{[]Segment{Seg(0, 0, 2, 2), Seg(0, 0, 2, 0), Seg(1, 1, 0, 1), Seg(2, 2, 3, 0)}, "L1 L0 L2 R2 R1 R0 L3 R3"},
		{[]Segment{Seg(0, 0, 1, 0), Seg(0, 0, 1, 0), Seg(1, 0, 0, 0)}, "L0 L1 L2 R0 R1 R2"},
		{[]Segment{Seg(0, 2, 0, 0), Seg(0, 1, 1, 1)}, "L0 L1 R0 R1"},
		{[]Segment{Seg(-1, 0, 0, 0), Seg(0, 0, 1, 0), Seg(0, 0, 1, 1)}, "L0 R0 L1 L2 R1 R2"},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			r := NewRegistry(tt.segments, false)
			var order []string
			for 0 < r.queue.Len() {
				order = append(order, r.queue.Pop().String())
			}
			test.T(t, strings.Join(order, " "), tt.order)
		})
	}
}

func TestEventsQueuePush(t *testing.T) {
	r := NewRegistry([]Segment{Seg(0, 0, 4, 0), Seg(1, 1, 3, -1)}, false)
	right, left := r.divide(LeftEvent(0), Pt(2, 0))
	test.T(t, right, Event(5))
	test.T(t, left, Event(4))
	test.T(t, r.Len(), 6)
	test.T(t, r.Opposite(LeftEvent(0)), right)
	test.T(t, r.Opposite(left), RightEvent(0))
	test.T(t, r.Opposite(RightEvent(0)), left)
	test.T(t, r.SegmentID(left), 0)
	test.T(t, r.SegmentID(right), 0)
	test.T(t, r.End(LeftEvent(0)).String(), "(2,0)")
	test.T(t, r.Start(RightEvent(0)).String(), "(4,0)")
	test.T(t, r.End(RightEvent(0)).String(), "(2,0)")

	var order []string
	for 0 < r.queue.Len() {
		order = append(order, r.queue.Pop().String())
	}
	test.T(t, strings.Join(order, " "), "L0 L1 R2 L2 R1 R0")
}

func TestDivideOutside(t *testing.T) {
	r := NewRegistry([]Segment{Seg(0, 0, 4, 0)}, false)
	defer func() {
		test.That(t, recover() != nil, "expected panic")
	}()
	r.divide(LeftEvent(0), Pt(4, 0))
}

func TestSweepStatus(t *testing.T) {
	segments := []Segment{
		Seg(0, 3, 4, 3),
		Seg(0, 0, 4, 4),
		Seg(0, 1, 4, 0),
		Seg(0, 0, 4, -4),
		Seg(0, 0, 0, 5),
		Seg(4, 4, 0, 0),
	}
	r := NewRegistry(segments, false)
	s := r.status
	for _, i := range []int{4, 0, 2, 1, 3} {
		s.Insert(LeftEvent(i))
	}
	test.T(t, sweepOrder(s), "L3 L1 L2 L0 L4")

	n := s.Find(LeftEvent(5))
	test.That(t, n != nil)
	test.T(t, n.Event, LeftEvent(1))
	test.That(t, s.Find(LeftEvent(2)) == s.node(LeftEvent(2)))

	s.Remove(s.node(LeftEvent(2)))
	test.T(t, sweepOrder(s), "L3 L1 L0 L4")
	test.That(t, s.node(LeftEvent(2)) == nil)
	test.That(t, s.Find(LeftEvent(2)) == nil)

	s.Remove(s.node(LeftEvent(3)))
	s.Remove(s.node(LeftEvent(4)))
	test.T(t, sweepOrder(s), "L1 L0")
	test.T(t, s.node(LeftEvent(0)).Prev().Event, LeftEvent(1))
	test.That(t, s.node(LeftEvent(0)).Next() == nil)
}

func TestSweepStatusBalance(t *testing.T) {
	const n = 200
	segments := make([]Segment, n)
	for i := range segments {
		segments[i] = Seg(0, int64(i), 10, int64(i))
	}
	r := NewRegistry(segments, false)
	s := r.status

	rng := rand.New(rand.NewPCG(1, 2))
	for _, i := range rng.Perm(n) {
		m := s.Insert(LeftEvent(i))
		test.T(t, m.Event, LeftEvent(i))
		test.That(t, s.node(LeftEvent(i)) == m)
	}
	test.That(t, s.root.height <= 11, "tree height", s.root.height)

	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i != 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(LeftEvent(i).String())
	}
	test.T(t, sweepOrder(s), sb.String())

	sb.Reset()
	for _, i := range rng.Perm(n) {
		if i%2 == 0 {
			s.Remove(s.node(LeftEvent(i)))
		}
	}
	for i := 1; i < n; i += 2 {
		if i != 1 {
			sb.WriteString(" ")
		}
		sb.WriteString(LeftEvent(i).String())
	}
	test.T(t, sweepOrder(s), sb.String())
	test.That(t, s.root.height <= 10, "tree height", s.root.height)
}

func TestCompareV(t *testing.T) {
	var tts = []struct {
		a, b Segment
		cmp  int
	}{
		{Seg(0, 0, 2, 0), Seg(0, 1, 2, 1), -1},
		{Seg(0, 0, 2, 0), Seg(1, 1, 2, 1), -1},
		{Seg(0, 0, 2, 0), Seg(1, -1, 2, -1), 1},
		{Seg(0, 0, 2, 2), Seg(0, 0, 2, 1), 1},
		{Seg(0, 0, 2, 0), Seg(0, 0, 0, 2), -1},   // vertical above
		{Seg(0, 0, 2, 0), Seg(1, 0, 3, 0), -1},   // collinear by start
		{Seg(0, 0, 2, 0), Seg(0, 0, 3, 0), -1},   // collinear by end
		{Seg(0, 0, 2, 0), Seg(0, 0, 2, 0), 0},    // identical
		{Seg(0, 0, 4, 4), Seg(2, 2, 4, 0), 1},    // starts on the other
		{Seg(0, 0, 4, 4), Seg(2, 2, 4, 4), -1},   // collinear continuation
		{Seg(0, 0, 4, 4), Seg(1, 3, 3, 1), -1},   // crosses later
		{Seg(-2, 1, 2, -1), Seg(0, -1, 0, 1), 1}, // vertical through
		{Seg(-2, 1, 2, -1), Seg(0, 0, 0, 1), -1}, // vertical starting on it
		{Seg(-2, 0, 2, 0), Seg(0, -1, 0, 0), 1},  // vertical ending on it
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			r := NewRegistry([]Segment{tt.a, tt.b}, false)
			test.T(t, r.compareV(LeftEvent(0), LeftEvent(1)), tt.cmp)
			test.T(t, r.compareV(LeftEvent(1), LeftEvent(0)), -tt.cmp)
		})
	}
}

func TestRegistry(t *testing.T) {
	var tts = []struct {
		segments []Segment
		events   string
	}{
		{[]Segment{Seg(0, 0, 2, 2), Seg(0, 2, 2, 0)}, "L0 L1 R2 R3 L3 L2 R1 R0"},
		{[]Segment{Seg(0, 0, 1, 0), Seg(1, 0, 2, 0)}, "L0 R0 L1 R1"},
		{[]Segment{Seg(0, 0, 3, 0), Seg(1, 0, 4, 0)}, "L0 L1 R2 L2 R0 R3 L3 R1"},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			r := NewRegistry(tt.segments, false)
			var events []string
			for {
				e, ok := r.Next()
				if !ok {
					break
				}
				events = append(events, e.String())
			}
			test.T(t, strings.Join(events, " "), tt.events)
		})
	}
}

func TestSweepStatusInsertEqual(t *testing.T) {
	r := NewRegistry([]Segment{Seg(0, 0, 2, 2), Seg(0, 0, 2, 2)}, false)
	r.status.Insert(LeftEvent(0))
	defer func() {
		test.That(t, recover() != nil, "expected panic")
	}()
	r.status.Insert(LeftEvent(1))
}

func TestRegistryNeighbours(t *testing.T) {
	var tts = []struct {
		segments  []Segment
		relations string
	}{
		// insertion rotates the tree
		{[]Segment{Seg(2, 2, 1, 2), Seg(1, 0, 1, 3), Seg(3, 3, 0, 3)}, "0 1 touch, 1 2 touch"},
		// removal of the middle segment makes its neighbours adjacent
		{[]Segment{Seg(1, 1, 2, 1), Seg(1, 3, 4, 0), Seg(3, 3, 2, 0)}, "1 2 cross"},
		{[]Segment{Seg(0, 0, 4, 4), Seg(1, 2, 2, 2), Seg(0, 4, 4, 0)}, "0 1 touch, 0 2 cross, 1 2 touch"},
	}
	for i, tt := range tts {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			test.T(t, relationsString(Relations(tt.segments)), tt.relations)

			fragments := Split(tt.segments)
			for j, f := range fragments {
				for _, g := range fragments[j+1:] {
					rel := Relate(f.Segment, g.Segment)
					test.That(t, rel == Disjoint || rel == Touch, "fragments", f, "and", g, "are", rel)
				}
			}
		})
	}
}

func TestRegistryUnique(t *testing.T) {
	segments := []Segment{Seg(0, 0, 2, 0), Seg(0, 0, 2, 0), Seg(2, 0, 0, 0), Seg(1, -1, 1, 1)}
	count := func(unique bool) (int, int) {
		r := NewRegistry(segments, unique)
		lefts, rights := 0, 0
		for {
			e, ok := r.Next()
			if !ok {
				return lefts, rights
			} else if e.IsLeft() {
				lefts++
			} else {
				rights++
			}
		}
	}

	lefts, rights := count(false)
	test.T(t, lefts, 6)
	test.T(t, rights, 6)
	lefts, rights = count(true)
	test.T(t, lefts, 4)
	test.T(t, rights, 4)
}

func TestRegistryCollinear(t *testing.T) {
	const n = 40
	rng := rand.New(rand.NewPCG(3, 4))
	segments := make([]Segment, n)
	for i, j := range rng.Perm(n) {
		segments[i] = Seg(int64(j), 0, int64(j)+5, 0)
	}
	segments = append(segments, Seg(0, 1, 10, 1), Seg(2, -3, 2, 3))

	r := NewRegistry(segments, false)
	for {
		if _, ok := r.Next(); !ok {
			break
		}
	}
	for i := 0; i < n; i++ {
		test.That(t, r.Collinear(0, i), "segment", i)
		test.That(t, r.parents[r.parents[i]] == r.parents[i], "segment", i, "is more than one link away")
	}
	test.That(t, !r.Collinear(0, n))
	test.That(t, !r.Collinear(0, n+1))
	test.That(t, !r.Collinear(n, n+1))

	members := 0
	r.Members(5, func(int) { members++ })
	test.T(t, members, n)
}

func TestRegistryLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewRegistry([]Segment{Seg(0, 0, 2, 2), Seg(0, 2, 2, 0), Seg(0, 0, 2, 2)}, false, WithLogger(zap.New(core)))
	for {
		if _, ok := r.Next(); !ok {
			break
		}
	}
	test.T(t, logs.FilterMessage("divide").Len(), 2)
	test.T(t, logs.FilterMessage("duplicate fragment").Len(), 1)
	test.T(t, logs.FilterMessage("merge collinear").Len(), 1)
}

func sweepOrder(s *sweepStatus) string {
	var order []string
	for n := s.First(); n != nil; n = n.Next() {
		order = append(order, n.Event.String())
	}
	return strings.Join(order, " ")
}
