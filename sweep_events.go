package arrangement

import (
	"fmt"
	"io"
	"strings"
)

// Event is a handle to one endpoint of a (sub)segment. Handles are allocated in pairs, even handles are left events and odd handles are right events.
type Event int

// LeftEvent returns the left event of input segment i.
func LeftEvent(i int) Event {
	return Event(2 * i)
}

// RightEvent returns the right event of input segment i.
func RightEvent(i int) Event {
	return Event(2*i + 1)
}

// IsLeft returns true if the event is the lesser endpoint of its segment.
func (e Event) IsLeft() bool {
	return e&1 == 0
}

func (e Event) String() string {
	if e.IsLeft() {
		return fmt.Sprintf("L%d", int(e)/2)
	}
	return fmt.Sprintf("R%d", int(e)/2)
}

// events holds the append-only tables shared by the queue, the sweep status, and the registry.
type events struct {
	endpoints  []Point // event -> position
	opposites  []Event // event -> other endpoint of the same fragment
	segmentIDs []int   // left event / 2 -> input segment index
}

func (t *events) start(e Event) Point {
	return t.endpoints[e]
}

func (t *events) end(e Event) Point {
	return t.endpoints[t.opposites[e]]
}

func (t *events) segmentID(e Event) int {
	if !e.IsLeft() {
		e = t.opposites[e]
	}
	return t.segmentIDs[e/2]
}

// lessH is the order in which events are processed.
func (t *events) lessH(a, b Event) bool {
	if cmp := t.start(a).Compare(t.start(b)); cmp != 0 {
		return cmp < 0 // sort left to right, then bottom to top
	} else if a.IsLeft() != b.IsLeft() {
		return b.IsLeft() // handle right-endpoints before left-endpoints
	} else if cmp := t.end(a).Compare(t.end(b)); cmp != 0 {
		return cmp < 0
	} else if ida, idb := t.segmentID(a), t.segmentID(b); ida != idb {
		return ida < idb
	}
	return a < b
}

// eventsQueue is a heap priority queue of sweep events.
type eventsQueue struct {
	*events
	heap []Event
}

func (q *eventsQueue) Len() int {
	return len(q.heap)
}

func (q *eventsQueue) less(i, j int) bool {
	return q.lessH(q.heap[i], q.heap[j])
}

func (q *eventsQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
}

func (q *eventsQueue) Init() {
	n := len(q.heap)
	for i := n/2 - 1; 0 <= i; i-- {
		q.down(i, n)
	}
}

func (q *eventsQueue) Push(e Event) {
	q.heap = append(q.heap, e)
	q.up(len(q.heap) - 1)
}

// Pop removes and returns the first event to be processed.
func (q *eventsQueue) Pop() Event {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)

	e := q.heap[n]
	q.heap = q.heap[:n]
	return e
}

// from container/heap
func (q *eventsQueue) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !q.less(j, i) {
			break
		}
		q.swap(i, j)
		j = i
	}
}

func (q *eventsQueue) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if n <= j1 || j1 < 0 { // j1 < 0 after int overflow
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && q.less(j2, j1) {
			j = j2 // = 2*i + 2  // right child
		}
		if !q.less(j, i) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

func (q *eventsQueue) Print(w io.Writer) {
	q2 := &eventsQueue{q.events, make([]Event, len(q.heap))}
	copy(q2.heap, q.heap)
	for k := 0; 0 < q2.Len(); k++ {
		e := q2.Pop()
		fmt.Fprintln(w, k, e, q.start(e), q.end(e))
	}
}

func (q *eventsQueue) String() string {
	sb := strings.Builder{}
	q.Print(&sb)
	return strings.TrimSuffix(sb.String(), "\n")
}
