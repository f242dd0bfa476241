package arrangement

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// compareV compares two active left events by their vertical position on the sweep line. Both segments must straddle the sweep line, so that the start of the segment that starts last lies within the extent of the other. Collinear segments are ordered by their endpoints, and it returns zero only for identical segments.
func (t *events) compareV(a, b Event) int {
	if a == b {
		return 0
	}
	aStart, bStart := t.start(a), t.start(b)
	if aStart.Less(bStart) {
		return -t.compareV(b, a)
	}

	// a starts at or after b, compare a's start and then its direction against the line of b
	bEnd := t.end(b)
	if o := Orient(bStart, bEnd, aStart); o != Collinear {
		return int(o)
	} else if o := Orient(bStart, bEnd, t.end(a)); o != Collinear {
		return int(o)
	}

	// collinear
	if cmp := aStart.Compare(bStart); cmp != 0 {
		return cmp
	}
	return t.end(a).Compare(bEnd)
}

type sweepNode struct {
	parent, left, right *sweepNode
	height              int

	Event
}

func (n *sweepNode) Prev() *sweepNode {
	// go left
	if n.left != nil {
		n = n.left
		for n.right != nil {
			n = n.right // find the right-most of current subtree
		}
		return n
	}

	for n.parent != nil && n.parent.left == n {
		n = n.parent // find first parent for which we're right
	}
	return n.parent // can be nil
}

func (n *sweepNode) Next() *sweepNode {
	// go right
	if n.right != nil {
		n = n.right
		for n.left != nil {
			n = n.left // find the left-most of current subtree
		}
		return n
	}

	for n.parent != nil && n.parent.right == n {
		n = n.parent // find first parent for which we're left
	}
	return n.parent // can be nil
}

func (n *sweepNode) balance() int {
	r := 0
	if n.left != nil {
		r -= n.left.height
	}
	if n.right != nil {
		r += n.right.height
	}
	return r
}

func (n *sweepNode) updateHeight() {
	n.height = 0
	if n.left != nil {
		n.height = n.left.height
	}
	if n.right != nil && n.height < n.right.height {
		n.height = n.right.height
	}
	n.height++
}

func (n *sweepNode) swapChild(a, b *sweepNode) {
	if n.right == a {
		n.right = b
	} else {
		n.left = b
	}
	if b != nil {
		b.parent = n
	}
}

func (a *sweepNode) rotateLeft() *sweepNode {
	b := a.right
	if a.parent != nil {
		a.parent.swapChild(a, b)
	} else {
		b.parent = nil
	}
	a.parent = b
	if a.right = b.left; a.right != nil {
		a.right.parent = a
	}
	b.left = a
	return b
}

func (a *sweepNode) rotateRight() *sweepNode {
	b := a.left
	if a.parent != nil {
		a.parent.swapChild(a, b)
	} else {
		b.parent = nil
	}
	a.parent = b
	if a.left = b.right; a.left != nil {
		a.left.parent = a
	}
	b.right = a
	return b
}

func (n *sweepNode) Print(w io.Writer, t *events, indent int) {
	if n.right != nil {
		n.right.Print(w, t, indent+1)
	} else if n.left != nil {
		fmt.Fprintf(w, "%vnil\n", strings.Repeat("  ", indent+1))
	}
	fmt.Fprintf(w, "%v%v %v−%v\n", strings.Repeat("  ", indent), n.Event, t.start(n.Event), t.end(n.Event))
	if n.left != nil {
		n.left.Print(w, t, indent+1)
	} else if n.right != nil {
		fmt.Fprintf(w, "%vnil\n", strings.Repeat("  ", indent+1))
	}
}

// sweepStatus is an AVL tree of the left events whose segments straddle the sweep line, ordered bottom to top.
type sweepStatus struct {
	*events
	root  *sweepNode
	nodes []*sweepNode // left event / 2 -> node, nil if not active
	pool  *sync.Pool
}

func newSweepStatus(t *events) *sweepStatus {
	return &sweepStatus{
		events: t,
		pool:   &sync.Pool{New: func() any { return &sweepNode{} }},
	}
}

func (s *sweepStatus) setNode(e Event, n *sweepNode) {
	i := int(e) / 2
	for len(s.nodes) <= i {
		s.nodes = append(s.nodes, nil)
	}
	s.nodes[i] = n
}

// node returns the node of an active left event, or nil.
func (s *sweepStatus) node(e Event) *sweepNode {
	if i := int(e) / 2; i < len(s.nodes) {
		return s.nodes[i]
	}
	return nil
}

func (s *sweepStatus) newNode(e Event) *sweepNode {
	n := s.pool.Get().(*sweepNode)
	n.parent = nil
	n.left = nil
	n.right = nil
	n.height = 1
	n.Event = e
	s.setNode(e, n)
	return n
}

func (s *sweepStatus) returnNode(n *sweepNode) {
	s.setNode(n.Event, nil)
	s.pool.Put(n)
}

func (s *sweepStatus) rebalance(n *sweepNode) {
	for {
		oheight := n.height
		if balance := n.balance(); balance == 2 {
			// Tree is excessively right-heavy, rotate it to the left.
			if n.right != nil && n.right.balance() < 0 {
				// Right tree is left-heavy, which would cause the next rotation to result in
				// overall left-heaviness. Rotate the right tree to the right to counteract this.
				n.right = n.right.rotateRight()
				n.right.right.updateHeight()
			}
			n = n.rotateLeft()
			n.left.updateHeight()
		} else if balance == -2 {
			// Tree is excessively left-heavy, rotate it to the right
			if n.left != nil && n.left.balance() > 0 {
				// The left tree is right-heavy, which would cause the next rotation to result in
				// overall right-heaviness. Rotate the left tree to the left to compensate.
				n.left = n.left.rotateLeft()
				n.left.left.updateHeight()
			}
			n = n.rotateRight()
			n.right.updateHeight()
		} else if balance < -2 || 2 < balance {
			panic("tree too far out of shape")
		}

		n.updateHeight()
		if n.parent == nil {
			s.root = n
			return
		}
		if oheight == n.height {
			return
		}
		n = n.parent
	}
}

func (s *sweepStatus) String() string {
	if s.root == nil {
		return "nil"
	}

	sb := strings.Builder{}
	s.root.Print(&sb, s.events, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (s *sweepStatus) First() *sweepNode {
	if s.root == nil {
		return nil
	}
	n := s.root
	for n.left != nil {
		n = n.left
	}
	return n
}

// Find returns the node of an active event with the same start and end as e. May return nil.
func (s *sweepStatus) Find(e Event) *sweepNode {
	n := s.root
	for n != nil {
		cmp := s.compareV(e, n.Event)
		if cmp < 0 {
			n = n.left
		} else if 0 < cmp {
			n = n.right
		} else {
			return n
		}
	}
	return nil
}

// Insert adds a left event to the sweep status, no active event may compare equal to it.
func (s *sweepStatus) Insert(e Event) *sweepNode {
	if s.root == nil {
		s.root = s.newNode(e)
		return s.root
	}

	n := s.root
	for {
		cmp := s.compareV(e, n.Event)
		if cmp == 0 {
			panic(errors.AssertionFailedf("insert %v equal to active %v", e, n.Event))
		} else if cmp < 0 {
			if n.left == nil {
				m := s.newNode(e)
				n.left = m
				m.parent = n
				if n.right == nil {
					s.rebalance(n) // rotations may move m
				}
				return m
			}
			n = n.left
		} else {
			if n.right == nil {
				m := s.newNode(e)
				n.right = m
				m.parent = n
				if n.left == nil {
					s.rebalance(n)
				}
				return m
			}
			n = n.right
		}
	}
}

func (s *sweepStatus) Remove(n *sweepNode) {
	var o *sweepNode
	for {
		if n.height == 1 {
			o = n.parent
			if o != nil {
				o.swapChild(n, nil)
				s.rebalance(o)
			} else {
				s.root = nil
			}
			s.returnNode(n)
			return
		} else if n.right != nil {
			o = n.right
			for o.left != nil {
				o = o.left
			}
		} else if n.left != nil {
			o = n.left
			for o.right != nil {
				o = o.right
			}
		} else {
			panic("impossible")
		}
		n.Event, o.Event = o.Event, n.Event
		s.setNode(n.Event, n)
		s.setNode(o.Event, o)
		n = o
	}
}
