package redact

import (
	"iter"
)

type (
	// Node is one segment of a Composition together with its position in the
	// tree. Nodes belong to their Composition and must not be modified.
	Node struct {
		ID       SegmentID
		Parent   SegmentID // NoSegment for the root
		Children []SegmentID
		Depth    int
		// Order is the position of the node in the pre-order depth-first
		// traversal of the tree, which is also the order of expansion.
		Order int
		// Seed is the seed of the random sources handed to the node's
		// renderers.
		Seed uint64
		// Rendered is true when at least one renderer ran for the node, even
		// if it returned no children.
		Rendered bool
		Segment  Segment
	}

	// Composition is the result of Compose: a tree of nodes plus an index of
	// the nodes by kind, both in pre-order depth-first order.
	Composition struct {
		Options Options
		Seed    uint64
		nodes   []*Node          // by ID
		order   []*Node          // pre-order
		index   map[Kind][]*Node // pre-order, a node appears under every kind of its wrap chain
	}
)

func newComposition(options Options, seed uint64) *Composition {
	return &Composition{Options: options, Seed: seed, index: map[Kind][]*Node{}}
}

// insert adds a segment to the tree. The node is not visible to queries until
// visit is called for it.
func (c *Composition) insert(s Segment, parent SegmentID, seed uint64) *Node {
	n := &Node{
		ID:      SegmentID(len(c.nodes)),
		Parent:  parent,
		Order:   -1,
		Seed:    seed,
		Segment: s,
	}
	if parent != NoSegment {
		p := c.nodes[parent]
		p.Children = append(p.Children, n.ID)
		n.Depth = p.Depth + 1
	}
	c.nodes = append(c.nodes, n)
	return n
}

// visit appends the node to the pre-order sequence and the kind index.
func (c *Composition) visit(n *Node) {
	n.Order = len(c.order)
	c.order = append(c.order, n)
	var seen []Kind
	for _, e := range Chain(n.Segment.Element) {
		k := e.Kind()
		dup := false
		for _, s := range seen {
			if s == k {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen = append(seen, k)
		c.index[k] = append(c.index[k], n)
	}
}

// Len returns the number of nodes.
func (c *Composition) Len() int {
	return len(c.nodes)
}

// Root returns the root node, or nil for an empty composition.
func (c *Composition) Root() *Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[0]
}

// Node returns the node with the given id.
func (c *Composition) Node(id SegmentID) (*Node, bool) {
	if id < 0 || int(id) >= len(c.nodes) {
		return nil, false
	}
	return c.nodes[id], true
}

// Parent returns the parent of the node, or false for the root.
func (c *Composition) Parent(n *Node) (*Node, bool) {
	return c.Node(n.Parent)
}

// Children returns the children of the node in the order their renderer
// returned them.
func (c *Composition) Children(n *Node) []*Node {
	ret := make([]*Node, len(n.Children))
	for i, id := range n.Children {
		ret[i] = c.nodes[id]
	}
	return ret
}

// All iterates over every node in pre-order depth-first order.
func (c *Composition) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range c.order {
			if !yield(n) {
				return
			}
		}
	}
}

// Subtree iterates over the node and its descendants in pre-order.
func (c *Composition) Subtree(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stack := []*Node{n}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			for i := len(cur.Children) - 1; i >= 0; i-- {
				stack = append(stack, c.nodes[cur.Children[i]])
			}
		}
	}
}

// Ancestors iterates from the parent of n up to the root.
func (c *Composition) Ancestors(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for p, ok := c.Parent(n); ok; p, ok = c.Parent(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// Enclosing returns the nearest of n and its ancestors whose wrap chain
// includes kind.
func (c *Composition) Enclosing(n *Node, kind Kind) (*Node, bool) {
	if HasKind(n.Segment.Element, kind) {
		return n, true
	}
	for a := range c.Ancestors(n) {
		if HasKind(a.Segment.Element, kind) {
			return a, true
		}
	}
	return nil, false
}

// OfKind returns the nodes whose wrap chain includes kind, in pre-order. The
// returned slice must not be modified.
func (c *Composition) OfKind(kind Kind) []*Node {
	return c.index[kind]
}

// Leaves iterates in pre-order over the nodes without children.
func (c *Composition) Leaves() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, n := range c.order {
			if len(n.Children) == 0 && !yield(n) {
				return
			}
		}
	}
}

// Timing returns the timing of the root, or a zero Timing when empty.
func (c *Composition) Timing() Timing {
	if r := c.Root(); r != nil {
		return r.Segment.Timing
	}
	return Timing{}
}

func (c *Composition) source() (*Composition, *Node, int) {
	return c, nil, len(c.order)
}
