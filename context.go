package redact

import (
	"math/rand/v2"
)

type (
	// CompositionContext is handed to a renderer together with the segment
	// being rendered. It answers queries about the part of the tree expanded
	// before the segment, hands out random sources seeded from the segment's
	// position, and exposes the composition options.
	//
	// A context is only valid during the Render call it was passed to.
	CompositionContext struct {
		comp *Composition
		node *Node
		kind Kind // kind of the renderer currently running
	}

	// Source is something that can be searched with Find: a
	// CompositionContext (the tree expanded so far) or a finished
	// Composition.
	Source interface {
		source() (comp *Composition, current *Node, horizon int)
	}
)

func (c *CompositionContext) source() (*Composition, *Node, int) {
	return c.comp, c.node, c.node.Order
}

// Options returns the options of the composition being rendered.
func (c *CompositionContext) Options() Options {
	return c.comp.Options
}

// BeatLength returns the number of ticks per beat. Tempo is expressed relative
// to this value.
func (c *CompositionContext) BeatLength() int {
	return c.comp.Options.TicksPerBeat
}

// Segment returns the segment being rendered.
func (c *CompositionContext) Segment() SegmentRef[Element] {
	ref, _ := refAs[Element](c.node, "")
	return ref
}

// Kind returns the kind of the renderer currently running. For wrapped
// elements this is the kind of the wrapped element being rendered, not the
// outermost one.
func (c *CompositionContext) Kind() Kind {
	return c.kind
}

// Depth returns the depth of the segment being rendered; 0 for the root.
func (c *CompositionContext) Depth() int {
	return c.node.Depth
}

// Seed returns the seed of the segment being rendered.
func (c *CompositionContext) Seed() uint64 {
	return c.node.Seed
}

// Rng returns a new random source seeded from the segment being rendered.
// Every call returns a source that produces the same sequence.
func (c *CompositionContext) Rng() *rand.Rand {
	return NewRand(c.node.Seed)
}

// RngWithSeed returns a random source seeded from the segment combined with
// the given values. Useful when several independent sequences are needed.
func (c *CompositionContext) RngWithSeed(values ...any) *rand.Rand {
	return NewRand(MixSeed(c.node.Seed, values...))
}

// Find starts an untyped query for segments of the given kind.
func (c *CompositionContext) Find(kind Kind) *Query[Element] {
	return FindKind(c, kind)
}
