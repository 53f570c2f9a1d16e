package redact

import (
	"errors"
	"fmt"
)

type (
	// SegmentID identifies a node in a Composition. The Composer assigns ids
	// in insertion order, starting from 0 for the root; an id is never reused
	// within a Composition.
	SegmentID int

	// Segment is an Element spanning a Timing, with an optional name. Named
	// segments are seeded from their name instead of their position, so
	// siblings with the same name produce identical random draws.
	//
	// Segments are created by renderers (or by the caller for the root) and
	// become immutable once the Composer inserts them into the tree.
	Segment struct {
		Element Element
		Timing  Timing
		name    string
		renamed bool
	}

	// SegmentRef is a read-only, typed view of a segment in the tree. It
	// carries no structural information; siblings and ancestors are reached
	// only through a CompositionContext or a Composition.
	SegmentRef[T Element] struct {
		ID      SegmentID
		Element T
		Timing  Timing
		Name    string
	}
)

// NoSegment is the Parent of the root node.
const NoSegment SegmentID = -1

// ErrAlreadyRenamed is returned when the name of a segment is changed a second
// time.
var ErrAlreadyRenamed = errors.New("segment has already been renamed")

// NewSegment returns an unnamed segment of element spanning timing.
func NewSegment(element Element, timing Timing) Segment {
	return Segment{Element: element, Timing: timing}
}

// NewNamedSegment returns a segment of element spanning timing with the given
// name.
func NewNamedSegment(name string, element Element, timing Timing) Segment {
	return Segment{Element: element, Timing: timing, name: name}
}

// Over is a shorthand for NewSegment(element, NewTiming(start, end)).
func Over(element Element, start, end int) Segment {
	return NewSegment(element, NewTiming(start, end))
}

// Name returns the name of the segment; empty if it has none.
func (s Segment) Name() string {
	return s.name
}

// Rename sets the name of the segment. The name can be changed (or cleared)
// only once after construction.
func (s *Segment) Rename(name string) error {
	if s.renamed {
		return ErrAlreadyRenamed
	}
	s.name = name
	s.renamed = true
	return nil
}

// ClearName removes the name of the segment. It counts as the single rename.
func (s *Segment) ClearName() error {
	return s.Rename("")
}

// Kind returns the kind of the segment's element.
func (s Segment) Kind() Kind {
	if s.Element == nil {
		return ""
	}
	return s.Element.Kind()
}

func (s Segment) String() string {
	if s.name != "" {
		return fmt.Sprintf("%s %q %v", s.Kind(), s.name, s.Timing)
	}
	return fmt.Sprintf("%s %v", s.Kind(), s.Timing)
}

// refAs converts a node into a typed reference, picking the element of the
// given kind from the wrap chain.
func refAs[T Element](n *Node, kind Kind) (SegmentRef[T], bool) {
	var e Element
	if kind == "" {
		e = n.Segment.Element
	} else {
		e = elementOfKind(n.Segment.Element, kind)
	}
	v, ok := e.(T)
	if !ok {
		v, ok = ElementAs[T](n.Segment.Element)
		if !ok {
			return SegmentRef[T]{}, false
		}
	}
	return SegmentRef[T]{ID: n.ID, Element: v, Timing: n.Segment.Timing, Name: n.Segment.name}, true
}

// Untyped drops the type parameter of the reference.
func (r SegmentRef[T]) Untyped() SegmentRef[Element] {
	return SegmentRef[Element]{ID: r.ID, Element: r.Element, Timing: r.Timing, Name: r.Name}
}

// Child returns a new segment with the same element and name as r but with the
// given timing. It is a convenience for renderers that copy their input.
func (r SegmentRef[T]) Child(timing Timing) Segment {
	return Segment{Element: r.Element, Timing: timing, name: r.Name}
}
