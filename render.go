package redact

import (
	"fmt"
	"maps"
	"slices"
)

type (
	// Renderer expands segments of one element type into child segments. It
	// must not keep the SegmentRef or the context after returning. An error
	// aborts the whole composition.
	Renderer[T Element] interface {
		Render(segment SegmentRef[T], ctx *CompositionContext) ([]Segment, error)
	}

	// RendererFunc adapts a plain function to a Renderer.
	RendererFunc[T Element] func(segment SegmentRef[T], ctx *CompositionContext) ([]Segment, error)

	// RendererGroup renders one element type with several renderers, in
	// order, concatenating their children. The first error stops the group.
	RendererGroup[T Element] []Renderer[T]

	// Registration binds a renderer to the kind of its element type. Create
	// one with Handle.
	Registration struct {
		kind   Kind
		render renderFunc
	}

	// RenderEngine maps kinds to renderers. An engine is immutable once
	// assembled by NewRenderEngine or Union, apart from Add, and can be shared
	// by concurrent Compose calls as long as Add is not called meanwhile.
	RenderEngine struct {
		renderers map[Kind]renderFunc
	}

	renderFunc func(n *Node, ctx *CompositionContext) ([]Segment, error)
)

func (f RendererFunc[T]) Render(segment SegmentRef[T], ctx *CompositionContext) ([]Segment, error) {
	return f(segment, ctx)
}

func (g RendererGroup[T]) Render(segment SegmentRef[T], ctx *CompositionContext) ([]Segment, error) {
	var ret []Segment
	for _, r := range g {
		children, err := r.Render(segment, ctx)
		if err != nil {
			return nil, err
		}
		ret = append(ret, children...)
	}
	return ret, nil
}

// Handle creates a Registration of renderer for the kind of T.
func Handle[T Element](renderer Renderer[T]) Registration {
	kind := KindOf[T]()
	return Registration{
		kind: kind,
		render: func(n *Node, ctx *CompositionContext) ([]Segment, error) {
			ref, ok := refAs[T](n, kind)
			if !ok {
				return nil, fmt.Errorf("segment %d: element %T is not a %s", n.ID, n.Segment.Element, kind)
			}
			return renderer.Render(ref, ctx)
		},
	}
}

// HandleFunc is Handle for a plain function.
func HandleFunc[T Element](f func(segment SegmentRef[T], ctx *CompositionContext) ([]Segment, error)) Registration {
	return Handle[T](RendererFunc[T](f))
}

// Kind returns the kind the registration renders.
func (r Registration) Kind() Kind {
	return r.kind
}

// NewRenderEngine assembles an engine from registrations. Two registrations
// for the same kind make the assembly fail with a DuplicateRendererError.
func NewRenderEngine(registrations ...Registration) (*RenderEngine, error) {
	e := &RenderEngine{renderers: make(map[Kind]renderFunc, len(registrations))}
	for _, r := range registrations {
		if err := e.Add(r); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// MustRenderEngine is like NewRenderEngine but panics on error. It is meant
// for package level engines whose registrations are fixed at compile time.
func MustRenderEngine(registrations ...Registration) *RenderEngine {
	e, err := NewRenderEngine(registrations...)
	if err != nil {
		panic(err)
	}
	return e
}

// Add registers one more renderer.
func (e *RenderEngine) Add(r Registration) error {
	if r.render == nil {
		return fmt.Errorf("cannot add an empty registration for kind %q", r.kind)
	}
	if e.renderers == nil {
		e.renderers = map[Kind]renderFunc{}
	}
	if _, ok := e.renderers[r.kind]; ok {
		return &DuplicateRendererError{Kind: r.kind}
	}
	e.renderers[r.kind] = r.render
	return nil
}

// Union returns a new engine with the renderers of all the given engines. The
// inputs are not modified. A kind present in more than one input is an error.
func Union(engines ...*RenderEngine) (*RenderEngine, error) {
	ret := &RenderEngine{renderers: map[Kind]renderFunc{}}
	for _, e := range engines {
		if e == nil {
			continue
		}
		for _, k := range e.Kinds() {
			if err := ret.Add(Registration{kind: k, render: e.renderers[k]}); err != nil {
				return nil, err
			}
		}
	}
	return ret, nil
}

// Kinds returns the sorted kinds that have a renderer.
func (e *RenderEngine) Kinds() []Kind {
	if e == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(e.renderers))
}

// CanRender reports if any element in the wrap chain of element has a
// renderer.
func (e *RenderEngine) CanRender(element Element) bool {
	if e == nil {
		return false
	}
	for _, c := range Chain(element) {
		if _, ok := e.renderers[c.Kind()]; ok {
			return true
		}
	}
	return false
}

// render runs every renderer applicable to the node's wrap chain, outermost
// first. The boolean is false when the node is a leaf.
func (e *RenderEngine) render(n *Node, ctx *CompositionContext) ([]Segment, bool, error) {
	var (
		ret      []Segment
		rendered bool
	)
	for _, c := range Chain(n.Segment.Element) {
		f, ok := e.renderers[c.Kind()]
		if !ok {
			continue
		}
		rendered = true
		ctx.kind = c.Kind()
		children, err := f(n, ctx)
		if err != nil {
			return nil, true, err
		}
		ret = append(ret, children...)
	}
	return ret, rendered, nil
}
