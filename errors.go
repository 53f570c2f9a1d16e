package redact

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRenderer is matched by errors returned when two renderers are
	// registered for the same kind in one RenderEngine.
	ErrDuplicateRenderer = errors.New("duplicate renderer registration")
	// ErrNotFound is matched by errors returned from Require, RequireAll and
	// RequireAtLeast when the query has too few matches.
	ErrNotFound = errors.New("no matching segment found")
	// ErrCompositionAborted is matched by errors returned from Compose when a
	// renderer fails.
	ErrCompositionAborted = errors.New("composition aborted")
	// ErrUnknownKind is matched by errors returned when decoding a segment
	// whose kind was never registered with RegisterElement.
	ErrUnknownKind = errors.New("unknown element kind")
)

type (
	DuplicateRendererError struct {
		Kind Kind
	}

	NotFoundError struct {
		Kind     Kind
		Wanted   int // minimum number of matches requested
		Found    int
		Relation *Relation
		Ref      Timing
	}

	// CompositionAbortedError reports the first renderer failure of a Compose
	// call. Err is the error returned by the renderer, unchanged.
	CompositionAbortedError struct {
		ID   SegmentID
		Kind Kind
		Err  error
	}

	UnknownKindError struct {
		Kind Kind
	}
)

func (e *DuplicateRendererError) Error() string {
	return fmt.Sprintf("%v: kind %q", ErrDuplicateRenderer, e.Kind)
}

func (e *DuplicateRendererError) Unwrap() error { return ErrDuplicateRenderer }

func (e *NotFoundError) Error() string {
	s := fmt.Sprintf("%v: kind %q", ErrNotFound, e.Kind)
	if e.Relation != nil {
		s += fmt.Sprintf(" %v %v", *e.Relation, e.Ref)
	}
	if e.Wanted > 1 {
		s += fmt.Sprintf(" (wanted at least %d, found %d)", e.Wanted, e.Found)
	}
	return s
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func (e *CompositionAbortedError) Error() string {
	return fmt.Sprintf("%v: rendering segment %d (%s) failed: %v", ErrCompositionAborted, e.ID, e.Kind, e.Err)
}

// Unwrap returns both the sentinel and the renderer error, so errors.Is and
// errors.As work for either.
func (e *CompositionAbortedError) Unwrap() []error { return []error{ErrCompositionAborted, e.Err} }

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownKind, e.Kind)
}

func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }
