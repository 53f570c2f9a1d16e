package redact

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

type (
	// Kind is the stable discriminant of an Element type. It is used to look
	// up renderers, to filter context queries and to tag serialized segments,
	// so it must be unique within the process.
	Kind string

	// Element is any payload that can occupy a node in the composition tree.
	// Kind must return the same value for every value of a type, including
	// its zero value.
	Element interface {
		Kind() Kind
	}

	// Wrapper is implemented by elements that wrap another element, for
	// example a Part wrapping the element that generates its notes. Renderers
	// and queries for the wrapped element's kind also see the wrapper.
	Wrapper interface {
		Element
		Wrapped() Element
	}
)

// elementTypes maps each registered kind to the concrete Go type that the
// serializer instantiates when decoding.
var elementTypes = struct {
	sync.RWMutex
	m map[Kind]reflect.Type
}{m: map[Kind]reflect.Type{}}

// RegisterElement adds the element type T to the process-wide element table so
// that segments carrying it can be decoded from their persisted form. Calling
// it again for the same type is a no-op. Registering a different type under an
// already taken kind is a programming error and panics; call RegisterElement
// from an init function so the conflict surfaces at startup.
func RegisterElement[T Element]() {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil {
		panic("redact: RegisterElement called with an interface type")
	}
	kind := zero.Kind()
	if kind == "" {
		panic(fmt.Sprintf("redact: element type %v has an empty kind", typ))
	}
	elementTypes.Lock()
	defer elementTypes.Unlock()
	if prev, ok := elementTypes.m[kind]; ok {
		if prev == typ {
			return
		}
		panic(fmt.Sprintf("redact: kind %q registered for both %v and %v", kind, prev, typ))
	}
	elementTypes.m[kind] = typ
}

// ElementTypes returns the sorted list of registered kinds.
func ElementTypes() []Kind {
	elementTypes.RLock()
	defer elementTypes.RUnlock()
	ret := make([]Kind, 0, len(elementTypes.m))
	for k := range elementTypes.m {
		ret = append(ret, k)
	}
	slices.Sort(ret)
	return ret
}

// newElement returns a pointer to a fresh zero value of the type registered
// for kind.
func newElement(kind Kind) (reflect.Value, error) {
	elementTypes.RLock()
	typ, ok := elementTypes.m[kind]
	elementTypes.RUnlock()
	if !ok {
		return reflect.Value{}, &UnknownKindError{Kind: kind}
	}
	return reflect.New(typ), nil
}

// KindOf returns the kind of element type T.
func KindOf[T Element]() Kind {
	var zero T
	return zero.Kind()
}

// Chain returns the element followed by every element it transitively wraps.
func Chain(e Element) []Element {
	var ret []Element
	for e != nil {
		ret = append(ret, e)
		w, ok := e.(Wrapper)
		if !ok {
			break
		}
		e = w.Wrapped()
	}
	return ret
}

// ElementAs returns the first element of type T in the wrap chain of e.
func ElementAs[T Element](e Element) (T, bool) {
	for _, c := range Chain(e) {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// HasKind reports if any element in the wrap chain of e has the given kind.
func HasKind(e Element, kind Kind) bool {
	return elementOfKind(e, kind) != nil
}

func elementOfKind(e Element, kind Kind) Element {
	for _, c := range Chain(e) {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}
