package redact

// Query searches a Source for segments of one kind. Build one with Find or
// FindKind, narrow it down with WithTiming, Within, WithinAncestor and
// Matching, and run it with Get, GetAll, Require, RequireAll or
// RequireAtLeast. Results are always in tree (pre-order) order.
//
// When run on a CompositionContext without WithTiming, Get and Require look
// for segments During the segment being rendered, while GetAll, RequireAll and
// RequireAtLeast look for segments Overlapping it. On a Composition there is
// no default timing constraint.
type Query[T Element] struct {
	comp           *Composition
	current        *Node
	horizon        int
	kind           Kind
	relation       *Relation
	ref            Timing
	within         Kind
	withinAncestor Kind
	match          func(T) bool
}

// Find starts a query for segments whose wrap chain contains an element of
// type T.
func Find[T Element](src Source) *Query[T] {
	return newQuery[T](src, KindOf[T]())
}

// FindKind starts an untyped query for segments of the given kind.
func FindKind(src Source, kind Kind) *Query[Element] {
	return newQuery[Element](src, kind)
}

// Find starts an untyped query over the finished composition.
func (c *Composition) Find(kind Kind) *Query[Element] {
	return FindKind(c, kind)
}

func newQuery[T Element](src Source, kind Kind) *Query[T] {
	comp, current, horizon := src.source()
	return &Query[T]{comp: comp, current: current, horizon: horizon, kind: kind}
}

// WithTiming keeps only segments whose timing relates to ref by relation.
func (q *Query[T]) WithTiming(relation Relation, ref Timing) *Query[T] {
	q.relation = &relation
	q.ref = ref
	return q
}

// Within keeps only segments that are, or descend from, a segment of the
// given kind.
func (q *Query[T]) Within(kind Kind) *Query[T] {
	q.within = kind
	return q
}

// WithinAncestor keeps only segments generated under the outermost ancestor
// of the segment being rendered that has the given kind. On a Composition, or
// if there is no such ancestor, the query matches nothing.
func (q *Query[T]) WithinAncestor(kind Kind) *Query[T] {
	q.withinAncestor = kind
	return q
}

// Matching keeps only segments whose element satisfies f.
func (q *Query[T]) Matching(f func(T) bool) *Query[T] {
	q.match = f
	return q
}

// Get returns the first match.
func (q *Query[T]) Get() (SegmentRef[T], bool) {
	res := q.run(During, 1)
	if len(res) == 0 {
		return SegmentRef[T]{}, false
	}
	return res[0], true
}

// GetAll returns every match; possibly none.
func (q *Query[T]) GetAll() []SegmentRef[T] {
	return q.run(Overlapping, -1)
}

// Require returns the first match, or a NotFoundError.
func (q *Query[T]) Require() (SegmentRef[T], error) {
	if r, ok := q.Get(); ok {
		return r, nil
	}
	return SegmentRef[T]{}, q.notFound(During, 1, 0)
}

// RequireAll returns every match, or a NotFoundError if there are none.
func (q *Query[T]) RequireAll() ([]SegmentRef[T], error) {
	return q.RequireAtLeast(1)
}

// RequireAtLeast returns every match, or a NotFoundError if there are fewer
// than n.
func (q *Query[T]) RequireAtLeast(n int) ([]SegmentRef[T], error) {
	res := q.GetAll()
	if len(res) < n {
		return nil, q.notFound(Overlapping, n, len(res))
	}
	return res, nil
}

func (q *Query[T]) notFound(def Relation, wanted, found int) error {
	rel, ref := q.constraint(def)
	return &NotFoundError{Kind: q.kind, Wanted: wanted, Found: found, Relation: rel, Ref: ref}
}

// constraint returns the effective timing constraint, applying the default
// relation when running inside a context.
func (q *Query[T]) constraint(def Relation) (*Relation, Timing) {
	if q.relation != nil {
		return q.relation, q.ref
	}
	if q.current != nil {
		return &def, q.current.Segment.Timing
	}
	return nil, Timing{}
}

// run collects up to limit matches (all if limit < 0).
func (q *Query[T]) run(def Relation, limit int) []SegmentRef[T] {
	if q.comp == nil {
		return nil
	}
	rel, ref := q.constraint(def)
	var scope *Node
	if q.withinAncestor != "" {
		if scope = q.outermostAncestor(q.withinAncestor); scope == nil {
			return nil
		}
	}
	var ret []SegmentRef[T]
	for _, n := range q.comp.index[q.kind] {
		if n.Order < 0 || n.Order >= q.horizon {
			// the index is in expansion order, nothing past the horizon is
			// visible
			break
		}
		if rel != nil && !rel.Holds(n.Segment.Timing, ref) {
			continue
		}
		if q.within != "" && !q.descendsFromKind(n, q.within) {
			continue
		}
		if scope != nil && !q.descendsFrom(n, scope) {
			continue
		}
		r, ok := refAs[T](n, q.kind)
		if !ok {
			continue
		}
		if q.match != nil && !q.match(r.Element) {
			continue
		}
		ret = append(ret, r)
		if limit >= 0 && len(ret) >= limit {
			break
		}
	}
	return ret
}

func (q *Query[T]) outermostAncestor(kind Kind) *Node {
	if q.current == nil {
		return nil
	}
	var ret *Node
	for a := range q.comp.Ancestors(q.current) {
		if HasKind(a.Segment.Element, kind) {
			ret = a
		}
	}
	return ret
}

func (q *Query[T]) descendsFromKind(n *Node, kind Kind) bool {
	for cur, ok := n, true; ok; cur, ok = q.comp.Parent(cur) {
		if HasKind(cur.Segment.Element, kind) {
			return true
		}
	}
	return false
}

func (q *Query[T]) descendsFrom(n, ancestor *Node) bool {
	for cur, ok := n, true; ok; cur, ok = q.comp.Parent(cur) {
		if cur == ancestor {
			return true
		}
	}
	return false
}
