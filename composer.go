package redact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

type (
	// Options are the composition wide constants handed to every renderer
	// through the context.
	Options struct {
		// TicksPerBeat is the length of one beat in ticks.
		TicksPerBeat int `yaml:"ticksPerBeat" json:"ticksPerBeat"`
	}

	// Composer expands root segments into Compositions using the renderers of
	// its RenderEngine. A Composer holds no per-composition state: Compose can
	// be called concurrently.
	Composer struct {
		engine  *RenderEngine
		options Options
		logger  *slog.Logger
	}

	// ComposerOption configures a Composer.
	ComposerOption func(*Composer)

	// Job is one independent composition for ComposeAll.
	Job struct {
		Root Segment
		Seed uint64
	}
)

var (
	errNilElement    = errors.New("segment has no element")
	errInvalidTiming = errors.New("segment ends before it starts")
)

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{TicksPerBeat: StandardBeatLength}
}

// WithOptions sets the composition options. A non-positive TicksPerBeat is
// replaced by StandardBeatLength.
func WithOptions(o Options) ComposerOption {
	return func(c *Composer) {
		c.options = o
	}
}

// WithLogger sets the logger used for progress messages. Render progress is
// logged at debug level.
func WithLogger(l *slog.Logger) ComposerOption {
	return func(c *Composer) {
		c.logger = l
	}
}

// NewComposer returns a Composer rendering with engine.
func NewComposer(engine *RenderEngine, opts ...ComposerOption) *Composer {
	c := &Composer{engine: engine, options: DefaultOptions()}
	for _, o := range opts {
		o(c)
	}
	if c.options.TicksPerBeat <= 0 {
		c.options.TicksPerBeat = StandardBeatLength
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.engine == nil {
		c.engine = &RenderEngine{}
	}
	return c
}

// Options returns the options handed to every context.
func (c *Composer) Options() Options {
	return c.options
}

// Engine returns the render engine of the composer.
func (c *Composer) Engine() *RenderEngine {
	return c.engine
}

// Compose expands root until no segment with a renderer is left unexpanded.
//
// Expansion is depth-first and pre-order: once a renderer returns children,
// each child and its whole subtree are expanded before the next sibling.
// Renderers see, through their context, exactly the segments expanded before
// them. Together with the per-node seeds derived from seed, this makes the
// result a pure function of the engine, root, seed and options.
//
// If a renderer fails, Compose returns a CompositionAbortedError wrapping the
// renderer's error and no composition. A renderer panic is not recovered.
func (c *Composer) Compose(root Segment, seed uint64) (*Composition, error) {
	start := time.Now()
	c.logger.Debug("composing", "kind", root.Kind(), "timing", root.Timing, "seed", seed)
	if err := validSegment(root); err != nil {
		return nil, fmt.Errorf("invalid root segment: %w", err)
	}
	comp := newComposition(c.options, seed)
	stack := []*Node{comp.insert(root, NoSegment, seed)}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		comp.visit(n)
		ctx := &CompositionContext{comp: comp, node: n}
		children, rendered, err := c.engine.render(n, ctx)
		if err != nil {
			c.logger.Debug("render failed", "id", n.ID, "kind", ctx.kind, "error", err)
			return nil, &CompositionAbortedError{ID: n.ID, Kind: ctx.kind, Err: err}
		}
		if !rendered {
			continue
		}
		n.Rendered = true
		for i, s := range children {
			if err := validSegment(s); err != nil {
				return nil, &CompositionAbortedError{ID: n.ID, Kind: ctx.kind, Err: fmt.Errorf("child %d: %w", i, err)}
			}
			comp.insert(s, n.ID, ChildSeed(n.Seed, i, s.name))
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, comp.nodes[n.Children[i]])
		}
		c.logger.Debug("rendered", "id", n.ID, "kind", n.Segment.Kind(), "timing", n.Segment.Timing, "children", len(children))
	}
	c.logger.Debug("composed", "nodes", comp.Len(), "elapsed", time.Since(start))
	return comp, nil
}

// ComposeAll runs independent compositions concurrently, one goroutine per
// job, and returns them in job order. The first failure cancels the jobs that
// have not started yet and is returned.
func (c *Composer) ComposeAll(ctx context.Context, jobs []Job) ([]*Composition, error) {
	ret := make([]*Composition, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			comp, err := c.Compose(j.Root, j.Seed)
			if err != nil {
				return fmt.Errorf("job %d (seed %d): %w", i, j.Seed, err)
			}
			ret[i] = comp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

func validSegment(s Segment) error {
	if s.Element == nil {
		return errNilElement
	}
	if s.Timing.End < s.Timing.Start {
		return fmt.Errorf("%w: %v", errInvalidTiming, s.Timing)
	}
	return nil
}
