package reconcile

import (
	"context"
	"errors"
	"iter"
	"time"

	"reconciler/core/compare"
	"reconciler/core/tuple"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine reconciles pairs of key-ordered streams under one Spec.
// An Engine holds no per-run state and may be shared between goroutines.
type Engine struct {
	spec       Spec
	logger     *zap.Logger
	rowEvents  bool
	orderCheck bool
}

// NewEngine creates an engine for spec. It fails with a *ConfigError when the
// primary key is empty.
func NewEngine(spec Spec, opts ...Option) (*Engine, error) {
	if len(spec.PrimaryKey) == 0 {
		return nil, &ConfigError{Reason: "primary key is empty"}
	}
	if spec.Resolver == nil {
		spec.Resolver = compare.DefaultResolver()
	}

	e := &Engine{spec: spec, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Spec returns the key and comparison settings the engine was built with.
func (e *Engine) Spec() Spec { return e.spec }

// Events returns a lazy sequence of compare events for left against right.
//
// The sequence yields at most one non-nil error, as its last element. Breaking
// out of the loop stops the run. In every case both streams are closed exactly
// once before the sequence returns.
func (e *Engine) Events(ctx context.Context, left, right Stream) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		e.run(ctx, left, right, nil, yield)
	}
}

// Run reconciles left against right and delivers every event to consumer.
// If consumer implements LayoutConsumer it receives the layout first.
// The layout is returned whenever validation succeeded, even on a later error.
func (e *Engine) Run(ctx context.Context, left, right Stream, consumer Consumer) (*Layout, error) {
	var (
		layout *Layout
		runErr error
	)

	onLayout := func(l *Layout) error {
		layout = l
		if lc, ok := consumer.(LayoutConsumer); ok {
			if err := lc.HandleLayout(l); err != nil {
				return &ConsumerError{Err: err}
			}
		}
		return nil
	}

	e.run(ctx, left, right, onLayout, func(ev Event, err error) bool {
		if err != nil {
			runErr = err
			return false
		}
		if err := consumer.HandleEvent(ctx, ev); err != nil {
			runErr = &ConsumerError{Err: err}
			return false
		}
		return true
	})

	return layout, runErr
}

// Collect runs the engine and returns every event in order.
func (e *Engine) Collect(ctx context.Context, left, right Stream) ([]Event, error) {
	c := &Collector{}
	_, err := e.Run(ctx, left, right, c)
	return c.Events, err
}

// errStopped signals that the caller stopped consuming events.
var errStopped = errors.New("reconcile: stopped by caller")

func (e *Engine) run(ctx context.Context, left, right Stream, onLayout func(*Layout) error, yield func(Event, error) bool) {
	m := &merge{
		engine: e,
		left:   newCursor(SideLeft, left),
		right:  newCursor(SideRight, right),
		counts: make(map[EventKind]int64, len(eventKindNames)),
	}
	start := time.Now()

	err := m.run(ctx, onLayout, yield)

	if cerr := m.close(); cerr != nil {
		if err == nil {
			err = cerr
		} else {
			e.logger.Warn("Failed to close stream", zap.Error(cerr))
		}
	}

	fields := []zap.Field{
		zap.Int64("left_rows", m.left.pulled),
		zap.Int64("right_rows", m.right.pulled),
		zap.Int64("only_left", m.counts[OnlyLeft]),
		zap.Int64("only_right", m.counts[OnlyRight]),
		zap.Int64("matched", m.counts[Matched]),
		zap.Int64("breaks", m.counts[Break]),
		zap.Duration("duration", time.Since(start)),
	}

	switch {
	case errors.Is(err, errStopped):
		e.logger.Debug("Reconciliation stopped by consumer", fields...)
	case err != nil:
		e.logger.Error("Reconciliation failed", append(fields, zap.Error(err))...)
		yield(Event{}, err)
	default:
		e.logger.Info("Reconciliation completed", fields...)
	}
}

// merge holds the state of a single run.
type merge struct {
	engine *Engine
	layout *Layout
	left   *cursor
	right  *cursor

	// comparators caches data column comparators by Data index.
	comparators []compare.Comparator
	counts      map[EventKind]int64
}

func (m *merge) run(ctx context.Context, onLayout func(*Layout) error, yield func(Event, error) bool) error {
	if err := m.prepare(ctx); err != nil {
		return err
	}
	if onLayout != nil {
		if err := onLayout(m.layout); err != nil {
			return err
		}
	}

	emit := func(ev Event) error {
		m.counts[ev.Kind]++
		if !yield(ev, nil) {
			return errStopped
		}
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		l, err := m.left.peek(ctx)
		if err != nil {
			return err
		}
		r, err := m.right.peek(ctx)
		if err != nil {
			return err
		}
		if l == nil && r == nil {
			return nil
		}

		if err := m.step(l, r, emit); err != nil {
			return err
		}
	}
}

// prepare fetches both schemas, validates them and opens both streams.
func (m *merge) prepare(ctx context.Context) error {
	var (
		ls, rs *tuple.Schema
		g      errgroup.Group
	)
	g.Go(func() error {
		s, err := m.left.stream.Schema(ctx)
		if err != nil {
			return &StreamError{Side: SideLeft, Op: "schema", Err: err}
		}
		ls = s
		return nil
	})
	g.Go(func() error {
		s, err := m.right.stream.Schema(ctx)
		if err != nil {
			return &StreamError{Side: SideRight, Op: "schema", Err: err}
		}
		rs = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	layout, err := Validate(ls, rs, m.engine.spec)
	if err != nil {
		return err
	}
	m.layout = layout
	m.comparators = make([]compare.Comparator, len(layout.Data))

	m.engine.logger.Info("Reconciliation started",
		zap.Strings("key", layout.KeyNames()),
		zap.Strings("compared", layout.DataNames()),
		zap.Int("left_only_columns", len(layout.LeftOnly)),
		zap.Int("right_only_columns", len(layout.RightOnly)),
	)

	if m.engine.orderCheck {
		m.left.checkOrder(layout.Key)
		m.right.checkOrder(layout.Key)
	}

	// The streams are opened with the caller's context: errgroup.WithContext
	// would cancel a context the streams may keep using after Open returns.
	g = errgroup.Group{}
	g.Go(func() error {
		if err := m.left.stream.Open(ctx); err != nil {
			return &StreamError{Side: SideLeft, Op: "open", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		if err := m.right.stream.Open(ctx); err != nil {
			return &StreamError{Side: SideRight, Op: "open", Err: err}
		}
		return nil
	})
	return g.Wait()
}

// step classifies the current key position and advances the cursors.
func (m *merge) step(l, r *tuple.Tuple, emit func(Event) error) error {
	var order int
	switch {
	case r == nil:
		order = -1
	case l == nil:
		order = 1
	default:
		order = m.compareKeys(l, r)
	}

	if order <= 0 {
		m.left.advance()
		if m.engine.rowEvents {
			if err := emit(Event{Kind: DataLeft, Left: l}); err != nil {
				return err
			}
		}
	}
	if order >= 0 {
		m.right.advance()
		if m.engine.rowEvents {
			if err := emit(Event{Kind: DataRight, Right: r}); err != nil {
				return err
			}
		}
	}

	switch {
	case order < 0:
		return emit(Event{Kind: OnlyLeft, Left: l})
	case order > 0:
		return emit(Event{Kind: OnlyRight, Right: r})
	}

	diffs, err := m.diff(l, r)
	if err != nil {
		return err
	}
	if len(diffs) > 0 {
		return emit(Event{Kind: Break, Left: l, Right: r, Differences: diffs})
	}
	return emit(Event{Kind: Matched, Left: l, Right: r})
}

func (m *merge) compareKeys(l, r *tuple.Tuple) int {
	for _, k := range m.layout.Key {
		if c := k.Comparator.Compare(l.At(k.Left), r.At(k.Right)); c != 0 {
			return c
		}
	}
	return 0
}

// diff compares every data column and returns the differing ones.
func (m *merge) diff(l, r *tuple.Tuple) ([]Difference, error) {
	var diffs []Difference
	for i, dc := range m.layout.Data {
		cmp, err := m.comparator(i)
		if err != nil {
			return nil, err
		}
		lv, rv := l.At(dc.Left), r.At(dc.Right)
		if cmp.Compare(lv, rv) != 0 {
			diffs = append(diffs, Difference{Column: dc.Column, Left: lv, Right: rv})
		}
	}
	return diffs, nil
}

// comparator resolves the data column comparator on first use.
func (m *merge) comparator(i int) (compare.Comparator, error) {
	if c := m.comparators[i]; c != nil {
		return c, nil
	}
	dc := m.layout.Data[i]
	c, err := dataComparator(m.engine.spec.Resolver, m.layout.Left.At(dc.Left), m.layout.Right.At(dc.Right))
	if err != nil {
		return nil, err
	}
	m.comparators[i] = c
	return c, nil
}

// close closes both streams and returns the first failure.
func (m *merge) close() error {
	lerr := m.left.close()
	rerr := m.right.close()
	if lerr != nil {
		if rerr != nil {
			m.engine.logger.Warn("Failed to close stream", zap.Error(rerr))
		}
		return lerr
	}
	return rerr
}
