package reconcile

import (
	"reconciler/core/compare"

	"go.uber.org/zap"
)

// Side identifies one of the two streams of a run.
type Side int

const (
	// SideNone is used by errors that concern both sides or neither.
	SideNone Side = iota
	// SideLeft is the left (reference) stream.
	SideLeft
	// SideRight is the right (candidate) stream.
	SideRight
)

// String returns "left", "right" or "".
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return ""
}

// Spec defines what a reconciliation compares.
type Spec struct {
	// PrimaryKey is the ordered list of key column names. Position 0 is the
	// primary sort key; later positions break ties.
	PrimaryKey []string

	// Exclude lists columns that never take part in equality or reporting.
	// Excluded columns may be absent from either side.
	Exclude []string

	// Resolver picks the comparator per column. Nil selects compare.DefaultResolver().
	Resolver *compare.Resolver
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRowEvents makes the engine emit a DataLeft or DataRight event for every
// tuple it consumes, immediately before the tuple's classification event.
func WithRowEvents() Option {
	return func(e *Engine) { e.rowEvents = true }
}

// WithOrderCheck makes the engine verify that each stream's keys never go
// backwards. A violation fails the run with ErrOutOfOrder. Duplicate keys are
// not reported.
func WithOrderCheck() Option {
	return func(e *Engine) { e.orderCheck = true }
}
