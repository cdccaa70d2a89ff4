package compare

import (
	"errors"
	"fmt"

	"reconciler/core/tuple"
)

// ErrNoComparator is matched by every resolution failure.
var ErrNoComparator = errors.New("no comparator")

// NoComparatorError reports a column for which no comparator could be resolved.
type NoComparatorError struct {
	Column string
	Kind   tuple.Kind
}

func (e *NoComparatorError) Error() string {
	return fmt.Sprintf("no comparator for column %q of type %s", e.Column, e.Kind)
}

// Is makes errors.Is(err, ErrNoComparator) succeed.
func (e *NoComparatorError) Is(target error) bool {
	return target == ErrNoComparator
}

// Config holds resolver settings.
type Config struct {
	// Overrides are consulted first, in order; the first that accepts a column wins.
	Overrides []Comparator
	// Defaults are the type-default comparators, consulted in order after the
	// overrides. Nil selects DefaultComparators(Epsilon).
	Defaults []Comparator
	// Epsilon is the tolerance of the default numeric comparator. Zero selects DefaultEpsilon.
	Epsilon float64
}

// DefaultComparators returns the built-in type defaults: numeric columns compare
// with a tolerance of epsilon.
func DefaultComparators(epsilon float64) []Comparator {
	if epsilon == 0 {
		epsilon = DefaultEpsilon
	}
	return []Comparator{NewTolerance(epsilon)}
}

// Resolver picks the comparator for a column. It is safe for concurrent use
// since it never changes after construction.
type Resolver struct {
	overrides []Comparator
	defaults  []Comparator
	natural   Natural
}

// NewResolver builds a resolver from cfg.
func NewResolver(cfg Config) *Resolver {
	defaults := cfg.Defaults
	if defaults == nil {
		defaults = DefaultComparators(cfg.Epsilon)
	}
	r := &Resolver{
		overrides: make([]Comparator, len(cfg.Overrides)),
		defaults:  make([]Comparator, len(defaults)),
	}
	copy(r.overrides, cfg.Overrides)
	copy(r.defaults, defaults)
	return r
}

// DefaultResolver returns a resolver with no overrides and the built-in defaults.
func DefaultResolver() *Resolver {
	return NewResolver(Config{})
}

// Resolve returns the comparator for col: first matching override, then first
// matching type default, then natural ordering if the kind is ordered.
func (r *Resolver) Resolve(col tuple.Column) (Comparator, error) {
	for _, c := range r.overrides {
		if c.Accepts(col) {
			return c, nil
		}
	}
	for _, c := range r.defaults {
		if c.Accepts(col) {
			return c, nil
		}
	}
	if r.natural.Accepts(col) {
		return r.natural, nil
	}
	return nil, &NoComparatorError{Column: col.Name, Kind: col.Kind}
}
