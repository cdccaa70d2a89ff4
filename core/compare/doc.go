// Package compare decides, per column, what "equal" means when two rows are reconciled.
//
// # Comparators
//
// A Comparator answers two questions: whether it can judge a given column
// (Accepts) and how two raw values of that column order against each other
// (Compare, a three-way result). The engine uses Compare == 0 as equality for
// data columns and the full three-way result for key columns.
//
// Three families are provided:
//   - Natural: each value's intrinsic ordering.
//   - Tolerance: numeric comparison where an absolute difference below epsilon is equal.
//   - Custom: user functions bound to a column name (ForColumn) or a kind (ForKind).
//
// # Resolution
//
// A Resolver picks the comparator for a column. Overrides are consulted first in
// order, then the type defaults (numeric columns get a Tolerance with epsilon
// 1e-5), then natural ordering when the column kind is ordered. A column that
// matches nothing fails with a NoComparatorError.
//
// A Resolver is an explicit value built once per run and read-only afterwards;
// there is no package-level registry.
package compare
