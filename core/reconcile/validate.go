package reconcile

import (
	"fmt"
	"reflect"

	"reconciler/core/compare"
	"reconciler/core/tuple"
)

// KeyColumn is one resolved primary key position.
type KeyColumn struct {
	// Column is the column the comparator was resolved for.
	Column tuple.Column
	// Left and Right are the column positions in each schema.
	Left  int
	Right int
	// Comparator orders and equates the key values.
	Comparator compare.Comparator
}

// DataColumn is a non-key column present on both sides.
type DataColumn struct {
	// Column is the column reported in differences: the numeric side when
	// only one side is numeric, else the strongly typed side, else the left one.
	Column tuple.Column
	Left   int
	Right  int
}

// Layout is the outcome of validating two schemas against a Spec.
type Layout struct {
	Left  *tuple.Schema
	Right *tuple.Schema

	// Key lists the key columns in primary key order.
	Key []KeyColumn
	// Data lists the compared columns in left schema order.
	Data []DataColumn
	// LeftOnly and RightOnly list non-key, non-excluded columns present on one
	// side only. They are never compared.
	LeftOnly  []tuple.Column
	RightOnly []tuple.Column
	// Excluded lists the normalized excluded column names.
	Excluded []string
}

// KeyNames returns the key column names in primary key order.
func (l *Layout) KeyNames() []string {
	names := make([]string, len(l.Key))
	for i, k := range l.Key {
		names[i] = k.Column.Name
	}
	return names
}

// DataNames returns the compared column names.
func (l *Layout) DataNames() []string {
	names := make([]string, len(l.Data))
	for i, d := range l.Data {
		names[i] = d.Column.Name
	}
	return names
}

// Validate checks two schemas against spec and computes the comparison layout.
//
// Every key column must exist on both sides and the two columns must be
// mutually comparable: identical kinds, or both columns resolve to the same
// non-natural comparator and it accepts both. Key columns are never data columns and excluded columns are
// dropped from every set. All failures are *ConfigError.
func Validate(left, right *tuple.Schema, spec Spec) (*Layout, error) {
	if left == nil || right == nil {
		return nil, &ConfigError{Reason: "both schemas are required"}
	}
	if len(spec.PrimaryKey) == 0 {
		return nil, &ConfigError{Reason: "primary key is empty"}
	}

	resolver := spec.Resolver
	if resolver == nil {
		resolver = compare.DefaultResolver()
	}

	layout := &Layout{Left: left, Right: right}

	keySet := make(map[string]struct{}, len(spec.PrimaryKey))
	for _, name := range spec.PrimaryKey {
		k, err := keyColumn(left, right, name, resolver)
		if err != nil {
			return nil, err
		}
		if _, dup := keySet[k.Column.Name]; dup {
			return nil, &ConfigError{Column: name, Reason: "primary key column listed twice"}
		}
		keySet[k.Column.Name] = struct{}{}
		layout.Key = append(layout.Key, k)
	}

	excluded := make(map[string]struct{}, len(spec.Exclude))
	for _, name := range spec.Exclude {
		n := tuple.NormalizeName(name)
		if n == "" {
			continue
		}
		if _, ok := excluded[n]; !ok {
			excluded[n] = struct{}{}
			layout.Excluded = append(layout.Excluded, n)
		}
	}

	skip := func(name string) bool {
		if _, ok := keySet[name]; ok {
			return true
		}
		_, ok := excluded[name]
		return ok
	}

	for i, lc := range left.Columns() {
		if skip(lc.Name) {
			continue
		}
		j, ok := right.Index(lc.Name)
		if !ok {
			layout.LeftOnly = append(layout.LeftOnly, lc)
			continue
		}
		layout.Data = append(layout.Data, DataColumn{
			Column: dataColumn(lc, right.At(j)),
			Left:   i,
			Right:  j,
		})
	}
	for _, rc := range right.Columns() {
		if skip(rc.Name) || left.Contains(rc.Name) {
			continue
		}
		layout.RightOnly = append(layout.RightOnly, rc)
	}

	return layout, nil
}

func keyColumn(left, right *tuple.Schema, name string, resolver *compare.Resolver) (KeyColumn, error) {
	i, ok := left.Index(name)
	if !ok {
		return KeyColumn{}, &ConfigError{Side: SideLeft, Column: name, Reason: "primary key column not found"}
	}
	j, ok := right.Index(name)
	if !ok {
		return KeyColumn{}, &ConfigError{Side: SideRight, Column: name, Reason: "primary key column not found"}
	}

	lc, rc := left.At(i), right.At(j)
	col := dataColumn(lc, rc)
	if lc.Kind == rc.Kind {
		cmp, err := resolver.Resolve(col)
		if err != nil {
			return KeyColumn{}, &ConfigError{Column: col.Name, Reason: "no comparator for primary key column", Err: err}
		}
		return KeyColumn{Column: col, Left: i, Right: j, Comparator: cmp}, nil
	}

	// Mixed kinds need one ordering that understands both sides. Natural
	// ordering across kinds is by kind tag or rendered text, never a real order.
	lcmp, err := resolver.Resolve(lc)
	if err != nil {
		return KeyColumn{}, &ConfigError{Side: SideLeft, Column: col.Name, Reason: "no comparator for primary key column", Err: err}
	}
	rcmp, err := resolver.Resolve(rc)
	if err != nil {
		return KeyColumn{}, &ConfigError{Side: SideRight, Column: col.Name, Reason: "no comparator for primary key column", Err: err}
	}
	if !sameComparator(lcmp, rcmp) || isNatural(lcmp) || !lcmp.Accepts(lc) || !lcmp.Accepts(rc) {
		return KeyColumn{}, &ConfigError{
			Column: col.Name,
			Reason: fmt.Sprintf("primary key types are not comparable (left %s, right %s)", lc.Kind, rc.Kind),
		}
	}

	return KeyColumn{Column: col, Left: i, Right: j, Comparator: lcmp}, nil
}

// dataColumn picks the column reported in differences. With mixed numeric and
// non-numeric kinds the numeric side wins, then a strongly typed side, then left.
func dataColumn(left, right tuple.Column) tuple.Column {
	if left.Kind != right.Kind && left.Kind.Numeric() != right.Kind.Numeric() {
		if right.Kind.Numeric() {
			return right
		}
		return left
	}
	if right.Strong && !left.Strong {
		return right
	}
	return left
}

// dataComparator resolves the comparator of a compared column. The choice
// never depends on which source is left.
func dataComparator(resolver *compare.Resolver, lc, rc tuple.Column) (compare.Comparator, error) {
	col := dataColumn(lc, rc)
	if lc.Kind == rc.Kind {
		cmp, err := resolver.Resolve(col)
		if err != nil {
			return nil, &ConfigError{Column: col.Name, Reason: "no comparator for column", Err: err}
		}
		return cmp, nil
	}

	lcmp, lerr := resolver.Resolve(lc)
	rcmp, rerr := resolver.Resolve(rc)
	switch {
	case lerr == nil && rerr == nil && sameComparator(lcmp, rcmp):
		return lcmp, nil
	case lerr == nil && lc.Kind.Numeric() && !rc.Kind.Numeric():
		return lcmp, nil
	case rerr == nil && rc.Kind.Numeric() && !lc.Kind.Numeric():
		return rcmp, nil
	case lerr != nil:
		return nil, &ConfigError{Side: SideLeft, Column: col.Name, Reason: "no comparator for column", Err: lerr}
	case rerr != nil:
		return nil, &ConfigError{Side: SideRight, Column: col.Name, Reason: "no comparator for column", Err: rerr}
	}
	return nil, &ConfigError{
		Column: col.Name,
		Reason: fmt.Sprintf("column types are not comparable (left %s, right %s)", lc.Kind, rc.Kind),
	}
}

func sameComparator(a, b compare.Comparator) bool {
	ta := reflect.TypeOf(a)
	return ta == reflect.TypeOf(b) && ta.Comparable() && a == b
}

func isNatural(c compare.Comparator) bool {
	_, ok := c.(compare.Natural)
	return ok
}
