package compare

import (
	"bytes"
	"cmp"
	"strings"

	"reconciler/core/tuple"
)

// Natural compares values by their intrinsic ordering.
//
// Null sorts before every present value and equals only Null. Numbers of
// different kinds compare numerically. When one side is text and the other is
// not, both are compared by their rendered text. Remaining mixed kinds order
// by kind. Opaque values have no ordering and compare by their rendered text.
type Natural struct{}

// NewNatural returns the natural ordering comparator.
func NewNatural() Natural { return Natural{} }

// Accepts reports whether the column kind has an intrinsic ordering.
func (Natural) Accepts(col tuple.Column) bool {
	return col.Kind.Ordered()
}

// Compare implements Comparator.
func (Natural) Compare(a, b tuple.Value) int {
	return compareNatural(a, b)
}

func compareNatural(a, b tuple.Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}

	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		if ka.Numeric() && kb.Numeric() {
			return compareNumeric(a, b)
		}
		if ka == tuple.KindText || kb == tuple.KindText {
			return strings.Compare(a.String(), b.String())
		}
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case tuple.KindText:
		return strings.Compare(a.Text(), b.Text())
	case tuple.KindInteger:
		return cmp.Compare(a.Int(), b.Int())
	case tuple.KindFloat:
		return cmp.Compare(a.Float(), b.Float())
	case tuple.KindDecimal:
		return a.Decimal().Cmp(b.Decimal())
	case tuple.KindBool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	case tuple.KindTime:
		return a.Time().Compare(b.Time())
	case tuple.KindBytes:
		return bytes.Compare(a.Bytes(), b.Bytes())
	}
	return strings.Compare(a.String(), b.String())
}

func compareNumeric(a, b tuple.Value) int {
	da, okA := a.Number()
	db, okB := b.Number()
	if okA && okB {
		return da.Cmp(db)
	}
	// NaN or infinities: fall back to float ordering
	return cmp.Compare(asFloat(a), asFloat(b))
}

func asFloat(v tuple.Value) float64 {
	switch v.Kind() {
	case tuple.KindInteger:
		return float64(v.Int())
	case tuple.KindFloat:
		return v.Float()
	case tuple.KindDecimal:
		return v.Decimal().InexactFloat64()
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
