package compare

import (
	"testing"
	"time"

	"reconciler/core/tuple"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(i int) int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	}
	return 0
}

func TestNatural_Compare(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		a, b tuple.Value
		want int
	}{
		{"null equals null", tuple.Null(), tuple.Null(), 0},
		{"null before value", tuple.Null(), tuple.Int(0), -1},
		{"value after null", tuple.Text(""), tuple.Null(), 1},
		{"text", tuple.Text("A"), tuple.Text("B"), -1},
		{"integers", tuple.Int(2), tuple.Int(2), 0},
		{"int vs float", tuple.Int(2), tuple.Float(2.5), -1},
		{"int vs decimal", tuple.Int(3), tuple.Decimal(decimal.RequireFromString("3.00")), 0},
		{"floats exact", tuple.Float(10.0), tuple.Float(10.0000001), -1},
		{"bools", tuple.Bool(true), tuple.Bool(false), 1},
		{"times", tuple.Time(now), tuple.Time(now.Add(time.Second)), -1},
		{"bytes", tuple.Bytes([]byte{1}), tuple.Bytes([]byte{1, 0}), -1},
		{"text vs int by text", tuple.Text("10"), tuple.Int(10), 0},
	}

	n := NewNatural()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sign(n.Compare(tt.a, tt.b)))
		})
	}
}

func TestNatural_Accepts(t *testing.T) {
	n := NewNatural()
	assert.True(t, n.Accepts(tuple.NewColumn("a", tuple.KindText)))
	assert.True(t, n.Accepts(tuple.NewColumn("a", tuple.KindBytes)))
	assert.False(t, n.Accepts(tuple.NewColumn("a", tuple.KindOpaque)))
}

func TestTolerance_Compare(t *testing.T) {
	tol := NewTolerance(DefaultEpsilon)

	tests := []struct {
		name string
		a, b tuple.Value
		want int
	}{
		{"within epsilon", tuple.Float(10.0), tuple.Float(10.0000001), 0},
		{"within epsilon reversed", tuple.Float(10.0000001), tuple.Float(10.0), 0},
		{"difference equal to epsilon is unequal", tuple.Float(0), tuple.Float(0.00001), -1},
		{"difference equal to epsilon is unequal reversed", tuple.Float(0.00001), tuple.Float(0), 1},
		{"above epsilon", tuple.Float(1.0), tuple.Float(1.1), -1},
		{"greater", tuple.Int(5), tuple.Int(4), 1},
		{"absent is zero", tuple.Null(), tuple.Float(0.000001), 0},
		{"absent vs non zero", tuple.Null(), tuple.Int(1), -1},
		{"both absent", tuple.Null(), tuple.Null(), 0},
		{"decimal vs float", tuple.Decimal(decimal.RequireFromString("2.000001")), tuple.Float(2), 0},
		{"numeric text", tuple.Text("3.5"), tuple.Float(3.5), 0},
		{"non numeric text falls back", tuple.Text("abc"), tuple.Float(1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sign(tol.Compare(tt.a, tt.b)))
		})
	}
}

func TestTolerance_NonTransitive(t *testing.T) {
	tol := NewTolerance(1)
	a, b, c := tuple.Float(0), tuple.Float(0.6), tuple.Float(1.2)
	assert.True(t, Equal(tol, a, b))
	assert.True(t, Equal(tol, b, c))
	assert.False(t, Equal(tol, a, c))
}

func TestTolerance_Accepts(t *testing.T) {
	tol := NewTolerance(0.1)
	assert.True(t, tol.Accepts(tuple.NewColumn("a", tuple.KindInteger)))
	assert.True(t, tol.Accepts(tuple.NewColumn("a", tuple.KindDecimal)))
	assert.False(t, tol.Accepts(tuple.NewColumn("a", tuple.KindText)))
	assert.Equal(t, "0.1", tol.Epsilon().String())
}

func TestTolerance_ZeroEpsilonIsExact(t *testing.T) {
	tol := NewTolerance(0)
	assert.Equal(t, 0, tol.Compare(tuple.Int(1), tuple.Float(1)))
	assert.NotEqual(t, 0, tol.Compare(tuple.Float(1), tuple.Float(1.0000000001)))
}

func TestBound(t *testing.T) {
	caseInsensitive := func(a, b tuple.Value) int {
		return NaturalFunc(tuple.Text(lower(a.String())), tuple.Text(lower(b.String())))
	}

	byName := ForColumn("Customer Name", caseInsensitive)
	assert.True(t, byName.Accepts(tuple.NewColumn("customer_name", tuple.KindText)))
	assert.False(t, byName.Accepts(tuple.NewColumn("name", tuple.KindText)))
	assert.Equal(t, 0, byName.Compare(tuple.Text("ACME"), tuple.Text("acme")))
	assert.Equal(t, "column:customer_name", byName.String())

	byKind := ForKind(tuple.KindTime, Ignore)
	assert.True(t, byKind.Accepts(tuple.NewColumn("anything", tuple.KindTime)))
	assert.False(t, byKind.Accepts(tuple.NewColumn("anything", tuple.KindText)))
	assert.Equal(t, "kind:time", byKind.String())

	price := ColumnTolerance("price", 0.5)
	assert.Equal(t, 0, price.Compare(tuple.Float(1), tuple.Float(1.4)))
	assert.Equal(t, -1, sign(price.Compare(tuple.Float(1), tuple.Float(1.5))))
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

func TestResolver_Resolve(t *testing.T) {
	amount := tuple.NewColumn("amount", tuple.KindFloat)
	name := tuple.NewColumn("name", tuple.KindText)
	blob := tuple.NewColumn("payload", tuple.KindOpaque)

	t.Run("Type default for numerics", func(t *testing.T) {
		r := DefaultResolver()
		c, err := r.Resolve(amount)
		require.NoError(t, err)
		tol, ok := c.(*Tolerance)
		require.True(t, ok)
		assert.Equal(t, decimal.NewFromFloat(DefaultEpsilon).String(), tol.Epsilon().String())
	})

	t.Run("Configured epsilon", func(t *testing.T) {
		r := NewResolver(Config{Epsilon: 0.01})
		c, err := r.Resolve(amount)
		require.NoError(t, err)
		assert.Equal(t, 0, c.Compare(tuple.Float(1), tuple.Float(1.005)))
	})

	t.Run("Natural fallback", func(t *testing.T) {
		c, err := DefaultResolver().Resolve(name)
		require.NoError(t, err)
		assert.IsType(t, Natural{}, c)
	})

	t.Run("Override wins, first match first", func(t *testing.T) {
		first := ForColumn("amount", Ignore)
		second := ForKind(tuple.KindFloat, NaturalFunc)
		r := NewResolver(Config{Overrides: []Comparator{first, second}})

		c, err := r.Resolve(amount)
		require.NoError(t, err)
		assert.Same(t, first, c)

		other, err := r.Resolve(tuple.NewColumn("rate", tuple.KindFloat))
		require.NoError(t, err)
		assert.Same(t, second, other)
	})

	t.Run("Override makes opaque resolvable", func(t *testing.T) {
		custom := ForColumn("payload", Ignore)
		c, err := NewResolver(Config{Overrides: []Comparator{custom}}).Resolve(blob)
		require.NoError(t, err)
		assert.Same(t, custom, c)
	})

	t.Run("Unresolvable", func(t *testing.T) {
		_, err := DefaultResolver().Resolve(blob)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoComparator)

		var nce *NoComparatorError
		require.ErrorAs(t, err, &nce)
		assert.Equal(t, "payload", nce.Column)
		assert.Equal(t, tuple.KindOpaque, nce.Kind)
		assert.Contains(t, err.Error(), "opaque")
	})

	t.Run("Empty defaults disable tolerance", func(t *testing.T) {
		r := NewResolver(Config{Defaults: []Comparator{}})
		c, err := r.Resolve(amount)
		require.NoError(t, err)
		assert.IsType(t, Natural{}, c)
	})
}
