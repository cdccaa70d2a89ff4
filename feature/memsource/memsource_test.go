package memsource

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"reconciler/core/reconcile"
	"reconciler/core/tuple"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID      int64           `recon:"id"`
	Owner   string          `recon:"Owner Name"`
	Balance decimal.Decimal `recon:"balance"`
	Closed  *time.Time      `recon:"closed_at"`
	Note    string          `recon:"-"`
	Active  bool
	secret  string
}

func drain(t *testing.T, s *Stream) []*tuple.Tuple {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Open(ctx))
	var out []*tuple.Tuple
	for {
		row, err := s.Next(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		out = append(out, row)
	}
	return out
}

func TestSchemaOf(t *testing.T) {
	schema, err := SchemaOf(reflect.TypeOf(&account{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "owner_name", "balance", "closed_at", "active"}, schema.Names())

	tests := []struct {
		name string
		kind tuple.Kind
	}{
		{"id", tuple.KindInteger},
		{"owner_name", tuple.KindText},
		{"balance", tuple.KindDecimal},
		{"closed_at", tuple.KindTime},
		{"active", tuple.KindBool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := schema.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, col.Kind)
			assert.True(t, col.Strong)
		})
	}

	_, err = SchemaOf(reflect.TypeOf(42))
	assert.Error(t, err)
}

func TestFromStructs(t *testing.T) {
	closed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	items := []*account{
		{ID: 3, Owner: "carol", Balance: decimal.RequireFromString("30.10")},
		nil,
		{ID: 1, Owner: "alice", Balance: decimal.RequireFromString("10"), Closed: &closed, Active: true},
	}

	s, err := FromStructs(items, WithKey("id"))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	rows := drain(t, s)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].At(0).Int())
	assert.True(t, rows[0].At(3).Time().Equal(closed))
	assert.True(t, rows[1].At(3).IsNull())
	assert.Equal(t, "30.1", rows[1].At(2).Decimal().String())

	_, err = FromStructs(account{})
	assert.Error(t, err)
}

func TestStream_Lifecycle(t *testing.T) {
	schema := tuple.MustSchema(tuple.NewColumn("id", tuple.KindInteger))
	s, err := FromRows(schema, [][]any{{2}, {1}})
	require.NoError(t, err)

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)

	// Without a key the input order is kept
	rows := drain(t, s)
	assert.Equal(t, "2", rows[0].At(0).String())

	require.NoError(t, s.Close())
	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.Error(t, s.Open(context.Background()))
}

func TestSortTuples(t *testing.T) {
	schema := tuple.MustSchema(
		tuple.NewColumn("region", tuple.KindText),
		tuple.NewColumn("id", tuple.KindInteger),
	)
	s, err := FromRows(schema, [][]any{{"b", 1}, {"a", 10}, {"a", 9}}, WithKey("region", "id"))
	require.NoError(t, err)

	var got []string
	for _, r := range drain(t, s) {
		got = append(got, r.String())
	}
	assert.Equal(t, []string{"{region=a, id=9}", "{region=a, id=10}", "{region=b, id=1}"}, got)

	err = SortTuples(nil, schema, []string{"missing"}, nil)
	assert.ErrorContains(t, err, "missing")
}

func TestStreams_Reconcile(t *testing.T) {
	left, err := FromStructs([]account{
		{ID: 2, Owner: "bob", Balance: decimal.RequireFromString("5.00")},
		{ID: 1, Owner: "alice", Balance: decimal.RequireFromString("10")},
	}, WithKey("id"))
	require.NoError(t, err)
	right, err := FromStructs([]account{
		{ID: 1, Owner: "alice", Balance: decimal.RequireFromString("10.000001")},
		{ID: 3, Owner: "dave"},
	}, WithKey("id"))
	require.NoError(t, err)

	engine, err := reconcile.NewEngine(reconcile.Spec{PrimaryKey: []string{"id"}})
	require.NoError(t, err)

	events, err := engine.Collect(context.Background(), left, right)
	require.NoError(t, err)

	var kinds []reconcile.EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []reconcile.EventKind{reconcile.Matched, reconcile.OnlyLeft, reconcile.OnlyRight}, kinds)
}
