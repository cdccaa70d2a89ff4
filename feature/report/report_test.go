package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"reconciler/core/reconcile"
	"reconciler/core/storage/mocks"
	"reconciler/core/tuple"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	leftSchema = tuple.MustSchema(
		tuple.NewColumn("id", tuple.KindInteger),
		tuple.NewColumn("name", tuple.KindText),
		tuple.NewColumn("amount", tuple.KindFloat),
		tuple.NewColumn("note", tuple.KindText),
	)
	rightSchema = tuple.MustSchema(
		tuple.NewColumn("id", tuple.KindInteger),
		tuple.NewColumn("name", tuple.KindText),
		tuple.NewColumn("amount", tuple.KindFloat),
	)
)

func fixture(t *testing.T) (*reconcile.Layout, []reconcile.Event) {
	t.Helper()
	layout, err := reconcile.Validate(leftSchema, rightSchema, reconcile.Spec{PrimaryKey: []string{"id"}})
	require.NoError(t, err)

	l := func(raw ...any) *tuple.Tuple {
		tp, err := tuple.Make(leftSchema, raw...)
		require.NoError(t, err)
		return tp
	}
	r := func(raw ...any) *tuple.Tuple {
		tp, err := tuple.Make(rightSchema, raw...)
		require.NoError(t, err)
		return tp
	}

	l2, r2 := l(2, "b", 20.0, ""), r(2, "B", nil)
	events := []reconcile.Event{
		{Kind: reconcile.OnlyLeft, Left: l(1, "a", 10.0, "x")},
		{Kind: reconcile.Break, Left: l2, Right: r2, Differences: []reconcile.Difference{
			{Column: leftSchema.At(1), Left: l2.At(1), Right: r2.At(1)},
			{Column: leftSchema.At(2), Left: l2.At(2), Right: r2.At(2)},
		}},
		{Kind: reconcile.Matched, Left: l(3, "c", 30.0, ""), Right: r(3, "c", 30.0)},
		{Kind: reconcile.OnlyRight, Right: r(4, "d", 40.0)},
		{Kind: reconcile.DataLeft, Left: l(5, "e", 50.0, "")},
	}
	return layout, events
}

func feed(t *testing.T, c reconcile.Consumer) {
	t.Helper()
	layout, events := fixture(t)
	if lc, ok := c.(reconcile.LayoutConsumer); ok {
		require.NoError(t, lc.HandleLayout(layout))
	}
	for _, ev := range events {
		require.NoError(t, c.HandleEvent(context.Background(), ev))
	}
}

func TestConsole(t *testing.T) {
	tests := []struct {
		name string
		opts []ConsoleOption
		want string
	}{
		{
			name: "differences only",
			opts: []ConsoleOption{NoColor()},
			want: "key [id], comparing [name, amount]\n" +
				"  left only columns: note\n" +
				"< ONLY_LEFT  id=1\n" +
				"! BREAK      id=2\n" +
				"    name: b -> B\n" +
				"    amount: 20 -> <null>\n" +
				"> ONLY_RIGHT id=4\n",
		},
		{
			name: "with matched",
			opts: []ConsoleOption{NoColor(), ShowMatched()},
			want: "key [id], comparing [name, amount]\n" +
				"  left only columns: note\n" +
				"< ONLY_LEFT  id=1\n" +
				"! BREAK      id=2\n" +
				"    name: b -> B\n" +
				"    amount: 20 -> <null>\n" +
				"= MATCHED    id=3\n" +
				"> ONLY_RIGHT id=4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			feed(t, NewConsole(&buf, tt.opts...))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	feed(t, w)
	require.NoError(t, w.Flush())

	assert.Equal(t,
		"event,id,column,left,right\n"+
			"ONLY_LEFT,1,,,\n"+
			"BREAK,2,name,b,B\n"+
			"BREAK,2,amount,20,\n"+
			"ONLY_RIGHT,4,,,\n",
		buf.String())

	err := NewCSVWriter(&buf).HandleEvent(context.Background(), reconcile.Event{Kind: reconcile.OnlyLeft})
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	s := &Stats{}
	assert.True(t, s.Clean())

	feed(t, s)

	assert.Equal(t, int64(1), s.OnlyLeft)
	assert.Equal(t, int64(1), s.OnlyRight)
	assert.Equal(t, int64(1), s.Matched)
	assert.Equal(t, int64(1), s.Breaks)
	assert.Equal(t, int64(3), s.LeftRows())
	assert.Equal(t, int64(3), s.RightRows())
	assert.False(t, s.Clean())
	assert.Equal(t, []string{"amount", "name"}, s.Columns())
	assert.Equal(t, "left=3 right=3 matched=1 breaks=1 only_left=1 only_right=1", s.String())
}

func TestRecorder(t *testing.T) {
	t.Run("unlimited", func(t *testing.T) {
		r := NewRecorder(0)
		feed(t, r)

		require.Len(t, r.Records, 3)
		assert.Equal(t, Record{Kind: "ONLY_LEFT", Key: map[string]string{"id": "1"}}, r.Records[0])
		assert.Equal(t, []FieldDiff{{"name", "b", "B"}, {"amount", "20", ""}}, r.Records[1].Differences)
		assert.Equal(t, "ONLY_RIGHT", r.Records[2].Kind)
		assert.False(t, r.Truncated)
	})

	t.Run("limited", func(t *testing.T) {
		r := NewRecorder(2)
		feed(t, r)
		assert.Len(t, r.Records, 2)
		assert.True(t, r.Truncated)
	})
}

type failing struct{ err error }

func (f failing) HandleEvent(context.Context, reconcile.Event) error { return f.err }

func TestCascade(t *testing.T) {
	boom := errors.New("boom")
	ev := reconcile.Event{Kind: reconcile.Matched}

	t.Run("forwards in order", func(t *testing.T) {
		var order []string
		c := NewCascade(
			reconcile.ConsumerFunc(func(context.Context, reconcile.Event) error { order = append(order, "a"); return nil }),
			reconcile.ConsumerFunc(func(context.Context, reconcile.Event) error { order = append(order, "b"); return nil }),
		)
		require.NoError(t, c.HandleEvent(context.Background(), ev))
		assert.Equal(t, []string{"a", "b"}, order)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("forwards layout", func(t *testing.T) {
		layout, _ := fixture(t)
		rec := NewRecorder(0)
		c := NewCascade(failing{}, rec)
		require.NoError(t, c.HandleLayout(layout))
		assert.Equal(t, []string{"id"}, rec.keys)
	})

	t.Run("aborts on failure", func(t *testing.T) {
		stats := &Stats{}
		c := NewCascade(failing{err: boom}).Add(stats)
		err := c.HandleEvent(context.Background(), ev)
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, stats.Matched)
	})

	t.Run("continue on error", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		stats := &Stats{}
		c := NewCascade(failing{err: boom}, stats).ContinueOnError(zap.New(core))

		require.NoError(t, c.HandleEvent(context.Background(), ev))
		assert.Equal(t, int64(1), stats.Matched)
		assert.Equal(t, 1, logs.Len())
	})
}

func TestUploader(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("BucketExists", ctx, "reports").Return(true, nil)
	client.On("PutObject", ctx, "reports", "daily/run.csv", mock.Anything, int64(3), minio.PutObjectOptions{ContentType: "text/csv"}).
		Return(minio.UploadInfo{}, nil)

	object, err := NewUploader(client, "reports", "daily").Upload(ctx, "run.csv", []byte("a,b"), "text/csv")
	require.NoError(t, err)
	assert.Equal(t, "daily/run.csv", object)
	client.AssertExpectations(t)
}
