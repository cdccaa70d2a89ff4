package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"reconciler/core/compare"
	"reconciler/core/tuple"
)

// Stream is a key-ordered source of tuples.
//
// Schema may be called before Open. Next returns io.EOF once the stream is
// exhausted. Tuples must arrive in ascending order of the primary key under
// the key comparators; the engine does not re-sort. Close must be safe to
// call on a stream that was never opened.
type Stream interface {
	// Schema returns the stream's column layout.
	Schema(ctx context.Context) (*tuple.Schema, error)

	// Open prepares the stream for reading.
	Open(ctx context.Context) error

	// Next returns the next tuple, or io.EOF when none remain.
	Next(ctx context.Context) (*tuple.Tuple, error)

	// Close releases the stream's resources.
	Close() error
}

// cursor wraps a Stream with a one-tuple lookahead and a close-once guard.
type cursor struct {
	side   Side
	stream Stream

	// keyIdx and keyCmp are set when order checking is enabled.
	keyIdx []int
	keyCmp []compare.Comparator

	head   *tuple.Tuple
	last   *tuple.Tuple
	loaded bool
	done   bool
	closed bool
	pulled int64
}

func newCursor(side Side, s Stream) *cursor {
	return &cursor{side: side, stream: s}
}

// checkOrder enables key order verification using the given key layout.
func (c *cursor) checkOrder(keys []KeyColumn) {
	c.keyIdx = make([]int, len(keys))
	c.keyCmp = make([]compare.Comparator, len(keys))
	for i, k := range keys {
		c.keyIdx[i] = k.Left
		if c.side == SideRight {
			c.keyIdx[i] = k.Right
		}
		c.keyCmp[i] = k.Comparator
	}
}

// peek returns the current head tuple, pulling one from the stream if needed.
// A nil tuple with a nil error means the stream is exhausted.
func (c *cursor) peek(ctx context.Context) (*tuple.Tuple, error) {
	if c.done {
		return nil, nil
	}
	if c.loaded {
		return c.head, nil
	}

	t, err := c.stream.Next(ctx)
	if errors.Is(err, io.EOF) {
		c.done = true
		return nil, nil
	}
	if err != nil {
		return nil, &StreamError{Side: c.side, Op: "next", Err: err}
	}
	if t == nil {
		return nil, &StreamError{Side: c.side, Op: "next", Err: errors.New("stream returned a nil tuple")}
	}

	if c.keyIdx != nil && c.last != nil && c.compareKeys(c.last, t) > 0 {
		return nil, &StreamError{
			Side: c.side,
			Op:   "next",
			Err:  fmt.Errorf("%w: %v after %v", ErrOutOfOrder, keyValues(t, c.keyIdx), keyValues(c.last, c.keyIdx)),
		}
	}

	c.head = t
	c.loaded = true
	c.pulled++
	return t, nil
}

// advance consumes the head tuple.
func (c *cursor) advance() {
	c.last = c.head
	c.head = nil
	c.loaded = false
}

// close closes the stream at most once.
func (c *cursor) close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.stream.Close(); err != nil {
		return &StreamError{Side: c.side, Op: "close", Err: err}
	}
	return nil
}

func (c *cursor) compareKeys(a, b *tuple.Tuple) int {
	for i, idx := range c.keyIdx {
		if r := c.keyCmp[i].Compare(a.At(idx), b.At(idx)); r != 0 {
			return r
		}
	}
	return 0
}

func keyValues(t *tuple.Tuple, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = t.At(j).String()
	}
	return out
}
