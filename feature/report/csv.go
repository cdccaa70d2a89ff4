package report

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"reconciler/core/reconcile"
)

// CSVOption configures a CSVWriter.
type CSVOption func(*CSVWriter)

// IncludeMatched also writes a row for every MATCHED event.
func IncludeMatched() CSVOption {
	return func(w *CSVWriter) { w.includeMatched = true }
}

// CSVWriter writes events as CSV: event, key columns..., column, left, right.
// A BREAK produces one row per differing column.
type CSVWriter struct {
	w              *csv.Writer
	keys           []string
	includeMatched bool
	ready          bool
}

// NewCSVWriter creates a writer. Call Flush after the run.
func NewCSVWriter(w io.Writer, opts ...CSVOption) *CSVWriter {
	cw := &CSVWriter{w: csv.NewWriter(w)}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

// HandleLayout writes the header.
func (cw *CSVWriter) HandleLayout(layout *reconcile.Layout) error {
	cw.keys = layout.KeyNames()
	header := append([]string{"event"}, cw.keys...)
	header = append(header, "column", "left", "right")
	cw.ready = true
	return cw.w.Write(header)
}

// HandleEvent writes the rows for one event.
func (cw *CSVWriter) HandleEvent(_ context.Context, ev reconcile.Event) error {
	if !cw.ready {
		return errors.New("csv writer received an event before the layout")
	}

	switch ev.Kind {
	case reconcile.OnlyLeft, reconcile.OnlyRight:
		return cw.write(ev, "", "", "")
	case reconcile.Matched:
		if cw.includeMatched {
			return cw.write(ev, "", "", "")
		}
	case reconcile.Break:
		for _, d := range ev.Differences {
			if err := cw.write(ev, d.Column.Name, d.Left.String(), d.Right.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cw *CSVWriter) write(ev reconcile.Event, column, left, right string) error {
	record := append([]string{ev.Kind.String()}, keyValues(ev, cw.keys)...)
	record = append(record, column, left, right)
	return cw.w.Write(record)
}

// Flush writes buffered rows to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
