package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"reconciler/core/reconcile"

	"github.com/fatih/color"
)

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// ShowMatched also prints MATCHED events.
func ShowMatched() ConsoleOption {
	return func(c *Console) { c.showMatched = true }
}

// NoColor disables ANSI colors regardless of the terminal.
func NoColor() ConsoleOption {
	return func(c *Console) {
		for _, col := range []*color.Color{c.header, c.onlyLeft, c.onlyRight, c.broken, c.matched} {
			col.DisableColor()
		}
	}
}

// Console prints events for humans.
type Console struct {
	w           io.Writer
	keys        []string
	showMatched bool

	header    *color.Color
	onlyLeft  *color.Color
	onlyRight *color.Color
	broken    *color.Color
	matched   *color.Color
}

// NewConsole creates a console printer writing to w.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{
		w:         w,
		header:    color.New(color.Bold),
		onlyLeft:  color.New(color.FgYellow),
		onlyRight: color.New(color.FgCyan),
		broken:    color.New(color.FgRed, color.Bold),
		matched:   color.New(color.FgGreen),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleLayout prints what is compared.
func (c *Console) HandleLayout(layout *reconcile.Layout) error {
	c.keys = layout.KeyNames()
	if _, err := c.header.Fprintf(c.w, "key [%s], comparing [%s]\n",
		strings.Join(c.keys, ", "), strings.Join(layout.DataNames(), ", ")); err != nil {
		return err
	}
	if len(layout.LeftOnly) > 0 {
		if _, err := fmt.Fprintf(c.w, "  left only columns: %s\n", strings.Join(columnNames(layout.LeftOnly), ", ")); err != nil {
			return err
		}
	}
	if len(layout.RightOnly) > 0 {
		if _, err := fmt.Fprintf(c.w, "  right only columns: %s\n", strings.Join(columnNames(layout.RightOnly), ", ")); err != nil {
			return err
		}
	}
	return nil
}

// HandleEvent prints one event.
func (c *Console) HandleEvent(_ context.Context, ev reconcile.Event) error {
	key := keyString(ev, c.keys)

	var err error
	switch ev.Kind {
	case reconcile.OnlyLeft:
		_, err = c.onlyLeft.Fprintf(c.w, "< %-10s %s\n", ev.Kind, key)
	case reconcile.OnlyRight:
		_, err = c.onlyRight.Fprintf(c.w, "> %-10s %s\n", ev.Kind, key)
	case reconcile.Matched:
		if c.showMatched {
			_, err = c.matched.Fprintf(c.w, "= %-10s %s\n", ev.Kind, key)
		}
	case reconcile.Break:
		if _, err = c.broken.Fprintf(c.w, "! %-10s %s\n", ev.Kind, key); err != nil {
			return err
		}
		for _, d := range ev.Differences {
			if _, err = fmt.Fprintf(c.w, "    %s: %s -> %s\n", d.Column.Name, display(d.Left), display(d.Right)); err != nil {
				return err
			}
		}
	}
	return err
}

// PrintStats prints a one-line summary.
func (c *Console) PrintStats(s *Stats) error {
	style := c.matched
	if !s.Clean() {
		style = c.broken
	}
	_, err := style.Fprintln(c.w, s.String())
	return err
}
