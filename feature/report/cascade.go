package report

import (
	"context"
	"fmt"

	"reconciler/core/reconcile"

	"go.uber.org/zap"
)

// Cascade forwards each event to its consumers synchronously, in registration
// order. By default the first failure aborts; with ContinueOnError failures
// are logged and the remaining consumers still run.
type Cascade struct {
	consumers       []reconcile.Consumer
	continueOnError bool
	logger          *zap.Logger
}

// NewCascade creates a cascade over consumers.
func NewCascade(consumers ...reconcile.Consumer) *Cascade {
	return &Cascade{consumers: consumers, logger: zap.NewNop()}
}

// Add appends a consumer.
func (c *Cascade) Add(consumer reconcile.Consumer) *Cascade {
	c.consumers = append(c.consumers, consumer)
	return c
}

// ContinueOnError makes the cascade log consumer failures to logger and continue.
func (c *Cascade) ContinueOnError(logger *zap.Logger) *Cascade {
	c.continueOnError = true
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Len returns the number of consumers.
func (c *Cascade) Len() int { return len(c.consumers) }

// HandleLayout forwards the layout to every consumer that wants it.
func (c *Cascade) HandleLayout(layout *reconcile.Layout) error {
	for i, consumer := range c.consumers {
		lc, ok := consumer.(reconcile.LayoutConsumer)
		if !ok {
			continue
		}
		if err := c.handle(i, lc.HandleLayout(layout)); err != nil {
			return err
		}
	}
	return nil
}

// HandleEvent forwards ev to every consumer.
func (c *Cascade) HandleEvent(ctx context.Context, ev reconcile.Event) error {
	for i, consumer := range c.consumers {
		if err := c.handle(i, consumer.HandleEvent(ctx, ev)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cascade) handle(i int, err error) error {
	if err == nil {
		return nil
	}
	if c.continueOnError {
		c.logger.Warn("Consumer failed, continuing", zap.Int("consumer", i), zap.Error(err))
		return nil
	}
	return fmt.Errorf("consumer %d: %w", i, err)
}
