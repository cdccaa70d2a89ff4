package job

import (
	"context"
	"errors"
	"time"

	"reconciler/core/logger"
	"reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the comparison job.
type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. A zero timeout leaves requests unbounded.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Post("/", h.HandleCompare)
	group.Get("/layout", h.HandleLayout)
	group.Delete("/cache", h.HandleInvalidate)
}

func (h *Handler) context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Context())
	}
	return context.WithTimeout(c.Context(), h.timeout)
}

// HandleCompare runs the comparison and returns statistics and differences.
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	result, cached, err := h.service.Compare(ctx, c.QueryBool("refresh"))
	if err != nil {
		l.Error("Comparison failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if cached {
		c.Set("X-Cache", "HIT")
	} else {
		c.Set("X-Cache", "MISS")
	}
	return c.JSON(result)
}

// HandleLayout returns the validated layout.
func (h *Handler) HandleLayout(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx, cancel := h.context(c)
	defer cancel()

	layout, err := h.service.Layout(ctx)
	if err != nil {
		l.Error("Layout validation failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(NewLayoutView(layout))
}

// HandleInvalidate drops the cached result.
func (h *Handler) HandleInvalidate(c *fiber.Ctx) error {
	h.service.cache.invalidate()
	return c.SendStatus(fiber.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrConfiguration):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, reconcile.ErrStream):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
