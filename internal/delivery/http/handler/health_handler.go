package handler

import (
	"context"
	"sort"
	"time"

	"loker/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger reports whether a backing service answers.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := fiber.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "unhealthy", results)
	}
	return response.Success(c, status, response.MessageOK, results)
}
