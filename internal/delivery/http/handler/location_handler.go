package handler

import (
	"loker/internal/pkg/response"
	"loker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type LocationHandler struct {
	uc usecase.LocationUsecase
}

func NewLocationHandler(uc usecase.LocationUsecase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

func (h *LocationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/locations/:level/:id", h.Lookup)
}

func (h *LocationHandler) Lookup(c fiber.Ctx) error {
	area, err := h.uc.Lookup(c.Context(), c.Params("level"), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, area)
}
