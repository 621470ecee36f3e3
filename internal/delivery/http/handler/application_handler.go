package handler

import (
	"loker/internal/delivery/http/dto"
	"loker/internal/pkg/response"
	"loker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/jobs/:id/applications", h.Apply)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	candidateID, _, err := callerFrom(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	app, err := h.uc.Apply(c.Context(), candidateID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewApplicationResponse(app))
}
