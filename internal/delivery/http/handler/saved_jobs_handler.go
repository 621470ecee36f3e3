package handler

import (
	"loker/internal/delivery/http/dto"
	"loker/internal/pkg/response"
	"loker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SavedJobsHandler struct {
	uc usecase.SavedJobsUsecase
}

func NewSavedJobsHandler(uc usecase.SavedJobsUsecase) *SavedJobsHandler {
	return &SavedJobsHandler{uc: uc}
}

func (h *SavedJobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/me/saved-jobs", h.List)
	r.Post("/me/saved-jobs/:jobId", h.Save)
	r.Delete("/me/saved-jobs/:jobId", h.Unsave)
}

func (h *SavedJobsHandler) List(c fiber.Ctx) error {
	candidateID, _, err := callerFrom(c)
	if err != nil {
		return err
	}

	list, err := h.uc.ListSavedJobs(c.Context(), candidateID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSavedJobsResponse(list))
}

func (h *SavedJobsHandler) Save(c fiber.Ctx) error {
	candidateID, _, err := callerFrom(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}

	res, err := h.uc.SaveJob(c.Context(), candidateID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewSaveJobResponse(res))
}

func (h *SavedJobsHandler) Unsave(c fiber.Ctx) error {
	candidateID, _, err := callerFrom(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}

	remaining, err := h.uc.UnsaveJob(c.Context(), candidateID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.UnsaveJobResponse{SavedCount: remaining})
}
