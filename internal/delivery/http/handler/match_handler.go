package handler

import (
	"loker/internal/delivery/http/dto"
	"loker/internal/delivery/http/middleware"
	"loker/internal/domain/job"
	"loker/internal/domain/location"
	"loker/internal/domain/matching"
	"loker/internal/pkg/response"
	"loker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchUsecase
}

type matchRequest struct {
	Location    *location.Ref `json:"location"`
	WorkTypes   []string      `json:"work_types"`
	MinSalary   *int64        `json:"min_salary"`
	IndustryIDs []string      `json:"industry_ids"`
}

func NewMatchHandler(uc usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/jobs/:id/match", h.Match)
}

// Match scores one job for the caller. The body is optional.
func (h *MatchHandler) Match(c fiber.Ctx) error {
	candidateID, _, err := callerFrom(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req matchRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}
	f, err := req.filters()
	if err != nil {
		return err
	}

	out, err := h.uc.Match(c.Context(), candidateID, jobID, f)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(out))
}

func (r matchRequest) filters() (matching.Filters, error) {
	f := matching.Filters{
		Location:    r.Location,
		MinSalary:   r.MinSalary,
		IndustryIDs: r.IndustryIDs,
	}
	for _, raw := range r.WorkTypes {
		wt, err := job.ParseWorkType(raw)
		if err != nil {
			return matching.Filters{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid work_types", nil, err)
		}
		f.WorkTypes = append(f.WorkTypes, wt)
	}
	return f, nil
}
