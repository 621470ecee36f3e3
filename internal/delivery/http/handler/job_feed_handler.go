package handler

import (
	"strconv"
	"strings"

	"loker/internal/delivery/http/dto"
	"loker/internal/delivery/http/middleware"
	"loker/internal/domain/job"
	"loker/internal/domain/location"
	"loker/internal/domain/matching"
	"loker/internal/pkg/response"
	"loker/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobFeedHandler struct {
	uc usecase.JobFeedUsecase
}

func NewJobFeedHandler(uc usecase.JobFeedUsecase) *JobFeedHandler {
	return &JobFeedHandler{uc: uc}
}

func (h *JobFeedHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/feed", h.Feed)
}

// Feed handles GET /jobs/feed.
func (h *JobFeedHandler) Feed(c fiber.Ctx) error {
	candidateID, _, err := callerFrom(c)
	if err != nil {
		return err
	}

	params, err := feedParamsFromQuery(c, candidateID)
	if err != nil {
		return err
	}

	page, err := h.uc.RankFeed(c.Context(), params)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobFeedResponse(page))
}

func feedParamsFromQuery(c fiber.Ctx, candidateID uuid.UUID) (usecase.FeedParams, error) {
	p := usecase.FeedParams{
		CandidateID: candidateID,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		SkillIDs:    csvQuery(c, "skills"),
	}

	var err error
	if p.Page, err = intQuery(c, "page"); err != nil {
		return usecase.FeedParams{}, err
	}
	if p.Limit, err = intQuery(c, "limit"); err != nil {
		return usecase.FeedParams{}, err
	}
	if p.Filters, err = filtersFromQuery(c); err != nil {
		return usecase.FeedParams{}, err
	}
	return p, nil
}

func filtersFromQuery(c fiber.Ctx) (matching.Filters, error) {
	var f matching.Filters

	for _, raw := range csvQuery(c, "work_type") {
		wt, err := job.ParseWorkType(raw)
		if err != nil {
			return matching.Filters{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid work_type", nil, err)
		}
		f.WorkTypes = append(f.WorkTypes, wt)
	}
	f.IndustryIDs = csvQuery(c, "industries")

	loc := location.Ref{
		ProvinceID: strings.TrimSpace(c.Query("province_id")),
		RegencyID:  strings.TrimSpace(c.Query("regency_id")),
		DistrictID: strings.TrimSpace(c.Query("district_id")),
	}
	if !loc.IsZero() {
		f.Location = &loc
	}

	if raw := strings.TrimSpace(c.Query("min_salary")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return matching.Filters{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_salary", nil, err)
		}
		f.MinSalary = &v
	}
	return f, nil
}
