package dto

import "loker/internal/usecase"

type FeedJobResponse struct {
	JobResponse
	// MatchScore is the clamped percentage, RawScore is the sort key.
	MatchScore   int      `json:"match_score"`
	RawScore     int      `json:"raw_score"`
	MatchReasons []string `json:"match_reasons"`
	IsSaved      bool     `json:"is_saved"`
	CanSaveMore  bool     `json:"can_save_more"`
}

type PaginationResponse struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"total_pages"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

type JobFeedResponse struct {
	Jobs           []FeedJobResponse  `json:"jobs"`
	Pagination     PaginationResponse `json:"pagination"`
	SearchStrategy string             `json:"search_strategy"`
	IsFiltered     bool               `json:"is_filtered"`
}

func NewJobFeedResponse(p usecase.FeedPage) JobFeedResponse {
	jobs := make([]FeedJobResponse, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		jobs = append(jobs, FeedJobResponse{
			JobResponse:  NewJobResponse(j.Job),
			MatchScore:   j.DisplayScore,
			RawScore:     j.MatchScore,
			MatchReasons: j.Reasons,
			IsSaved:      j.IsSaved,
			CanSaveMore:  j.CanSaveMore,
		})
	}
	return JobFeedResponse{
		Jobs: jobs,
		Pagination: PaginationResponse{
			Total:       p.Total,
			Page:        p.Page,
			Limit:       p.Limit,
			TotalPages:  p.TotalPages,
			HasNextPage: p.HasNextPage,
			HasPrevPage: p.HasPrevPage,
		},
		SearchStrategy: p.SearchStrategy,
		IsFiltered:     p.IsFiltered,
	}
}
