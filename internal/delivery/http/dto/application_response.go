package dto

import (
	"time"

	"loker/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	MatchScore  int       `json:"match_score"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		CandidateID: a.CandidateID,
		MatchScore:  a.MatchScore,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}
