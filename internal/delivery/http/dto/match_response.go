package dto

import (
	"loker/internal/usecase"

	"github.com/google/uuid"
)

type MatchResponse struct {
	JobID        uuid.UUID `json:"job_id"`
	Score        int       `json:"score"`
	DisplayScore int       `json:"display_score"`
	Reasons      []string  `json:"reasons"`
}

func NewMatchResponse(m usecase.MatchOutcome) MatchResponse {
	reasons := m.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return MatchResponse{JobID: m.JobID, Score: m.Score, DisplayScore: m.DisplayScore, Reasons: reasons}
}
