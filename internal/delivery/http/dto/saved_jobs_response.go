package dto

import (
	"time"

	"loker/internal/domain/quota"
	"loker/internal/usecase"

	"github.com/google/uuid"
)

type SaveJobResponse struct {
	SavedCount   int    `json:"saved_count"`
	MaxAllowed   int    `json:"max_allowed"`
	Subscription string `json:"subscription"`
}

func NewSaveJobResponse(r usecase.SaveJobResult) SaveJobResponse {
	return SaveJobResponse{SavedCount: r.SavedCount, MaxAllowed: r.MaxAllowed, Subscription: string(r.Subscription)}
}

type UnsaveJobResponse struct {
	SavedCount int `json:"saved_count"`
}

type SavedJobResponse struct {
	JobID   uuid.UUID    `json:"job_id"`
	SavedAt time.Time    `json:"saved_at"`
	Job     *JobResponse `json:"job"`
}

type SavedJobsResponse struct {
	Items             []SavedJobResponse `json:"items"`
	Count             int                `json:"count"`
	MaxAllowed        int                `json:"max_allowed"`
	Subscription      string             `json:"subscription"`
	SubscriptionLabel string             `json:"subscription_label"`
	CanSaveMore       bool               `json:"can_save_more"`
}

func NewSavedJobsResponse(l usecase.SavedJobsList) SavedJobsResponse {
	items := make([]SavedJobResponse, 0, len(l.Items))
	for _, it := range l.Items {
		r := SavedJobResponse{JobID: it.JobID, SavedAt: it.SavedAt}
		if it.Job != nil {
			j := NewJobResponse(*it.Job)
			r.Job = &j
		}
		items = append(items, r)
	}
	return SavedJobsResponse{
		Items:             items,
		Count:             l.Count,
		MaxAllowed:        l.MaxAllowed,
		Subscription:      string(l.Subscription),
		SubscriptionLabel: quota.Label(l.Subscription),
		CanSaveMore:       l.CanSaveMore,
	}
}

// QuotaExceededData is the data payload of a quota rejection.
type QuotaExceededData struct {
	CurrentCount int    `json:"current_count"`
	MaxAllowed   int    `json:"max_allowed"`
	Subscription string `json:"subscription"`
}
