package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	CandidateID uuid.UUID
	MatchScore  int
	Status      Status
	CreatedAt   time.Time
}
