package usecase

import (
	"context"
	"errors"
	"time"

	"loker/internal/domain/matching"
	"loker/internal/repository"

	"github.com/google/uuid"
)

type MatchOutcome struct {
	JobID        uuid.UUID
	Score        int
	DisplayScore int
	Reasons      []string
}

type MatchUsecase interface {
	Match(ctx context.Context, candidateID, jobID uuid.UUID, f matching.Filters) (MatchOutcome, error)
}

type Match struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	now        func() time.Time
}

func NewMatchUsecase(jobs repository.JobRepository, candidates repository.CandidateRepository) *Match {
	return &Match{jobs: jobs, candidates: candidates, now: time.Now}
}

func (u *Match) Match(ctx context.Context, candidateID, jobID uuid.UUID, f matching.Filters) (MatchOutcome, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return MatchOutcome{}, invalid("candidate id and job id are required")
	}

	c, err := u.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MatchOutcome{}, ErrNotFound
		}
		return MatchOutcome{}, dependency("load candidate", err)
	}
	j, err := u.jobs.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MatchOutcome{}, ErrNotFound
		}
		return MatchOutcome{}, dependency("load job", err)
	}

	r := matching.Calculate(j, c, scoringFilters(f, c), u.now())
	return MatchOutcome{
		JobID:        j.ID,
		Score:        r.Score,
		DisplayScore: matching.DisplayScore(r.Score),
		Reasons:      r.Reasons,
	}, nil
}
