package usecase

import (
	"context"
	"errors"
	"time"

	"loker/internal/domain/application"
	"loker/internal/domain/matching"
	"loker/internal/domain/quota"
	"loker/internal/metrics"
	"loker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventApplicationSubmitted = "application_submitted"

// Notifier pushes an event to every live connection of a user.
type Notifier interface {
	NotifyUser(userID uuid.UUID, eventType string, payload any)
}

type ApplicationSubmitted struct {
	ApplicationID uuid.UUID `json:"application_id"`
	JobID         uuid.UUID `json:"job_id"`
	JobTitle      string    `json:"job_title"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	MatchScore    int       `json:"match_score"`
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, candidateID, jobID uuid.UUID) (application.Application, error)
	IsParticipant(ctx context.Context, applicationID, userID uuid.UUID) (bool, error)
}

type Applications struct {
	apps       repository.ApplicationRepository
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

func NewApplicationUsecase(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	notifier Notifier,
	logger *zap.Logger,
) *Applications {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applications{apps: apps, jobs: jobs, candidates: candidates, notifier: notifier, logger: logger, now: time.Now}
}

func (u *Applications) Apply(ctx context.Context, candidateID, jobID uuid.UUID) (application.Application, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return application.Application{}, invalid("candidate id and job id are required")
	}

	c, err := u.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, dependency("load candidate", err)
	}

	j, err := u.jobs.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return application.Application{}, ErrNotFound
		}
		return application.Application{}, dependency("load job", err)
	}
	if !j.IsActive {
		return application.Application{}, ErrNotFound
	}

	exists, err := u.apps.Exists(ctx, c.ID, j.ID)
	if err != nil {
		return application.Application{}, dependency("check application", err)
	}
	if exists {
		metrics.Applications.WithLabelValues("duplicate").Inc()
		return application.Application{}, ErrDuplicate
	}

	count, err := u.apps.CountByCandidate(ctx, c.ID)
	if err != nil {
		return application.Application{}, dependency("count applications", err)
	}
	if max := quota.MaxApplications(c.Tier); count >= max {
		metrics.Applications.WithLabelValues("quota").Inc()
		return application.Application{}, newQuotaExceeded(c.Tier, count, max)
	}

	now := u.now()
	r := matching.Calculate(j, c, scoringFilters(matching.Filters{}, c), now)
	app := application.Application{
		ID:          uuid.New(),
		JobID:       j.ID,
		CandidateID: c.ID,
		MatchScore:  matching.DisplayScore(r.Score),
		Status:      application.StatusSubmitted,
		CreatedAt:   now.UTC(),
	}
	if err := u.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.Applications.WithLabelValues("duplicate").Inc()
			return application.Application{}, ErrDuplicate
		}
		return application.Application{}, dependency("create application", err)
	}
	metrics.Applications.WithLabelValues("submitted").Inc()

	u.logger.Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("job_id", j.ID.String()),
		zap.String("candidate_id", c.ID.String()),
		zap.Int("match_score", app.MatchScore),
	)

	if u.notifier != nil {
		u.notifier.NotifyUser(j.OwnerOrgID, EventApplicationSubmitted, ApplicationSubmitted{
			ApplicationID: app.ID,
			JobID:         j.ID,
			JobTitle:      j.Title,
			CandidateID:   c.ID,
			CandidateName: c.FullName,
			MatchScore:    app.MatchScore,
		})
	}
	return app, nil
}

// IsParticipant reports whether userID is the applicant or the organization
// owning the job of the application.
func (u *Applications) IsParticipant(ctx context.Context, applicationID, userID uuid.UUID) (bool, error) {
	candidateID, orgID, err := u.apps.Participants(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, dependency("load application participants", err)
	}
	return userID == candidateID || userID == orgID, nil
}
