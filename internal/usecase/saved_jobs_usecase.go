package usecase

import (
	"context"
	"errors"
	"time"

	"loker/internal/domain/candidate"
	"loker/internal/domain/job"
	"loker/internal/domain/quota"
	"loker/internal/metrics"
	"loker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SaveJobResult struct {
	SavedCount   int
	MaxAllowed   int
	Subscription quota.Tier
}

type SavedJobItem struct {
	JobID   uuid.UUID
	SavedAt time.Time
	// Job is nil when the posting no longer exists.
	Job *job.Posting
}

type SavedJobsList struct {
	Items        []SavedJobItem
	Count        int
	MaxAllowed   int
	Subscription quota.Tier
	CanSaveMore  bool
}

type SavedJobsUsecase interface {
	SaveJob(ctx context.Context, candidateID, jobID uuid.UUID) (SaveJobResult, error)
	UnsaveJob(ctx context.Context, candidateID, jobID uuid.UUID) (int, error)
	ListSavedJobs(ctx context.Context, candidateID uuid.UUID) (SavedJobsList, error)
}

type SavedJobs struct {
	candidates repository.CandidateRepository
	jobs       repository.JobRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewSavedJobsUsecase(candidates repository.CandidateRepository, jobs repository.JobRepository, logger *zap.Logger) *SavedJobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedJobs{candidates: candidates, jobs: jobs, logger: logger, now: time.Now}
}

func (u *SavedJobs) SaveJob(ctx context.Context, candidateID, jobID uuid.UUID) (SaveJobResult, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return SaveJobResult{}, invalid("candidate id and job id are required")
	}

	c, err := u.loadCandidate(ctx, candidateID)
	if err != nil {
		return SaveJobResult{}, err
	}
	if err := u.checkSavable(c, jobID); err != nil {
		return SaveJobResult{}, err
	}

	j, err := u.jobs.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.SavedJobRejections.WithLabelValues("not_found").Inc()
			return SaveJobResult{}, ErrNotFound
		}
		return SaveJobResult{}, dependency("load job", err)
	}
	if !j.IsActive {
		metrics.SavedJobRejections.WithLabelValues("not_found").Inc()
		return SaveJobResult{}, ErrNotFound
	}

	max := quota.MaxSavedJobs(c.Tier)
	entry := candidate.SavedJob{JobID: jobID, SavedAt: u.now().UTC()}
	if err := u.candidates.AppendSavedJob(ctx, c.ID, entry, max); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return SaveJobResult{}, dependency("append saved job", err)
		}
		// A concurrent write changed the list between our read and the
		// guarded update; report against the current state.
		latest, lerr := u.loadCandidate(ctx, candidateID)
		if lerr != nil {
			return SaveJobResult{}, lerr
		}
		if cerr := u.checkSavable(latest, jobID); cerr != nil {
			return SaveJobResult{}, cerr
		}
		return SaveJobResult{}, dependency("append saved job", err)
	}

	u.logger.Info("job saved",
		zap.String("candidate_id", c.ID.String()),
		zap.String("job_id", jobID.String()),
	)
	return SaveJobResult{SavedCount: len(c.SavedJobs) + 1, MaxAllowed: max, Subscription: c.Tier}, nil
}

// checkSavable applies the quota and duplicate rules, in that order.
func (u *SavedJobs) checkSavable(c candidate.Profile, jobID uuid.UUID) error {
	if !quota.CanSave(c.Tier, len(c.SavedJobs)) {
		metrics.SavedJobRejections.WithLabelValues("quota").Inc()
		return newQuotaExceeded(c.Tier, len(c.SavedJobs), quota.MaxSavedJobs(c.Tier))
	}
	if c.HasSaved(jobID) {
		metrics.SavedJobRejections.WithLabelValues("duplicate").Inc()
		return ErrDuplicate
	}
	return nil
}

// UnsaveJob returns the number of saved jobs left.
func (u *SavedJobs) UnsaveJob(ctx context.Context, candidateID, jobID uuid.UUID) (int, error) {
	if candidateID == uuid.Nil || jobID == uuid.Nil {
		return 0, invalid("candidate id and job id are required")
	}

	c, err := u.loadCandidate(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	if !c.HasSaved(jobID) {
		return 0, ErrNotFound
	}
	if err := u.candidates.RemoveSavedJob(ctx, c.ID, jobID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, dependency("remove saved job", err)
	}
	return len(c.SavedJobs) - 1, nil
}

func (u *SavedJobs) ListSavedJobs(ctx context.Context, candidateID uuid.UUID) (SavedJobsList, error) {
	if candidateID == uuid.Nil {
		return SavedJobsList{}, invalid("candidate id is required")
	}

	c, err := u.loadCandidate(ctx, candidateID)
	if err != nil {
		return SavedJobsList{}, err
	}

	ids := make([]uuid.UUID, 0, len(c.SavedJobs))
	for _, s := range c.SavedJobs {
		ids = append(ids, s.JobID)
	}
	postings, err := u.jobs.ListJobsByIDs(ctx, ids)
	if err != nil {
		return SavedJobsList{}, dependency("load saved jobs", err)
	}
	byID := make(map[uuid.UUID]job.Posting, len(postings))
	for _, p := range postings {
		byID[p.ID] = p
	}

	items := make([]SavedJobItem, 0, len(c.SavedJobs))
	for _, s := range c.SavedJobs {
		it := SavedJobItem{JobID: s.JobID, SavedAt: s.SavedAt}
		if p, ok := byID[s.JobID]; ok {
			p := p
			it.Job = &p
		}
		items = append(items, it)
	}

	return SavedJobsList{
		Items:        items,
		Count:        len(c.SavedJobs),
		MaxAllowed:   quota.MaxSavedJobs(c.Tier),
		Subscription: c.Tier,
		CanSaveMore:  c.CanSaveMore(),
	}, nil
}

func (u *SavedJobs) loadCandidate(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	c, err := u.candidates.GetCandidate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return candidate.Profile{}, ErrNotFound
		}
		return candidate.Profile{}, dependency("load candidate", err)
	}
	return c, nil
}
