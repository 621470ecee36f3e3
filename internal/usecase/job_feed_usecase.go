package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"loker/internal/domain/candidate"
	"loker/internal/domain/job"
	"loker/internal/domain/matching"
	"loker/internal/metrics"
	"loker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StrategyAllActive      = "all_active"
	StrategyExcludeApplied = "exclude_applied"
	StrategyUserBased      = "user_based"
	StrategyNoActiveJobs   = "no_active_jobs"
)

type FeedParams struct {
	CandidateID uuid.UUID
	Keyword     string
	SkillIDs    []string
	Filters     matching.Filters
	Page        int
	Limit       int
}

// HasExplicitFilters reports whether the caller narrowed the feed. Any
// explicit filter turns personalization off.
func (p FeedParams) HasExplicitFilters() bool {
	return strings.TrimSpace(p.Keyword) != "" || len(p.SkillIDs) > 0 || !p.Filters.IsEmpty()
}

type AnnotatedJob struct {
	Job          job.Posting
	MatchScore   int
	DisplayScore int
	Reasons      []string
	IsSaved      bool
	CanSaveMore  bool
}

type FeedPage struct {
	Jobs           []AnnotatedJob
	Total          int
	Page           int
	Limit          int
	TotalPages     int
	HasNextPage    bool
	HasPrevPage    bool
	SearchStrategy string
	IsFiltered     bool
}

type JobFeedUsecase interface {
	RankFeed(ctx context.Context, p FeedParams) (FeedPage, error)
}

type JobFeed struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	apps       repository.ApplicationRepository
	logger     *zap.Logger

	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

func NewJobFeedUsecase(
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	apps repository.ApplicationRepository,
	defaultLimit, maxLimit int,
	logger *zap.Logger,
) *JobFeed {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if maxLimit <= 0 {
		maxLimit = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobFeed{
		jobs:         jobs,
		candidates:   candidates,
		apps:         apps,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          time.Now,
	}
}

func (u *JobFeed) RankFeed(ctx context.Context, p FeedParams) (FeedPage, error) {
	start := time.Now()
	defer func() { metrics.FeedDuration.Observe(time.Since(start).Seconds()) }()

	if p.CandidateID == uuid.Nil {
		return FeedPage{}, invalid("candidate id is required")
	}
	page, limit, err := u.pagination(p.Page, p.Limit)
	if err != nil {
		return FeedPage{}, err
	}

	c, err := u.candidates.GetCandidate(ctx, p.CandidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return FeedPage{}, ErrNotFound
		}
		return FeedPage{}, dependency("load candidate", err)
	}

	applied, err := u.apps.AppliedJobIDs(ctx, c.ID)
	if err != nil {
		return FeedPage{}, dependency("load applied jobs", err)
	}

	explicit := p.HasExplicitFilters()
	query, total, strategy, err := u.selectQuery(ctx, c, applied, strings.TrimSpace(p.Keyword), explicit)
	if err != nil {
		return FeedPage{}, err
	}

	out := FeedPage{
		Jobs:           []AnnotatedJob{},
		Total:          total,
		Page:           page,
		Limit:          limit,
		TotalPages:     (total + limit - 1) / limit,
		SearchStrategy: strategy,
		IsFiltered:     explicit,
	}
	out.HasNextPage = page < out.TotalPages
	out.HasPrevPage = page > 1
	metrics.FeedRequests.WithLabelValues(strategy).Inc()

	if total == 0 {
		return out, nil
	}

	postings, err := u.jobs.ListFeed(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return FeedPage{}, dependency("fetch jobs", err)
	}

	filters := scoringFilters(p.Filters, c)
	now := u.now()
	canSaveMore := c.CanSaveMore()
	for _, j := range postings {
		r := matching.Calculate(j, c, filters, now)
		out.Jobs = append(out.Jobs, AnnotatedJob{
			Job:          j,
			MatchScore:   r.Score,
			DisplayScore: matching.DisplayScore(r.Score),
			Reasons:      r.Reasons,
			IsSaved:      c.HasSaved(j.ID),
			CanSaveMore:  canSaveMore,
		})
	}
	sort.SliceStable(out.Jobs, func(i, k int) bool {
		return out.Jobs[i].MatchScore > out.Jobs[k].MatchScore
	})

	u.logger.Debug("feed ranked",
		zap.String("candidate_id", c.ID.String()),
		zap.String("strategy", strategy),
		zap.Int("total", total),
		zap.Int("page", page),
		zap.Int("returned", len(out.Jobs)),
	)
	return out, nil
}

// selectQuery picks the feed query and counts it. Without explicit filters
// the personalized query is tried first and dropped when it matches nothing.
func (u *JobFeed) selectQuery(ctx context.Context, c candidate.Profile, applied []uuid.UUID, keyword string, explicit bool) (repository.FeedQuery, int, string, error) {
	base := repository.FeedQuery{ExcludeJobIDs: applied, Keyword: keyword}

	if !explicit {
		personalized := base
		personalized.Personalized = &repository.PersonalizedClause{SkillIDs: c.SkillIDs}
		if c.Location != nil {
			personalized.Personalized.ProvinceID = c.Location.ProvinceID
		}
		n, err := u.jobs.CountFeed(ctx, personalized)
		if err != nil {
			return repository.FeedQuery{}, 0, "", dependency("count personalized jobs", err)
		}
		if n > 0 {
			return personalized, n, StrategyUserBased, nil
		}
	}

	n, err := u.jobs.CountFeed(ctx, base)
	if err != nil {
		return repository.FeedQuery{}, 0, "", dependency("count jobs", err)
	}
	switch {
	case n == 0:
		return base, 0, StrategyNoActiveJobs, nil
	case len(applied) > 0:
		return base, n, StrategyExcludeApplied, nil
	default:
		return base, n, StrategyAllActive, nil
	}
}

func (u *JobFeed) pagination(page, limit int) (int, int, error) {
	if page < 0 {
		return 0, 0, invalid("page must not be negative")
	}
	if limit < 0 {
		return 0, 0, invalid("limit must not be negative")
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = u.defaultLimit
	}
	if limit > u.maxLimit {
		limit = u.maxLimit
	}
	return page, limit, nil
}
