package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"loker/internal/domain/application"
	"loker/internal/domain/asset"
	"loker/internal/domain/candidate"
	"loker/internal/domain/job"
	"loker/internal/repository"

	"github.com/google/uuid"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeJobs struct {
	postings []job.Posting
	countErr error
	listErr  error

	countCalls []repository.FeedQuery
	listCalls  int
}

func (f *fakeJobs) GetJob(_ context.Context, id uuid.UUID) (job.Posting, error) {
	for _, p := range f.postings {
		if p.ID == id {
			return p, nil
		}
	}
	return job.Posting{}, repository.ErrNotFound
}

func (f *fakeJobs) ListJobsByIDs(_ context.Context, ids []uuid.UUID) ([]job.Posting, error) {
	out := make([]job.Posting, 0, len(ids))
	for _, id := range ids {
		for _, p := range f.postings {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeJobs) CountFeed(_ context.Context, q repository.FeedQuery) (int, error) {
	f.countCalls = append(f.countCalls, q)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.match(q)), nil
}

func (f *fakeJobs) ListFeed(_ context.Context, q repository.FeedQuery, limit, offset int) ([]job.Posting, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := f.match(q)
	if offset >= len(all) {
		return []job.Posting{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// match mirrors the SQL of the Postgres repository, newest first.
func (f *fakeJobs) match(q repository.FeedQuery) []job.Posting {
	excluded := make(map[uuid.UUID]bool, len(q.ExcludeJobIDs))
	for _, id := range q.ExcludeJobIDs {
		excluded[id] = true
	}
	kw := strings.ToLower(strings.TrimSpace(q.Keyword))

	out := make([]job.Posting, 0)
	for _, p := range f.postings {
		if !p.IsActive || excluded[p.ID] {
			continue
		}
		if kw != "" && !strings.Contains(strings.ToLower(p.Title), kw) && !strings.Contains(strings.ToLower(p.OrgName), kw) {
			continue
		}
		if pc := q.Personalized; pc != nil && !personalizedMatch(p, pc) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

func personalizedMatch(p job.Posting, pc *repository.PersonalizedClause) bool {
	if p.WorkType == job.WorkTypeRemote || len(p.RequiredSkills) == 0 {
		return true
	}
	if pc.ProvinceID != "" && p.Location != nil && p.Location.ProvinceID == pc.ProvinceID {
		return true
	}
	for _, s := range p.RequiredSkills {
		for _, id := range pc.SkillIDs {
			if s.ID == id {
				return true
			}
		}
	}
	return false
}

type fakeCandidates struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]candidate.Profile
	getErr   error
	// beforeAppend runs inside AppendSavedJob to simulate a concurrent writer.
	beforeAppend func(p *candidate.Profile)
}

func newFakeCandidates(ps ...candidate.Profile) *fakeCandidates {
	f := &fakeCandidates{profiles: map[uuid.UUID]candidate.Profile{}}
	for _, p := range ps {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeCandidates) GetCandidate(_ context.Context, id uuid.UUID) (candidate.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return candidate.Profile{}, f.getErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return candidate.Profile{}, repository.ErrNotFound
	}
	p.SavedJobs = append([]candidate.SavedJob(nil), p.SavedJobs...)
	return p, nil
}

func (f *fakeCandidates) AppendSavedJob(_ context.Context, id uuid.UUID, s candidate.SavedJob, max int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return repository.ErrConflict
	}
	if f.beforeAppend != nil {
		f.beforeAppend(&p)
		f.profiles[id] = p
	}
	if len(p.SavedJobs) >= max || p.HasSaved(s.JobID) {
		return repository.ErrConflict
	}
	p.SavedJobs = append(p.SavedJobs, s)
	f.profiles[id] = p
	return nil
}

func (f *fakeCandidates) RemoveSavedJob(_ context.Context, id, jobID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok || !p.HasSaved(jobID) {
		return repository.ErrNotFound
	}
	kept := make([]candidate.SavedJob, 0, len(p.SavedJobs))
	for _, s := range p.SavedJobs {
		if s.JobID != jobID {
			kept = append(kept, s)
		}
	}
	p.SavedJobs = kept
	f.profiles[id] = p
	return nil
}

type fakeApps struct {
	jobs      *fakeJobs
	items     []application.Application
	createErr error
}

func (f *fakeApps) AppliedJobIDs(_ context.Context, candidateID uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0)
	for _, a := range f.items {
		if a.CandidateID == candidateID {
			out = append(out, a.JobID)
		}
	}
	return out, nil
}

func (f *fakeApps) CountByCandidate(ctx context.Context, candidateID uuid.UUID) (int, error) {
	ids, _ := f.AppliedJobIDs(ctx, candidateID)
	return len(ids), nil
}

func (f *fakeApps) Exists(_ context.Context, candidateID, jobID uuid.UUID) (bool, error) {
	for _, a := range f.items {
		if a.CandidateID == candidateID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApps) Create(_ context.Context, a application.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, a)
	return nil
}

func (f *fakeApps) HasOrganizationLink(ctx context.Context, candidateID, orgID uuid.UUID) (bool, error) {
	for _, a := range f.items {
		if a.CandidateID != candidateID {
			continue
		}
		p, err := f.jobs.GetJob(ctx, a.JobID)
		if err == nil && p.OwnerOrgID == orgID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApps) Participants(ctx context.Context, applicationID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	for _, a := range f.items {
		if a.ID != applicationID {
			continue
		}
		p, err := f.jobs.GetJob(ctx, a.JobID)
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		return a.CandidateID, p.OwnerOrgID, nil
	}
	return uuid.Nil, uuid.Nil, repository.ErrNotFound
}

type fakeAssets map[uuid.UUID]asset.Asset

func (f fakeAssets) GetAsset(_ context.Context, id uuid.UUID) (asset.Asset, error) {
	a, ok := f[id]
	if !ok {
		return asset.Asset{}, repository.ErrNotFound
	}
	return a, nil
}

type fakeTokens struct {
	byID  map[string]asset.AccessToken
	saves int
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byID: map[string]asset.AccessToken{}}
}

func (f *fakeTokens) Save(_ context.Context, t asset.AccessToken) error {
	f.byID[t.ID] = t
	f.saves++
	return nil
}

func (f *fakeTokens) Get(_ context.Context, id string) (asset.AccessToken, bool, error) {
	t, ok := f.byID[id]
	return t, ok, nil
}

// LatestValid does not prune, so expired records stay visible to Get.
func (f *fakeTokens) LatestValid(_ context.Context, assetID uuid.UUID, now time.Time) (asset.AccessToken, bool, error) {
	var (
		best  asset.AccessToken
		found bool
	)
	for _, t := range f.byID {
		if t.AssetID != assetID || !t.ExpiresAt.After(now) {
			continue
		}
		if !found || t.ExpiresAt.After(best.ExpiresAt) {
			best, found = t, true
		}
	}
	return best, found, nil
}

type notification struct {
	userID    uuid.UUID
	eventType string
	payload   any
}

type fakeNotifier struct {
	sent []notification
}

func (f *fakeNotifier) NotifyUser(userID uuid.UUID, eventType string, payload any) {
	f.sent = append(f.sent, notification{userID: userID, eventType: eventType, payload: payload})
}
