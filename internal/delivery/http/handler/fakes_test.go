package handler

import (
	"context"

	"loker/internal/domain/account"
	"loker/internal/domain/application"
	"loker/internal/domain/asset"
	"loker/internal/domain/location"
	"loker/internal/domain/matching"
	"loker/internal/usecase"
	ucauth "loker/internal/usecase/auth"

	"github.com/google/uuid"
)

type fakeFeed struct {
	got  usecase.FeedParams
	page usecase.FeedPage
	err  error
}

func (f *fakeFeed) RankFeed(_ context.Context, p usecase.FeedParams) (usecase.FeedPage, error) {
	f.got = p
	return f.page, f.err
}

type fakeMatch struct {
	gotFilters matching.Filters
	out        usecase.MatchOutcome
	err        error
}

func (f *fakeMatch) Match(_ context.Context, _, jobID uuid.UUID, flt matching.Filters) (usecase.MatchOutcome, error) {
	f.gotFilters = flt
	f.out.JobID = jobID
	return f.out, f.err
}

type fakeSaved struct {
	saveRes   usecase.SaveJobResult
	saveErr   error
	remaining int
	unsaveErr error
	list      usecase.SavedJobsList
}

func (f *fakeSaved) SaveJob(context.Context, uuid.UUID, uuid.UUID) (usecase.SaveJobResult, error) {
	return f.saveRes, f.saveErr
}

func (f *fakeSaved) UnsaveJob(context.Context, uuid.UUID, uuid.UUID) (int, error) {
	return f.remaining, f.unsaveErr
}

func (f *fakeSaved) ListSavedJobs(context.Context, uuid.UUID) (usecase.SavedJobsList, error) {
	return f.list, nil
}

type fakeApply struct {
	app application.Application
	err error
}

func (f *fakeApply) Apply(_ context.Context, candidateID, jobID uuid.UUID) (application.Application, error) {
	if f.err != nil {
		return application.Application{}, f.err
	}
	a := f.app
	a.CandidateID, a.JobID = candidateID, jobID
	return a, nil
}

func (f *fakeApply) IsParticipant(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

type fakeAssets struct {
	got     usecase.LinkRequest
	link    usecase.AccessLink
	linkErr error
	urls    map[string]string
}

func (f *fakeAssets) CanView(context.Context, usecase.Viewer, asset.Asset) (bool, error) {
	return false, nil
}

func (f *fakeAssets) BuildAccessLink(_ context.Context, req usecase.LinkRequest) (usecase.AccessLink, error) {
	f.got = req
	return f.link, f.linkErr
}

func (f *fakeAssets) ResolveToken(_ context.Context, tokenID string) (string, error) {
	u, ok := f.urls[tokenID]
	if !ok {
		return "", usecase.ErrNotFound
	}
	return u, nil
}

type fakeLocations struct{}

func (fakeLocations) Lookup(_ context.Context, level, id string) (location.Area, error) {
	lv, err := location.ParseLevel(level)
	if err != nil {
		return location.Area{}, usecase.ErrInvalidInput
	}
	if id != "31" {
		return location.Area{}, usecase.ErrNotFound
	}
	return location.Area{ID: id, Name: "DKI Jakarta", Level: lv}, nil
}

type fakeAuth struct {
	registerErr error
	acc         account.Account
}

func (f *fakeAuth) Register(_ context.Context, in ucauth.RegisterInput) (account.Account, string, string, error) {
	if f.registerErr != nil {
		return account.Account{}, "", "", f.registerErr
	}
	a := f.acc
	a.Email, a.Role = in.Email, in.Role
	return a, "access", "refresh", nil
}

func (f *fakeAuth) Login(context.Context, ucauth.LoginInput) (account.Account, string, string, error) {
	return account.Account{}, "", "", ucauth.ErrInvalidCredentials
}

func (f *fakeAuth) Refresh(context.Context, string) (string, string, error) {
	return "", "", usecase.ErrRefreshTokenExpired
}
