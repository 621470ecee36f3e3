package usecase

import (
	"context"
	"testing"
	"time"

	"loker/internal/domain/job"
	"loker/internal/domain/location"
	"loker/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_ExplicitFiltersOverrideProfile(t *testing.T) {
	c := profile([]string{"go"}, "31")
	j := posting("Go Engineer", job.WorkTypeOnsite, "32", []string{"go"}, 40*24*time.Hour)
	j.Location.RegencyID = "3201"
	uc := NewMatchUsecase(&fakeJobs{postings: []job.Posting{j}}, newFakeCandidates(c))
	uc.now = func() time.Time { return testNow }

	out, err := uc.Match(context.Background(), c.ID, j.ID, matching.Filters{
		Location: &location.Ref{ProvinceID: "32", RegencyID: "3201"},
	})
	require.NoError(t, err)
	assert.Equal(t, 30, out.Score)
	assert.Equal(t, []string{"Matching skills: go", "Location match: regency, province"}, out.Reasons)

	out, err = uc.Match(context.Background(), c.ID, j.ID, matching.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Score)
}

func TestMatch_NotFound(t *testing.T) {
	c := profile(nil, "")
	uc := NewMatchUsecase(&fakeJobs{}, newFakeCandidates(c))

	_, err := uc.Match(context.Background(), c.ID, uuid.New(), matching.Filters{})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.Match(context.Background(), uuid.Nil, uuid.New(), matching.Filters{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
