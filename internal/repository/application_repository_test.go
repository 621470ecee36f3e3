package repository

import (
	"context"
	"testing"
	"time"

	"loker/internal/database/sqldb"
	"loker/internal/domain/application"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApplicationRepo(t *testing.T) (*PostgresApplicationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresApplicationRepository(sqldb.Wrap(db)), mock
}

func TestAppliedJobIDs(t *testing.T) {
	repo, mock := newApplicationRepo(t)
	cid, a, b := uuid.New(), uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT job_id FROM applications").
		WithArgs(cid).
		WillReturnRows(sqlmock.NewRows([]string{"job_id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := repo.AppliedJobIDs(context.Background(), cid)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestCreate_UniqueViolationIsDuplicate(t *testing.T) {
	repo, mock := newApplicationRepo(t)
	app := application.Application{
		ID:          uuid.New(),
		JobID:       uuid.New(),
		CandidateID: uuid.New(),
		MatchScore:  64,
		Status:      application.StatusSubmitted,
		CreatedAt:   time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), app)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestHasOrganizationLink(t *testing.T) {
	repo, mock := newApplicationRepo(t)
	cid, oid := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT EXISTS \(\s+SELECT 1 FROM applications a`).
		WithArgs(cid, oid).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasOrganizationLink(context.Background(), cid, oid)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParticipants_NotFound(t *testing.T) {
	repo, mock := newApplicationRepo(t)
	mock.ExpectQuery("SELECT a.candidate_id, j.owner_org_id").
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "owner_org_id"}))

	_, _, err := repo.Participants(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
