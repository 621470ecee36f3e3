package repository

import (
	"context"
	"testing"

	"loker/internal/database/sqldb"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFeedWhere_BaseOnly(t *testing.T) {
	where, args := buildFeedWhere(FeedQuery{})
	assert.Equal(t, "j.is_active = true", where)
	assert.Empty(t, args)
}

func TestBuildFeedWhere_ExcludeAndKeyword(t *testing.T) {
	ex := []uuid.UUID{uuid.New()}
	where, args := buildFeedWhere(FeedQuery{ExcludeJobIDs: ex, Keyword: "  go_dev 100% "})

	assert.Equal(t,
		"j.is_active = true AND NOT (j.id = ANY($1)) AND (j.title ILIKE $2 OR o.name ILIKE $2)",
		where,
	)
	require.Len(t, args, 2)
	assert.Equal(t, ex, args[0])
	assert.Equal(t, `%go\_dev 100\%%`, args[1])
}

func TestBuildFeedWhere_Personalized(t *testing.T) {
	where, args := buildFeedWhere(FeedQuery{
		Personalized: &PersonalizedClause{SkillIDs: []string{"go", "sql"}, ProvinceID: "31"},
	})

	assert.Equal(t,
		"j.is_active = true AND (j.required_skill_ids && $1::text[] OR j.work_type = 'remote' OR cardinality(j.required_skill_ids) = 0 OR j.province_id = $2)",
		where,
	)
	assert.Equal(t, []any{[]string{"go", "sql"}, "31"}, args)
}

func TestBuildFeedWhere_PersonalizedWithoutSkillsOrProvince(t *testing.T) {
	where, args := buildFeedWhere(FeedQuery{Personalized: &PersonalizedClause{}})
	assert.Equal(t,
		"j.is_active = true AND (j.work_type = 'remote' OR cardinality(j.required_skill_ids) = 0)",
		where,
	)
	assert.Empty(t, args)
}

func TestCountFeed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(1\) FROM jobs j JOIN organizations o`).
		WithArgs("%backend%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewPostgresJobRepository(sqldb.Wrap(db))
	n, err := repo.CountFeed(context.Background(), FeedQuery{Keyword: "backend"})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListJobsByIDs_EmptySkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresJobRepository(sqldb.Wrap(db))
	out, err := repo.ListJobsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
