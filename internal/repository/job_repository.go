package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loker/internal/database"
	"loker/internal/domain/job"
	"loker/internal/domain/location"

	"github.com/google/uuid"
)

// FeedQuery describes the job-feed selection. The base part (active jobs,
// exclusions, keyword) always applies; Personalized adds the broadened
// "relevant to this candidate" clause on top of it.
type FeedQuery struct {
	ExcludeJobIDs []uuid.UUID
	Keyword       string
	Personalized  *PersonalizedClause
}

// PersonalizedClause matches a job when it needs one of SkillIDs, is remote,
// sits in ProvinceID, or requires no skills at all.
type PersonalizedClause struct {
	SkillIDs   []string
	ProvinceID string
}

type JobRepository interface {
	GetJob(ctx context.Context, id uuid.UUID) (job.Posting, error)
	ListJobsByIDs(ctx context.Context, ids []uuid.UUID) ([]job.Posting, error)
	CountFeed(ctx context.Context, q FeedQuery) (int, error)
	ListFeed(ctx context.Context, q FeedQuery, limit, offset int) ([]job.Posting, error)
}

type PostgresJobRepository struct {
	db database.Querier
}

func NewPostgresJobRepository(db database.Querier) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobSelect = `SELECT j.id, j.owner_org_id, o.name, o.industry_ids, j.title, j.work_type,
	COALESCE(j.province_id, ''), COALESCE(j.regency_id, ''), COALESCE(j.district_id, ''),
	j.required_skill_ids,
	ARRAY(SELECT COALESCE(s.name, u.id)
	      FROM unnest(j.required_skill_ids) WITH ORDINALITY AS u(id, ord)
	      LEFT JOIN skills s ON s.id = u.id
	      ORDER BY u.ord),
	j.salary_min, j.salary_max, j.salary_currency, j.is_active, j.created_at
 FROM jobs j
 JOIN organizations o ON o.id = j.owner_org_id`

func (r *PostgresJobRepository) GetJob(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	row := r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id)
	p, err := scanPosting(row)
	if err != nil {
		if database.IsNoRows(err) {
			return job.Posting{}, ErrNotFound
		}
		return job.Posting{}, err
	}
	return p, nil
}

func (r *PostgresJobRepository) ListJobsByIDs(ctx context.Context, ids []uuid.UUID) ([]job.Posting, error) {
	if len(ids) == 0 {
		return []job.Posting{}, nil
	}
	rows, err := r.db.Query(ctx, jobSelect+` WHERE j.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collectPostings(rows)
}

func (r *PostgresJobRepository) CountFeed(ctx context.Context, q FeedQuery) (int, error) {
	where, args := buildFeedWhere(q)
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM jobs j JOIN organizations o ON o.id = j.owner_org_id WHERE `+where,
		args...,
	)
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresJobRepository) ListFeed(ctx context.Context, q FeedQuery, limit, offset int) ([]job.Posting, error) {
	where, args := buildFeedWhere(q)
	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`%s WHERE %s ORDER BY j.created_at DESC, j.id ASC LIMIT $%d OFFSET $%d`, jobSelect, where, n+1, n+2),
		args...,
	)
	if err != nil {
		return nil, err
	}
	return collectPostings(rows)
}

func buildFeedWhere(q FeedQuery) (string, []any) {
	conds := []string{"j.is_active = true"}
	args := make([]any, 0, 4)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(q.ExcludeJobIDs) > 0 {
		conds = append(conds, "NOT (j.id = ANY("+next(q.ExcludeJobIDs)+"))")
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		p := next("%" + escapeLike(kw) + "%")
		conds = append(conds, "(j.title ILIKE "+p+" OR o.name ILIKE "+p+")")
	}
	if pc := q.Personalized; pc != nil {
		ors := []string{"j.work_type = 'remote'", "cardinality(j.required_skill_ids) = 0"}
		if len(pc.SkillIDs) > 0 {
			ors = append([]string{"j.required_skill_ids && " + next(pc.SkillIDs) + "::text[]"}, ors...)
		}
		if pc.ProvinceID != "" {
			ors = append(ors, "j.province_id = "+next(pc.ProvinceID))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	return strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func collectPostings(rows database.Rows) ([]job.Posting, error) {
	defer rows.Close()

	out := make([]job.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPosting(row database.Row) (job.Posting, error) {
	var (
		p          job.Posting
		workType   string
		loc        location.Ref
		skillIDs   []string
		skillNames []string
		salaryMin  *int64
		salaryMax  *int64
		currency   string
		createdAt  time.Time
	)
	if err := row.Scan(
		&p.ID, &p.OwnerOrgID, &p.OrgName, &p.OrgIndustryIDs, &p.Title, &workType,
		&loc.ProvinceID, &loc.RegencyID, &loc.DistrictID,
		&skillIDs, &skillNames,
		&salaryMin, &salaryMax, &currency, &p.IsActive, &createdAt,
	); err != nil {
		return job.Posting{}, err
	}

	p.WorkType = job.WorkType(workType)
	if !loc.IsZero() {
		p.Location = &loc
	}
	p.RequiredSkills = make([]job.Skill, 0, len(skillIDs))
	for i, id := range skillIDs {
		name := id
		if i < len(skillNames) && skillNames[i] != "" {
			name = skillNames[i]
		}
		p.RequiredSkills = append(p.RequiredSkills, job.Skill{ID: id, Name: name})
	}
	if salaryMin != nil || salaryMax != nil {
		p.Salary = &job.SalaryRange{Currency: currency}
		if salaryMin != nil {
			p.Salary.Min = *salaryMin
		}
		if salaryMax != nil {
			p.Salary.Max = *salaryMax
		}
	}
	p.CreatedAt = createdAt.UTC()
	return p, nil
}
