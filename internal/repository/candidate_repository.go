package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loker/internal/database"
	"loker/internal/domain/candidate"
	"loker/internal/domain/job"
	"loker/internal/domain/location"
	"loker/internal/domain/quota"

	"github.com/google/uuid"
)

type CandidateRepository interface {
	GetCandidate(ctx context.Context, id uuid.UUID) (candidate.Profile, error)
	// AppendSavedJob adds one entry in a single write, only while the list
	// is below max and does not already hold the job. ErrConflict means the
	// guard rejected the write.
	AppendSavedJob(ctx context.Context, candidateID uuid.UUID, s candidate.SavedJob, max int) error
	// RemoveSavedJob returns ErrNotFound when the job is not in the list.
	RemoveSavedJob(ctx context.Context, candidateID, jobID uuid.UUID) error
}

type PostgresCandidateRepository struct {
	db database.Querier
}

func NewPostgresCandidateRepository(db database.Querier) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetCandidate(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, full_name, skill_ids,
			COALESCE(province_id, ''), COALESCE(regency_id, ''), COALESCE(district_id, ''),
			work_type_preferences, min_expected_salary, industry_ids, subscription_tier, saved_jobs
		 FROM candidates WHERE id = $1`,
		id,
	)

	var (
		p         candidate.Profile
		loc       location.Ref
		workTypes []string
		tier      string
		savedRaw  []byte
	)
	if err := row.Scan(
		&p.ID, &p.FullName, &p.SkillIDs,
		&loc.ProvinceID, &loc.RegencyID, &loc.DistrictID,
		&workTypes, &p.MinExpectedSalary, &p.IndustryIDs, &tier, &savedRaw,
	); err != nil {
		if database.IsNoRows(err) {
			return candidate.Profile{}, ErrNotFound
		}
		return candidate.Profile{}, err
	}

	if !loc.IsZero() {
		p.Location = &loc
	}
	p.WorkTypePreferences = make([]job.WorkType, 0, len(workTypes))
	for _, wt := range workTypes {
		p.WorkTypePreferences = append(p.WorkTypePreferences, job.WorkType(wt))
	}
	p.Tier = quota.ParseTier(tier)

	saved, err := decodeSavedJobs(savedRaw)
	if err != nil {
		return candidate.Profile{}, fmt.Errorf("decode saved jobs: %w", err)
	}
	p.SavedJobs = saved
	return p, nil
}

func (r *PostgresCandidateRepository) AppendSavedJob(ctx context.Context, candidateID uuid.UUID, s candidate.SavedJob, max int) error {
	entry, err := json.Marshal([]candidate.SavedJob{{JobID: s.JobID, SavedAt: s.SavedAt.UTC()}})
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE candidates
		 SET saved_jobs = saved_jobs || $2::jsonb
		 WHERE id = $1
		   AND jsonb_array_length(saved_jobs) < $3
		   AND NOT saved_jobs @> $4::jsonb`,
		candidateID, string(entry), max, jobContainment(s.JobID),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (r *PostgresCandidateRepository) RemoveSavedJob(ctx context.Context, candidateID, jobID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE candidates
		 SET saved_jobs = COALESCE(
			(SELECT jsonb_agg(e ORDER BY ord)
			 FROM jsonb_array_elements(saved_jobs) WITH ORDINALITY AS t(e, ord)
			 WHERE e->>'job_id' <> $2),
			'[]'::jsonb)
		 WHERE id = $1 AND saved_jobs @> $3::jsonb`,
		candidateID, jobID.String(), jobContainment(jobID),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func jobContainment(jobID uuid.UUID) string {
	return fmt.Sprintf(`[{"job_id":%q}]`, jobID.String())
}

func decodeSavedJobs(raw []byte) ([]candidate.SavedJob, error) {
	out := make([]candidate.SavedJob, 0)
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].SavedAt = out[i].SavedAt.In(time.UTC)
	}
	return out, nil
}
