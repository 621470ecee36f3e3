package repository

import (
	"context"

	"loker/internal/database"
	"loker/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	AppliedJobIDs(ctx context.Context, candidateID uuid.UUID) ([]uuid.UUID, error)
	CountByCandidate(ctx context.Context, candidateID uuid.UUID) (int, error)
	Exists(ctx context.Context, candidateID, jobID uuid.UUID) (bool, error)
	Create(ctx context.Context, a application.Application) error
	// HasOrganizationLink reports whether the candidate applied to any job
	// owned by the organization.
	HasOrganizationLink(ctx context.Context, candidateID, orgID uuid.UUID) (bool, error)
	Participants(ctx context.Context, applicationID uuid.UUID) (candidateID, orgID uuid.UUID, err error)
}

type PostgresApplicationRepository struct {
	db database.Querier
}

func NewPostgresApplicationRepository(db database.Querier) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) AppliedJobIDs(ctx context.Context, candidateID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT job_id FROM applications WHERE candidate_id = $1 ORDER BY created_at ASC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) CountByCandidate(ctx context.Context, candidateID uuid.UUID) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM applications WHERE candidate_id = $1`,
		candidateID,
	).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresApplicationRepository) Exists(ctx context.Context, candidateID, jobID uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE candidate_id = $1 AND job_id = $2)`,
		candidateID, jobID,
	).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, candidate_id, match_score, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.JobID, a.CandidateID, a.MatchScore, string(a.Status), a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PostgresApplicationRepository) HasOrganizationLink(ctx context.Context, candidateID, orgID uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM applications a
			JOIN jobs j ON j.id = a.job_id
			WHERE a.candidate_id = $1 AND j.owner_org_id = $2
		)`,
		candidateID, orgID,
	).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *PostgresApplicationRepository) Participants(ctx context.Context, applicationID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	var candidateID, orgID uuid.UUID
	if err := r.db.QueryRow(ctx,
		`SELECT a.candidate_id, j.owner_org_id
		 FROM applications a JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = $1`,
		applicationID,
	).Scan(&candidateID, &orgID); err != nil {
		if database.IsNoRows(err) {
			return uuid.Nil, uuid.Nil, ErrNotFound
		}
		return uuid.Nil, uuid.Nil, err
	}
	return candidateID, orgID, nil
}
