package repository

import (
	"context"

	"loker/internal/database"
	"loker/internal/domain/location"
)

// PostgresLocationRepository backs the three location.LookupFunc entries of
// a location.Directory.
type PostgresLocationRepository struct {
	db database.Querier
}

func NewPostgresLocationRepository(db database.Querier) *PostgresLocationRepository {
	return &PostgresLocationRepository{db: db}
}

func (r *PostgresLocationRepository) Directory() *location.Directory {
	return location.NewDirectory(r.GetProvince, r.GetRegency, r.GetDistrict)
}

func (r *PostgresLocationRepository) GetProvince(ctx context.Context, id string) (location.Area, error) {
	return r.getArea(ctx, `SELECT id, name, '' FROM provinces WHERE id = $1`, id)
}

func (r *PostgresLocationRepository) GetRegency(ctx context.Context, id string) (location.Area, error) {
	return r.getArea(ctx, `SELECT id, name, province_id FROM regencies WHERE id = $1`, id)
}

func (r *PostgresLocationRepository) GetDistrict(ctx context.Context, id string) (location.Area, error) {
	return r.getArea(ctx, `SELECT id, name, regency_id FROM districts WHERE id = $1`, id)
}

func (r *PostgresLocationRepository) getArea(ctx context.Context, query, id string) (location.Area, error) {
	var a location.Area
	if err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.ParentID); err != nil {
		if database.IsNoRows(err) {
			return location.Area{}, location.ErrAreaNotFound
		}
		return location.Area{}, err
	}
	return a, nil
}
