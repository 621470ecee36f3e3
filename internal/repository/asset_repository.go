package repository

import (
	"context"

	"loker/internal/database"
	"loker/internal/domain/asset"

	"github.com/google/uuid"
)

type AssetRepository interface {
	GetAsset(ctx context.Context, id uuid.UUID) (asset.Asset, error)
}

type PostgresAssetRepository struct {
	db database.Querier
}

func NewPostgresAssetRepository(db database.Querier) *PostgresAssetRepository {
	return &PostgresAssetRepository{db: db}
}

func (r *PostgresAssetRepository) GetAsset(ctx context.Context, id uuid.UUID) (asset.Asset, error) {
	var (
		a          asset.Asset
		kind       string
		visibility string
	)
	if err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, kind, storage_ref, visibility, created_at FROM assets WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.OwnerID, &kind, &a.StorageRef, &visibility, &a.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return asset.Asset{}, ErrNotFound
		}
		return asset.Asset{}, err
	}
	a.Kind = asset.Kind(kind)
	a.Visibility = asset.Visibility(visibility)
	return a, nil
}
