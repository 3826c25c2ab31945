package media

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error)
	ListAssets(ctx context.Context, athleteID uuid.UUID) ([]Asset, error)
	DeleteAsset(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed media repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateAsset(ctx context.Context, asset *Asset) error {
	query := `
		INSERT INTO media_assets (
			id, athlete_id, kind, file_name, content_type, size_bytes,
			storage_key, created_at
		) VALUES (
			:id, :athlete_id, :kind, :file_name, :content_type, :size_bytes,
			:storage_key, :created_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, asset)
	return err
}

func (r *postgresRepository) GetAsset(ctx context.Context, id uuid.UUID) (*Asset, error) {
	var asset Asset
	err := r.db.GetContext(ctx, &asset, "SELECT * FROM media_assets WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &asset, err
}

func (r *postgresRepository) ListAssets(ctx context.Context, athleteID uuid.UUID) ([]Asset, error) {
	var assets []Asset
	err := r.db.SelectContext(ctx, &assets,
		"SELECT * FROM media_assets WHERE athlete_id = $1 ORDER BY created_at DESC", athleteID)
	return assets, err
}

func (r *postgresRepository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM media_assets WHERE id = $1", id)
	return err
}
