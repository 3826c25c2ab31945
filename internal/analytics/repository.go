package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository reads and writes the Postgres rollup table.
type Repository interface {
	UpsertRollup(ctx context.Context, rollup *DailyRollup) error
	GetRollups(ctx context.Context, athleteID uuid.UUID, from, to time.Time) ([]DailyRollup, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed rollup repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) UpsertRollup(ctx context.Context, rollup *DailyRollup) error {
	query := `
		INSERT INTO analytics_daily_rollups (
			athlete_id, day, profile_views, media_plays, contact_reveals
		) VALUES (
			:athlete_id, :day, :profile_views, :media_plays, :contact_reveals
		)
		ON CONFLICT (athlete_id, day) DO UPDATE SET
			profile_views = analytics_daily_rollups.profile_views + EXCLUDED.profile_views,
			media_plays = analytics_daily_rollups.media_plays + EXCLUDED.media_plays,
			contact_reveals = analytics_daily_rollups.contact_reveals + EXCLUDED.contact_reveals`
	_, err := r.db.NamedExecContext(ctx, query, rollup)
	return err
}

func (r *postgresRepository) GetRollups(ctx context.Context, athleteID uuid.UUID, from, to time.Time) ([]DailyRollup, error) {
	var rollups []DailyRollup
	err := r.db.SelectContext(ctx, &rollups, `
		SELECT * FROM analytics_daily_rollups
		WHERE athlete_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day`, athleteID, from, to)
	return rollups, err
}
