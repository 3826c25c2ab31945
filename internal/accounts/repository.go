package accounts

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines account data access.
type Repository interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error
	UpdateSubscriptionTier(ctx context.Context, id uuid.UUID, tier SubscriptionTier) error
	GetSubscriptionTier(ctx context.Context, id uuid.UUID) (SubscriptionTier, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed account repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateAccount(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, first_name, last_name, sport, position,
			graduation_year, school, bio, height_cm, weight_kg, gpa,
			contact_email, profile_image_url, subscription_tier, created_at, updated_at
		) VALUES (
			:id, :email, :password_hash, :first_name, :last_name, :sport, :position,
			:graduation_year, :school, :bio, :height_cm, :weight_kg, :gpa,
			:contact_email, :profile_image_url, :subscription_tier, :created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, account)
	return err
}

func (r *postgresRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	err := r.db.GetContext(ctx, &account, "SELECT * FROM accounts WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &account, err
}

func (r *postgresRepository) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := r.db.GetContext(ctx, &account, "SELECT * FROM accounts WHERE lower(email) = lower($1)", email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &account, err
}

func (r *postgresRepository) UpdateAccount(ctx context.Context, account *Account) error {
	query := `
		UPDATE accounts SET
			first_name = :first_name,
			last_name = :last_name,
			sport = :sport,
			position = :position,
			graduation_year = :graduation_year,
			school = :school,
			bio = :bio,
			height_cm = :height_cm,
			weight_kg = :weight_kg,
			gpa = :gpa,
			contact_email = :contact_email,
			profile_image_url = :profile_image_url,
			updated_at = :updated_at
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, account)
	return err
}

func (r *postgresRepository) UpdateSubscriptionTier(ctx context.Context, id uuid.UUID, tier SubscriptionTier) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET subscription_tier = $1, updated_at = now() WHERE id = $2", tier, id)
	return err
}

func (r *postgresRepository) GetSubscriptionTier(ctx context.Context, id uuid.UUID) (SubscriptionTier, error) {
	var tier SubscriptionTier
	err := r.db.GetContext(ctx, &tier, "SELECT subscription_tier FROM accounts WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return tier, err
}
