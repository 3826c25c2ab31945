package verification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines verification data access. The pending → completed
// transition is a single conditional update inside one transaction so two
// concurrent submissions for the same token cannot both succeed.
type Repository interface {
	CreateRequest(ctx context.Context, req *VerificationRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error)
	GetRequestByToken(ctx context.Context, token string) (*VerificationRequest, error)

	// MarkExpired transitions a request from pending to expired. Returns
	// false when the request was no longer pending.
	MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkCancelled transitions a request from pending to cancelled.
	// Returns false when the request was no longer pending.
	MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error)

	// CompleteRequest atomically claims the pending request and inserts the
	// verified review. Returns false without writing anything when the
	// request was no longer pending.
	CompleteRequest(ctx context.Context, requestID uuid.UUID, review *VerifiedReview) (bool, error)

	// SweepExpired bulk-expires pending requests whose window has passed.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)

	ListVerifiedReviews(ctx context.Context, athleteID uuid.UUID) ([]VerifiedReview, error)
	ListRequestsByAthlete(ctx context.Context, athleteID uuid.UUID) ([]VerificationRequest, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed verification repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateRequest(ctx context.Context, req *VerificationRequest) error {
	query := `
		INSERT INTO verification_requests (
			id, verification_token, athlete_id, reviewer_name, reviewer_email,
			reviewer_title, reviewer_organization, request_message, status,
			created_at, expires_at
		) VALUES (
			:id, :verification_token, :athlete_id, :reviewer_name, :reviewer_email,
			:reviewer_title, :reviewer_organization, :request_message, :status,
			:created_at, :expires_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, req)
	return err
}

func (r *postgresRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error) {
	var req VerificationRequest
	err := r.db.GetContext(ctx, &req, "SELECT * FROM verification_requests WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &req, err
}

func (r *postgresRepository) GetRequestByToken(ctx context.Context, token string) (*VerificationRequest, error) {
	var req VerificationRequest
	err := r.db.GetContext(ctx, &req, "SELECT * FROM verification_requests WHERE verification_token = $1", token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &req, err
}

func (r *postgresRepository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE verification_requests SET status = $1 WHERE id = $2 AND status = $3",
		StatusExpired, id, StatusPending)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *postgresRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE verification_requests SET status = $1, completed_at = $2 WHERE id = $3 AND status = $4",
		StatusCancelled, time.Now(), id, StatusPending)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

func (r *postgresRepository) CompleteRequest(ctx context.Context, requestID uuid.UUID, review *VerifiedReview) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Claim the request first: the conditional update serializes concurrent
	// submissions on the row lock, and zero rows affected means somebody
	// else already resolved it.
	res, err := tx.ExecContext(ctx,
		"UPDATE verification_requests SET status = $1, completed_at = $2 WHERE id = $3 AND status = $4",
		StatusCompleted, review.VerifiedAt, requestID, StatusPending)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	insert := `
		INSERT INTO verified_reviews (
			id, athlete_id, reviewer_name, reviewer_email, reviewer_title,
			reviewer_organization, reviewer_phone, reviewer_image_url,
			can_contact_reviewer, review_text, rating, review_type, relationship,
			years_known, would_recommend, athleticism, character, work_ethic,
			leadership, coachability, teamwork, is_verified, verified_at, created_at
		) VALUES (
			:id, :athlete_id, :reviewer_name, :reviewer_email, :reviewer_title,
			:reviewer_organization, :reviewer_phone, :reviewer_image_url,
			:can_contact_reviewer, :review_text, :rating, :review_type, :relationship,
			:years_known, :would_recommend, :athleticism, :character, :work_ethic,
			:leadership, :coachability, :teamwork, :is_verified, :verified_at, :created_at
		)`
	if _, err := tx.NamedExecContext(ctx, insert, review); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE verification_requests SET review_id = $1 WHERE id = $2",
		review.ID, requestID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

func (r *postgresRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE verification_requests SET status = $1 WHERE status = $2 AND expires_at < $3",
		StatusExpired, StatusPending, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresRepository) ListVerifiedReviews(ctx context.Context, athleteID uuid.UUID) ([]VerifiedReview, error) {
	var reviews []VerifiedReview
	err := r.db.SelectContext(ctx, &reviews,
		"SELECT * FROM verified_reviews WHERE athlete_id = $1 ORDER BY verified_at DESC", athleteID)
	return reviews, err
}

func (r *postgresRepository) ListRequestsByAthlete(ctx context.Context, athleteID uuid.UUID) ([]VerificationRequest, error) {
	var requests []VerificationRequest
	err := r.db.SelectContext(ctx, &requests,
		"SELECT * FROM verification_requests WHERE athlete_id = $1 ORDER BY created_at DESC", athleteID)
	return requests, err
}
