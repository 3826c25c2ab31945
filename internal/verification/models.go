package verification

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a verification request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
	StatusExpired   RequestStatus = "expired"
)

// RequestValidityWindow is how long a request stays resolvable after
// creation. Fixed policy; expires_at is set once and never mutated.
const RequestValidityWindow = 7 * 24 * time.Hour

// VerificationRequest is one outstanding or resolved invitation for a
// third party to submit a verified review.
type VerificationRequest struct {
	ID                   uuid.UUID     `json:"id" db:"id"`
	VerificationToken    string        `json:"-" db:"verification_token"`
	AthleteID            uuid.UUID     `json:"athlete_id" db:"athlete_id"`
	ReviewerName         string        `json:"reviewer_name" db:"reviewer_name"`
	ReviewerEmail        string        `json:"reviewer_email" db:"reviewer_email"`
	ReviewerTitle        *string       `json:"reviewer_title,omitempty" db:"reviewer_title"`
	ReviewerOrganization *string       `json:"reviewer_organization,omitempty" db:"reviewer_organization"`
	RequestMessage       string        `json:"request_message" db:"request_message"`
	Status               RequestStatus `json:"status" db:"status"`
	ReviewID             *uuid.UUID    `json:"review_id,omitempty" db:"review_id"`
	CreatedAt            time.Time     `json:"created_at" db:"created_at"`
	ExpiresAt            time.Time     `json:"expires_at" db:"expires_at"`
	CompletedAt          *time.Time    `json:"completed_at,omitempty" db:"completed_at"`
}

// IsExpired reports whether the validity window has passed.
func (r *VerificationRequest) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// SubRatings are the optional structured category ratings a reviewer may
// attach alongside the overall rating.
type SubRatings struct {
	Athleticism  *int `json:"athleticism,omitempty" db:"athleticism"`
	Character    *int `json:"character,omitempty" db:"character"`
	WorkEthic    *int `json:"work_ethic,omitempty" db:"work_ethic"`
	Leadership   *int `json:"leadership,omitempty" db:"leadership"`
	Coachability *int `json:"coachability,omitempty" db:"coachability"`
	Teamwork     *int `json:"teamwork,omitempty" db:"teamwork"`
}

// VerifiedReview is a review authored by a third party through a completed
// verification request. is_verified is the sole differentiator from reviews
// entered directly by the athlete.
type VerifiedReview struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	AthleteID            uuid.UUID `json:"athlete_id" db:"athlete_id"`
	ReviewerName         string    `json:"reviewer_name" db:"reviewer_name"`
	ReviewerEmail        string    `json:"-" db:"reviewer_email"`
	ReviewerTitle        *string   `json:"reviewer_title,omitempty" db:"reviewer_title"`
	ReviewerOrganization *string   `json:"reviewer_organization,omitempty" db:"reviewer_organization"`
	ReviewerPhone        *string   `json:"-" db:"reviewer_phone"`
	ReviewerImageURL     *string   `json:"reviewer_image_url,omitempty" db:"reviewer_image_url"`
	CanContactReviewer   bool      `json:"can_contact_reviewer" db:"can_contact_reviewer"`
	ReviewText           string    `json:"review_text" db:"review_text"`
	Rating               int       `json:"rating" db:"rating"`
	ReviewType           string    `json:"review_type" db:"review_type"`
	Relationship         string    `json:"relationship" db:"relationship"`
	YearsKnown           string    `json:"years_known" db:"years_known"`
	WouldRecommend       bool      `json:"would_recommend" db:"would_recommend"`
	SubRatings
	IsVerified bool      `json:"is_verified" db:"is_verified"`
	VerifiedAt time.Time `json:"verified_at" db:"verified_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CreateRequestInput carries the athlete-supplied fields for a new request.
type CreateRequestInput struct {
	ReviewerName         string  `json:"reviewer_name"`
	ReviewerEmail        string  `json:"reviewer_email"`
	ReviewerTitle        *string `json:"reviewer_title,omitempty"`
	ReviewerOrganization *string `json:"reviewer_organization,omitempty"`
	RequestMessage       string  `json:"request_message"`
}

// CreateRequestResult is returned to the athlete after a request is minted.
type CreateRequestResult struct {
	VerificationID uuid.UUID `json:"verification_id"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// SubmitReviewInput carries the reviewer-supplied payload. Pointer fields
// distinguish "absent" from zero values during validation.
type SubmitReviewInput struct {
	ReviewText         string  `json:"review_text"`
	Rating             *int    `json:"rating"`
	ReviewType         string  `json:"review_type"`
	Relationship       string  `json:"relationship"`
	YearsKnown         string  `json:"years_known"`
	WouldRecommend     *bool   `json:"would_recommend"`
	ReviewerPhone      *string `json:"reviewer_phone,omitempty"`
	ReviewerImageURL   *string `json:"reviewer_image_url,omitempty"`
	CanContactReviewer bool    `json:"can_contact_reviewer"`
	SubRatings         `json:"sub_ratings,omitempty"`
}

// CancelResult is returned to the athlete after a cancellation.
type CancelResult struct {
	Success       bool `json:"success"`
	NotifiedCount int  `json:"notified_count"`
}

// RequestView is the unauthenticated projection served to a reviewer who
// follows a verification link.
type RequestView struct {
	RequestID      uuid.UUID     `json:"request_id"`
	ReviewerName   string        `json:"reviewer_name"`
	RequestMessage string        `json:"request_message"`
	ExpiresAt      time.Time     `json:"expires_at"`
	Status         RequestStatus `json:"status"`
}
