package accounts

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier gates access to paid features.
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierPremium SubscriptionTier = "premium"
	TierPro     SubscriptionTier = "pro"
)

// Account represents an athlete account and its recruitment profile.
type Account struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	Email            string           `json:"email" db:"email"`
	PasswordHash     string           `json:"-" db:"password_hash"`
	FirstName        string           `json:"first_name" db:"first_name"`
	LastName         string           `json:"last_name" db:"last_name"`
	Sport            string           `json:"sport" db:"sport"`
	Position         string           `json:"position" db:"position"`
	GraduationYear   int              `json:"graduation_year" db:"graduation_year"`
	School           string           `json:"school" db:"school"`
	Bio              string           `json:"bio" db:"bio"`
	HeightCm         *int             `json:"height_cm,omitempty" db:"height_cm"`
	WeightKg         *int             `json:"weight_kg,omitempty" db:"weight_kg"`
	GPA              *float64         `json:"gpa,omitempty" db:"gpa"`
	ContactEmail     string           `json:"contact_email" db:"contact_email"`
	ProfileImageURL  *string          `json:"profile_image_url,omitempty" db:"profile_image_url"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" db:"subscription_tier"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// PublicProfile is the projection of an account exposed to reviewers
// and recruiters. It never carries contact or billing details.
type PublicProfile struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Sport           string    `json:"sport"`
	Position        string    `json:"position"`
	GraduationYear  int       `json:"graduation_year"`
	School          string    `json:"school"`
	Bio             string    `json:"bio"`
	HeightCm        *int      `json:"height_cm,omitempty"`
	WeightKg        *int      `json:"weight_kg,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
}

// RegisterRequest carries the fields required to create an account.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Sport     string `json:"sport" binding:"required"`
}

// UpdateProfileRequest carries optional profile updates.
type UpdateProfileRequest struct {
	FirstName      *string  `json:"first_name"`
	LastName       *string  `json:"last_name"`
	Sport          *string  `json:"sport"`
	Position       *string  `json:"position"`
	GraduationYear *int     `json:"graduation_year"`
	School         *string  `json:"school"`
	Bio            *string  `json:"bio"`
	HeightCm       *int     `json:"height_cm"`
	WeightKg       *int     `json:"weight_kg"`
	GPA            *float64 `json:"gpa"`
	ContactEmail   *string  `json:"contact_email"`
}

// Public returns the reviewer-facing projection of the account.
func (a *Account) Public() *PublicProfile {
	return &PublicProfile{
		ID:              a.ID,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Sport:           a.Sport,
		Position:        a.Position,
		GraduationYear:  a.GraduationYear,
		School:          a.School,
		Bio:             a.Bio,
		HeightCm:        a.HeightCm,
		WeightKg:        a.WeightKg,
		ProfileImageURL: a.ProfileImageURL,
	}
}

// FullName returns the athlete's display name.
func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}
