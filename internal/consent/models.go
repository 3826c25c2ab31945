package consent

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConsentStatus is the lifecycle of a guardian consent record.
type ConsentStatus string

const (
	ConsentPending ConsentStatus = "pending"
	ConsentGranted ConsentStatus = "granted"
	ConsentRevoked ConsentStatus = "revoked"
)

// GuardianConsent records a parent or guardian's consent for a minor
// athlete's public profile. The form snapshot is kept as JSON because the
// consent document evolves independently of the schema.
type GuardianConsent struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AthleteID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"athlete_id"`
	GuardianName string         `gorm:"not null" json:"guardian_name"`
	GuardianEmail string        `gorm:"not null" json:"guardian_email"`
	Status       ConsentStatus  `gorm:"not null;default:'pending'" json:"status"`
	FormSnapshot datatypes.JSON `json:"form_snapshot"`
	GrantedAt    *time.Time     `json:"granted_at,omitempty"`
	RevokedAt    *time.Time     `json:"revoked_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// CommunicationPreference stores what the athlete (or guardian) has agreed
// to receive.
type CommunicationPreference struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AthleteID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"athlete_id"`
	RecruiterEmail bool           `gorm:"not null;default:true" json:"recruiter_email"`
	ProductUpdates bool           `gorm:"not null;default:true" json:"product_updates"`
	Channels       datatypes.JSON `json:"channels"`
	UpdatedAt      time.Time      `json:"updated_at"`
	CreatedAt      time.Time      `json:"created_at"`
}
