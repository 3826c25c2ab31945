package consent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("consent record not found")
	ErrAlreadyGranted = errors.New("consent already granted")
)

// Service manages guardian consent and communication preferences.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new consent service and migrates its tables.
func NewService(db *gorm.DB, logger *zap.Logger) (*Service, error) {
	if err := db.AutoMigrate(&GuardianConsent{}, &CommunicationPreference{}); err != nil {
		return nil, fmt.Errorf("failed to migrate consent tables: %w", err)
	}
	return &Service{db: db, logger: logger}, nil
}

// RequestConsent opens a pending consent record for the athlete.
func (s *Service) RequestConsent(ctx context.Context, athleteID uuid.UUID, guardianName, guardianEmail string, form datatypes.JSON) (*GuardianConsent, error) {
	record := &GuardianConsent{
		AthleteID:     athleteID,
		GuardianName:  guardianName,
		GuardianEmail: guardianEmail,
		Status:        ConsentPending,
		FormSnapshot:  form,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create consent record: %w", err)
	}
	return record, nil
}

// GrantConsent marks a pending record granted.
func (s *Service) GrantConsent(ctx context.Context, id uuid.UUID) (*GuardianConsent, error) {
	var record GuardianConsent
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load consent record: %w", err)
	}
	if record.Status == ConsentGranted {
		return nil, ErrAlreadyGranted
	}

	now := time.Now()
	record.Status = ConsentGranted
	record.GrantedAt = &now
	record.RevokedAt = nil
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to grant consent: %w", err)
	}

	s.logger.Info("guardian consent granted",
		zap.String("consent_id", record.ID.String()),
		zap.String("athlete_id", record.AthleteID.String()))
	return &record, nil
}

// RevokeConsent marks a record revoked. Revocation is always allowed.
func (s *Service) RevokeConsent(ctx context.Context, id uuid.UUID) (*GuardianConsent, error) {
	var record GuardianConsent
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load consent record: %w", err)
	}

	now := time.Now()
	record.Status = ConsentRevoked
	record.RevokedAt = &now
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to revoke consent: %w", err)
	}
	return &record, nil
}

// GetConsent returns the athlete's latest consent record, or nil.
func (s *Service) GetConsent(ctx context.Context, athleteID uuid.UUID) (*GuardianConsent, error) {
	var record GuardianConsent
	err := s.db.WithContext(ctx).
		Where("athlete_id = ?", athleteID).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load consent record: %w", err)
	}
	return &record, nil
}

// UpdatePreferences upserts the athlete's communication preferences.
func (s *Service) UpdatePreferences(ctx context.Context, athleteID uuid.UUID, recruiterEmail, productUpdates bool, channels datatypes.JSON) (*CommunicationPreference, error) {
	var pref CommunicationPreference
	err := s.db.WithContext(ctx).
		Where("athlete_id = ?", athleteID).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = CommunicationPreference{AthleteID: athleteID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	pref.RecruiterEmail = recruiterEmail
	pref.ProductUpdates = productUpdates
	if channels != nil {
		pref.Channels = channels
	}
	if err := s.db.WithContext(ctx).Save(&pref).Error; err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return &pref, nil
}
