package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/access"
)

var (
	ErrUnauthorized = errors.New("caller is not the profile owner")
	ErrTierRequired = errors.New("premium subscription required")
)

// AccessPolicy gates tier-restricted capabilities.
type AccessPolicy interface {
	Allows(ctx context.Context, athleteID uuid.UUID, capability access.Capability) (bool, error)
}

// Service records interactions and serves tier-gated summaries. Event
// recording is open (anonymous recruiters generate most views); reading the
// numbers back requires premium or pro.
type Service struct {
	events EventStore
	repo   Repository
	policy AccessPolicy
	logger *zap.Logger
}

// NewService creates a new analytics service.
func NewService(events EventStore, repo Repository, policy AccessPolicy, logger *zap.Logger) *Service {
	return &Service{events: events, repo: repo, policy: policy, logger: logger}
}

// Track records one interaction. Failures are logged, never surfaced:
// analytics must not break profile views.
func (s *Service) Track(ctx context.Context, athleteID uuid.UUID, kind EventKind, source string) {
	event := &Event{
		AthleteID:  athleteID,
		OccurredAt: time.Now().UTC(),
		Kind:       kind,
		Source:     source,
	}
	if err := s.events.RecordEvent(ctx, event); err != nil {
		s.logger.Warn("failed to record analytics event",
			zap.String("athlete_id", athleteID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

// ApplyRollup folds counted events into the per-day Postgres rollup.
// Called by the aggregation worker.
func (s *Service) ApplyRollup(ctx context.Context, rollup *DailyRollup) error {
	if err := s.repo.UpsertRollup(ctx, rollup); err != nil {
		return fmt.Errorf("failed to apply rollup: %w", err)
	}
	return nil
}

// GetSummary returns the athlete's analytics over the window. Only the
// owner may read, and only on a premium or pro tier.
func (s *Service) GetSummary(ctx context.Context, callerID, athleteID uuid.UUID, from, to time.Time) (*Summary, error) {
	if callerID != athleteID {
		return nil, ErrUnauthorized
	}

	allowed, err := s.policy.Allows(ctx, athleteID, access.CapabilityViewAnalytics)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate access: %w", err)
	}
	if !allowed {
		return nil, ErrTierRequired
	}

	rollups, err := s.repo.GetRollups(ctx, athleteID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load rollups: %w", err)
	}

	summary := &Summary{
		AthleteID: athleteID,
		From:      from,
		To:        to,
		Days:      rollups,
		Totals:    DailyRollup{AthleteID: athleteID},
	}
	for _, day := range rollups {
		summary.Totals.ProfileViews += day.ProfileViews
		summary.Totals.MediaPlays += day.MediaPlays
		summary.Totals.ContactReveals += day.ContactReveals
	}
	return summary, nil
}
