package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
)

// EventType names a billing provider webhook event.
type EventType string

const (
	EventSubscriptionUpdated  EventType = "subscription.updated"
	EventSubscriptionCanceled EventType = "subscription.canceled"
)

// WebhookEvent is the normalized payload received from the billing provider.
type WebhookEvent struct {
	Type      EventType `json:"type"`
	AccountID uuid.UUID `json:"account_id"`
	Plan      string    `json:"plan"`
}

var (
	ErrUnknownEvent = errors.New("unknown billing event type")
	ErrUnknownPlan  = errors.New("unknown billing plan")
)

// TierWriter applies subscription tier changes to accounts.
type TierWriter interface {
	UpdateSubscriptionTier(ctx context.Context, id uuid.UUID, tier accounts.SubscriptionTier) error
}

// SNSPublisher publishes tier-change events for downstream consumers.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Service applies billing provider events to account tiers. Tier changes
// take effect immediately: access policies read the tier live, so a
// downgrade revokes gated capabilities on the next request.
type Service struct {
	tiers     TierWriter
	publisher SNSPublisher
	topicARN  string
	logger    *zap.Logger
}

// NewService creates a new billing service. publisher may be nil when no
// downstream topic is configured.
func NewService(tiers TierWriter, publisher SNSPublisher, topicARN string, logger *zap.Logger) *Service {
	return &Service{tiers: tiers, publisher: publisher, topicARN: topicARN, logger: logger}
}

// HandleEvent applies one webhook event. The SNS notification is
// best-effort; the tier write is what matters.
func (s *Service) HandleEvent(ctx context.Context, event *WebhookEvent) error {
	tier, err := s.resolveTier(event)
	if err != nil {
		return err
	}

	if err := s.tiers.UpdateSubscriptionTier(ctx, event.AccountID, tier); err != nil {
		return fmt.Errorf("failed to apply tier change: %w", err)
	}

	s.logger.Info("subscription tier updated",
		zap.String("account_id", event.AccountID.String()),
		zap.String("tier", string(tier)),
		zap.String("event", string(event.Type)))

	s.publishTierChange(ctx, event.AccountID, tier)
	return nil
}

func (s *Service) resolveTier(event *WebhookEvent) (accounts.SubscriptionTier, error) {
	switch event.Type {
	case EventSubscriptionCanceled:
		return accounts.TierFree, nil
	case EventSubscriptionUpdated:
		switch event.Plan {
		case "premium":
			return accounts.TierPremium, nil
		case "pro":
			return accounts.TierPro, nil
		case "free":
			return accounts.TierFree, nil
		default:
			return "", fmt.Errorf("%w: %q", ErrUnknownPlan, event.Plan)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
}

func (s *Service) publishTierChange(ctx context.Context, accountID uuid.UUID, tier accounts.SubscriptionTier) {
	if s.publisher == nil || s.topicARN == "" {
		return
	}

	message, err := json.Marshal(map[string]string{
		"account_id": accountID.String(),
		"tier":       string(tier),
		"changed_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	if _, err := s.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(message)),
	}); err != nil {
		s.logger.Warn("failed to publish tier change",
			zap.String("account_id", accountID.String()), zap.Error(err))
	}
}
