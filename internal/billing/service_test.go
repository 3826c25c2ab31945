package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
)

type MockTierWriter struct {
	mock.Mock
}

func (m *MockTierWriter) UpdateSubscriptionTier(ctx context.Context, id uuid.UUID, tier accounts.SubscriptionTier) error {
	args := m.Called(ctx, id, tier)
	return args.Error(0)
}

func TestHandleEvent(t *testing.T) {
	accountID := uuid.New()

	cases := []struct {
		name  string
		event WebhookEvent
		tier  accounts.SubscriptionTier
	}{
		{"upgrade to pro", WebhookEvent{Type: EventSubscriptionUpdated, AccountID: accountID, Plan: "pro"}, accounts.TierPro},
		{"upgrade to premium", WebhookEvent{Type: EventSubscriptionUpdated, AccountID: accountID, Plan: "premium"}, accounts.TierPremium},
		{"downgrade to free plan", WebhookEvent{Type: EventSubscriptionUpdated, AccountID: accountID, Plan: "free"}, accounts.TierFree},
		{"cancellation drops to free", WebhookEvent{Type: EventSubscriptionCanceled, AccountID: accountID, Plan: "pro"}, accounts.TierFree},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tiers := new(MockTierWriter)
			tiers.On("UpdateSubscriptionTier", mock.Anything, accountID, tc.tier).Return(nil)

			service := NewService(tiers, nil, "", zap.NewNop())
			err := service.HandleEvent(context.Background(), &tc.event)

			assert.NoError(t, err)
			tiers.AssertExpectations(t)
		})
	}
}

func TestHandleEventRejectsUnknowns(t *testing.T) {
	accountID := uuid.New()
	tiers := new(MockTierWriter)
	service := NewService(tiers, nil, "", zap.NewNop())

	err := service.HandleEvent(context.Background(), &WebhookEvent{
		Type: EventType("subscription.paused"), AccountID: accountID,
	})
	assert.ErrorIs(t, err, ErrUnknownEvent)

	err = service.HandleEvent(context.Background(), &WebhookEvent{
		Type: EventSubscriptionUpdated, AccountID: accountID, Plan: "platinum",
	})
	assert.ErrorIs(t, err, ErrUnknownPlan)

	tiers.AssertNotCalled(t, "UpdateSubscriptionTier", mock.Anything, mock.Anything, mock.Anything)
}
