package access

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
)

// Capability names a tier-gated feature.
type Capability string

const (
	CapabilityRequestVerifiedReview Capability = "request_verified_review"
	CapabilityViewAnalytics         Capability = "view_analytics"
)

// TierReader reads an athlete's current subscription tier.
type TierReader interface {
	GetSubscriptionTier(ctx context.Context, id uuid.UUID) (accounts.SubscriptionTier, error)
}

// Policy decides whether an athlete may use a tier-gated capability.
// The tier is read live on every call so a billing downgrade revokes the
// capability immediately. Already-pending verification requests remain
// resolvable regardless: resolving is a reviewer action and never consults
// the policy.
type Policy struct {
	tiers TierReader
}

// NewPolicy creates a new access policy
func NewPolicy(tiers TierReader) *Policy {
	return &Policy{tiers: tiers}
}

// Allows reports whether the athlete's current tier grants the capability.
func (p *Policy) Allows(ctx context.Context, athleteID uuid.UUID, capability Capability) (bool, error) {
	tier, err := p.tiers.GetSubscriptionTier(ctx, athleteID)
	if err != nil {
		return false, fmt.Errorf("failed to read subscription tier: %w", err)
	}

	switch capability {
	case CapabilityRequestVerifiedReview:
		return tier == accounts.TierPro, nil
	case CapabilityViewAnalytics:
		return tier == accounts.TierPremium || tier == accounts.TierPro, nil
	default:
		return false, nil
	}
}
