package verification

import "errors"

// Domain errors surfaced by the engine. Handlers map these to HTTP statuses;
// the distinctions matter for user messaging (an expired link, an invalid
// link and an already-used link all read differently).
var (
	// ErrUnauthorized means the caller is not the owner of the profile.
	ErrUnauthorized = errors.New("caller is not the profile owner")

	// ErrTierRequired means the athlete's subscription tier does not grant
	// the capability.
	ErrTierRequired = errors.New("pro subscription required")

	// ErrValidation wraps malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrSelfReview means the reviewer email matches the athlete's own.
	// Kept distinct from ErrValidation: a self-review defeats the point of
	// third-party verification and gets its own user-facing message.
	ErrSelfReview = errors.New("reviewer email matches the athlete's own address")

	// ErrNotFound means no live pending request matches the token or id.
	ErrNotFound = errors.New("verification request not found")

	// ErrExpired means the token resolved but its validity window has passed.
	ErrExpired = errors.New("verification request has expired")

	// ErrAlreadyResolved means a review was already submitted for the token,
	// including the losing side of a concurrent double submit.
	ErrAlreadyResolved = errors.New("verification request already resolved")

	// ErrAlreadyProcessed means the request left the pending state before a
	// cancellation could apply.
	ErrAlreadyProcessed = errors.New("verification request is no longer pending")
)
