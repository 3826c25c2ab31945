package verification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/access"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/mailer"
	"recruitpath/athlete-portal/athlete-portal-backend/pkg/security"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateRequest(ctx context.Context, req *VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockRepository) GetRequestByToken(ctx context.Context, token string) (*VerificationRequest, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationRequest), args.Error(1)
}

func (m *MockRepository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) MarkCancelled(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CompleteRequest(ctx context.Context, requestID uuid.UUID, review *VerifiedReview) (bool, error) {
	args := m.Called(ctx, requestID, review)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListVerifiedReviews(ctx context.Context, athleteID uuid.UUID) ([]VerifiedReview, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]VerifiedReview), args.Error(1)
}

func (m *MockRepository) ListRequestsByAthlete(ctx context.Context, athleteID uuid.UUID) ([]VerificationRequest, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]VerificationRequest), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetAccountByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

type MockPolicy struct {
	mock.Mock
}

func (m *MockPolicy) Allows(ctx context.Context, athleteID uuid.UUID, capability access.Capability) (bool, error) {
	args := m.Called(ctx, athleteID, capability)
	return args.Bool(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to string, kind mailer.TemplateKind, data mailer.TemplateData) error {
	args := m.Called(ctx, to, kind, data)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	repo      *MockRepository
	directory *MockDirectory
	policy    *MockPolicy
	mailer    *MockMailer
	service   *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:      new(MockRepository),
		directory: new(MockDirectory),
		policy:    new(MockPolicy),
		mailer:    new(MockMailer),
	}
	f.service = NewService(f.repo, f.directory, f.policy, f.mailer, "https://app.recruitpath.io", zap.NewNop())
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func proAccount(id uuid.UUID) *accounts.Account {
	return &accounts.Account{
		ID:               id,
		Email:            "jordan@example.com",
		FirstName:        "Jordan",
		LastName:         "Hayes",
		Sport:            "soccer",
		ContactEmail:     "contact@example.com",
		SubscriptionTier: accounts.TierPro,
	}
}

func pendingRequest(athleteID uuid.UUID, token string) *VerificationRequest {
	return &VerificationRequest{
		ID:                uuid.New(),
		VerificationToken: token,
		AthleteID:         athleteID,
		ReviewerName:      "Coach Taylor",
		ReviewerEmail:     "coach@highschool.edu",
		RequestMessage:    "Please verify my season with the varsity squad.",
		Status:            StatusPending,
		CreatedAt:         fixedNow.Add(-time.Hour),
		ExpiresAt:         fixedNow.Add(RequestValidityWindow - time.Hour),
	}
}

func validSubmission() *SubmitReviewInput {
	rating := 5
	recommend := true
	return &SubmitReviewInput{
		ReviewText:     "Outstanding work ethic all season.",
		Rating:         &rating,
		ReviewType:     "coach",
		Relationship:   "head_coach",
		YearsKnown:     "3",
		WouldRecommend: &recommend,
	}
}

func mustToken(t *testing.T) string {
	t.Helper()
	token, err := security.MintToken()
	assert.NoError(t, err)
	return token
}

func TestCreateRequest(t *testing.T) {
	athleteID := uuid.New()
	input := &CreateRequestInput{
		ReviewerName:   "Coach Taylor",
		ReviewerEmail:  "coach@highschool.edu",
		RequestMessage: "Please verify my season.",
	}

	t.Run("mints a pending request with a well-formed token", func(t *testing.T) {
		f := newServiceFixture()
		f.policy.On("Allows", mock.Anything, athleteID, access.CapabilityRequestVerifiedReview).Return(true, nil)
		f.directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)
		f.mailer.On("Send", mock.Anything, "coach@highschool.edu", mailer.TemplateReviewRequest, mock.Anything).Return(nil).Maybe()

		var stored *VerificationRequest
		f.repo.On("CreateRequest", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).(*VerificationRequest)
		}).Return(nil)

		result, err := f.service.CreateRequest(context.Background(), athleteID, athleteID, input)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, fixedNow.Add(RequestValidityWindow), result.ExpiresAt)
		assert.Equal(t, StatusPending, stored.Status)
		assert.True(t, security.IsWellFormedToken(stored.VerificationToken))
		assert.Equal(t, result.VerificationID, stored.ID)
	})

	t.Run("rejects a caller who does not own the profile", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.CreateRequest(context.Background(), uuid.New(), athleteID, input)

		assert.ErrorIs(t, err, ErrUnauthorized)
		f.repo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	})

	t.Run("rejects athletes below the pro tier", func(t *testing.T) {
		f := newServiceFixture()
		f.policy.On("Allows", mock.Anything, athleteID, access.CapabilityRequestVerifiedReview).Return(false, nil)

		_, err := f.service.CreateRequest(context.Background(), athleteID, athleteID, input)

		assert.ErrorIs(t, err, ErrTierRequired)
		f.repo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	})

	t.Run("rejects a missing reviewer email", func(t *testing.T) {
		f := newServiceFixture()
		f.policy.On("Allows", mock.Anything, athleteID, access.CapabilityRequestVerifiedReview).Return(true, nil)
		f.directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)

		_, err := f.service.CreateRequest(context.Background(), athleteID, athleteID, &CreateRequestInput{
			ReviewerName:   "Coach Taylor",
			RequestMessage: "Please verify my season.",
		})

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects self-review regardless of case and whitespace", func(t *testing.T) {
		selfEmails := []string{
			"jordan@example.com",
			"JORDAN@Example.COM",
			"  jordan@example.com  ",
			"Contact@Example.com",
		}
		for _, email := range selfEmails {
			f := newServiceFixture()
			f.policy.On("Allows", mock.Anything, athleteID, access.CapabilityRequestVerifiedReview).Return(true, nil)
			f.directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)

			_, err := f.service.CreateRequest(context.Background(), athleteID, athleteID, &CreateRequestInput{
				ReviewerName:   "Coach Taylor",
				ReviewerEmail:  email,
				RequestMessage: "Please verify my season.",
			})

			assert.ErrorIs(t, err, ErrSelfReview, "email %q should be rejected", email)
			f.repo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
		}
	})

	t.Run("tokens are unique across requests", func(t *testing.T) {
		f := newServiceFixture()
		f.policy.On("Allows", mock.Anything, athleteID, access.CapabilityRequestVerifiedReview).Return(true, nil)
		f.directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)
		f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		seen := make(map[string]bool)
		f.repo.On("CreateRequest", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			token := args.Get(1).(*VerificationRequest).VerificationToken
			assert.False(t, seen[token], "token reuse")
			seen[token] = true
		}).Return(nil)

		for i := 0; i < 50; i++ {
			_, err := f.service.CreateRequest(context.Background(), athleteID, athleteID, input)
			assert.NoError(t, err)
		}
		assert.Len(t, seen, 50)
	})
}

func TestGetRequestByToken(t *testing.T) {
	athleteID := uuid.New()

	t.Run("returns the view and public profile for a live request", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)
		f.directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)

		view, profile, err := f.service.GetRequestByToken(context.Background(), token)

		assert.NoError(t, err)
		assert.Equal(t, req.ID, view.RequestID)
		assert.Equal(t, "Coach Taylor", view.ReviewerName)
		assert.Equal(t, athleteID, profile.ID)
		assert.Equal(t, "Jordan", profile.FirstName)
	})

	t.Run("rejects a malformed token without touching storage", func(t *testing.T) {
		f := newServiceFixture()

		_, _, err := f.service.GetRequestByToken(context.Background(), "not-a-token")

		assert.ErrorIs(t, err, ErrNotFound)
		f.repo.AssertNotCalled(t, "GetRequestByToken", mock.Anything, mock.Anything)
	})

	t.Run("lazily expires an overdue pending request", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		req.ExpiresAt = fixedNow.Add(-time.Minute)
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)
		f.repo.On("MarkExpired", mock.Anything, req.ID).Return(true, nil)

		_, _, err := f.service.GetRequestByToken(context.Background(), token)

		assert.ErrorIs(t, err, ErrExpired)
		f.repo.AssertCalled(t, "MarkExpired", mock.Anything, req.ID)
	})

	t.Run("hides completed and cancelled requests", func(t *testing.T) {
		for _, status := range []RequestStatus{StatusCompleted, StatusCancelled} {
			f := newServiceFixture()
			token := mustToken(t)
			req := pendingRequest(athleteID, token)
			req.Status = status
			f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)

			_, _, err := f.service.GetRequestByToken(context.Background(), token)

			assert.ErrorIs(t, err, ErrNotFound, "status %s", status)
		}
	})
}

func TestSubmitReview(t *testing.T) {
	athleteID := uuid.New()

	t.Run("completes the request and copies reviewer identity", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)
		f.repo.On("CompleteRequest", mock.Anything, req.ID, mock.Anything).Return(true, nil)

		review, err := f.service.SubmitReview(context.Background(), token, validSubmission())

		assert.NoError(t, err)
		assert.True(t, review.IsVerified)
		assert.Equal(t, fixedNow, review.VerifiedAt)
		assert.Equal(t, req.ReviewerName, review.ReviewerName)
		assert.Equal(t, req.ReviewerEmail, review.ReviewerEmail)
		assert.Equal(t, athleteID, review.AthleteID)
	})

	t.Run("loser of a concurrent double submit gets a conflict", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)
		f.repo.On("CompleteRequest", mock.Anything, req.ID, mock.Anything).Return(false, nil)

		_, err := f.service.SubmitReview(context.Background(), token, validSubmission())

		assert.ErrorIs(t, err, ErrAlreadyResolved)
	})

	t.Run("rejects submission on a completed request", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		req.Status = StatusCompleted
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)

		_, err := f.service.SubmitReview(context.Background(), token, validSubmission())

		assert.ErrorIs(t, err, ErrAlreadyResolved)
		f.repo.AssertNotCalled(t, "CompleteRequest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects submission past the validity window", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		req.ExpiresAt = fixedNow.Add(-time.Second)
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)
		f.repo.On("MarkExpired", mock.Anything, req.ID).Return(true, nil)

		_, err := f.service.SubmitReview(context.Background(), token, validSubmission())

		assert.ErrorIs(t, err, ErrExpired)
		f.repo.AssertNotCalled(t, "CompleteRequest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an out-of-range rating", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)

		input := validSubmission()
		bad := 6
		input.Rating = &bad

		_, err := f.service.SubmitReview(context.Background(), token, input)

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects an out-of-range sub-rating", func(t *testing.T) {
		f := newServiceFixture()
		token := mustToken(t)
		req := pendingRequest(athleteID, token)
		f.repo.On("GetRequestByToken", mock.Anything, token).Return(req, nil)

		input := validSubmission()
		zero := 0
		input.Leadership = &zero

		_, err := f.service.SubmitReview(context.Background(), token, input)

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCancelRequest(t *testing.T) {
	athleteID := uuid.New()

	t.Run("cancels a pending request and notifies the reviewer", func(t *testing.T) {
		f := newServiceFixture()
		req := pendingRequest(athleteID, mustToken(t))
		f.repo.On("GetRequestByID", mock.Anything, req.ID).Return(req, nil)
		f.repo.On("MarkCancelled", mock.Anything, req.ID).Return(true, nil)
		f.directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)
		f.mailer.On("Send", mock.Anything, req.ReviewerEmail, mailer.TemplateReviewCancellation, mock.Anything).Return(nil)

		result, err := f.service.CancelRequest(context.Background(), athleteID, req.ID)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.NotifiedCount)
	})

	t.Run("cancellation succeeds even when the notice fails", func(t *testing.T) {
		f := newServiceFixture()
		req := pendingRequest(athleteID, mustToken(t))
		f.repo.On("GetRequestByID", mock.Anything, req.ID).Return(req, nil)
		f.repo.On("MarkCancelled", mock.Anything, req.ID).Return(true, nil)
		f.directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)
		f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		result, err := f.service.CancelRequest(context.Background(), athleteID, req.ID)

		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 0, result.NotifiedCount)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		f := newServiceFixture()
		req := pendingRequest(athleteID, mustToken(t))
		f.repo.On("GetRequestByID", mock.Anything, req.ID).Return(req, nil)

		_, err := f.service.CancelRequest(context.Background(), uuid.New(), req.ID)

		assert.ErrorIs(t, err, ErrUnauthorized)
		f.repo.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything)
	})

	t.Run("terminal requests cannot be cancelled", func(t *testing.T) {
		for _, status := range []RequestStatus{StatusCompleted, StatusCancelled, StatusExpired} {
			f := newServiceFixture()
			req := pendingRequest(athleteID, mustToken(t))
			req.Status = status
			f.repo.On("GetRequestByID", mock.Anything, req.ID).Return(req, nil)

			_, err := f.service.CancelRequest(context.Background(), athleteID, req.ID)

			assert.ErrorIs(t, err, ErrAlreadyProcessed, "status %s", status)
			f.repo.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything)
		}
	})

	t.Run("loser of a concurrent race gets a conflict", func(t *testing.T) {
		f := newServiceFixture()
		req := pendingRequest(athleteID, mustToken(t))
		f.repo.On("GetRequestByID", mock.Anything, req.ID).Return(req, nil)
		f.repo.On("MarkCancelled", mock.Anything, req.ID).Return(false, nil)

		_, err := f.service.CancelRequest(context.Background(), athleteID, req.ID)

		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})
}

// memoryRepo is an in-memory Repository used by the end-to-end scenario
// tests. It enforces the same pending-only transitions the real table does.
type memoryRepo struct {
	requests map[uuid.UUID]*VerificationRequest
	reviews  []VerifiedReview
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{requests: make(map[uuid.UUID]*VerificationRequest)}
}

func (m *memoryRepo) CreateRequest(_ context.Context, req *VerificationRequest) error {
	copied := *req
	m.requests[req.ID] = &copied
	return nil
}

func (m *memoryRepo) GetRequestByID(_ context.Context, id uuid.UUID) (*VerificationRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (m *memoryRepo) GetRequestByToken(_ context.Context, token string) (*VerificationRequest, error) {
	for _, req := range m.requests {
		if req.VerificationToken == token {
			copied := *req
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) MarkExpired(_ context.Context, id uuid.UUID) (bool, error) {
	req, ok := m.requests[id]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	req.Status = StatusExpired
	return true, nil
}

func (m *memoryRepo) MarkCancelled(_ context.Context, id uuid.UUID) (bool, error) {
	req, ok := m.requests[id]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	req.Status = StatusCancelled
	return true, nil
}

func (m *memoryRepo) CompleteRequest(_ context.Context, requestID uuid.UUID, review *VerifiedReview) (bool, error) {
	req, ok := m.requests[requestID]
	if !ok || req.Status != StatusPending {
		return false, nil
	}
	req.Status = StatusCompleted
	req.ReviewID = &review.ID
	req.CompletedAt = &review.VerifiedAt
	m.reviews = append(m.reviews, *review)
	return true, nil
}

func (m *memoryRepo) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	var count int64
	for _, req := range m.requests {
		if req.Status == StatusPending && now.After(req.ExpiresAt) {
			req.Status = StatusExpired
			count++
		}
	}
	return count, nil
}

func (m *memoryRepo) ListVerifiedReviews(_ context.Context, athleteID uuid.UUID) ([]VerifiedReview, error) {
	var out []VerifiedReview
	for _, r := range m.reviews {
		if r.AthleteID == athleteID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListRequestsByAthlete(_ context.Context, athleteID uuid.UUID) ([]VerificationRequest, error) {
	var out []VerificationRequest
	for _, req := range m.requests {
		if req.AthleteID == athleteID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func newScenarioService(t *testing.T, athleteID uuid.UUID, repo *memoryRepo) *Service {
	t.Helper()
	directory := new(MockDirectory)
	directory.On("GetAccountByID", mock.Anything, athleteID).Return(proAccount(athleteID), nil)
	policy := new(MockPolicy)
	policy.On("Allows", mock.Anything, athleteID, access.CapabilityRequestVerifiedReview).Return(true, nil)
	m := new(MockMailer)
	m.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	svc := NewService(repo, directory, policy, m, "https://app.recruitpath.io", zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestVerificationScenarios(t *testing.T) {
	athleteID := uuid.New()
	input := &CreateRequestInput{
		ReviewerName:   "Coach Taylor",
		ReviewerEmail:  "coach@highschool.edu",
		RequestMessage: "Please verify my season.",
	}

	// Create, open the link, submit: the full reviewer journey.
	t.Run("request through submission", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := newScenarioService(t, athleteID, repo)
		ctx := context.Background()

		created, err := svc.CreateRequest(ctx, athleteID, athleteID, input)
		assert.NoError(t, err)

		stored := repo.requests[created.VerificationID]
		assert.Equal(t, StatusPending, stored.Status)

		view, profile, err := svc.GetRequestByToken(ctx, stored.VerificationToken)
		assert.NoError(t, err)
		assert.Equal(t, created.VerificationID, view.RequestID)
		assert.Equal(t, athleteID, profile.ID)

		review, err := svc.SubmitReview(ctx, stored.VerificationToken, validSubmission())
		assert.NoError(t, err)
		assert.True(t, review.IsVerified)
		assert.Equal(t, StatusCompleted, stored.Status)
		assert.Equal(t, review.ID, *stored.ReviewID)

		reviews, err := svc.ListReviews(ctx, athleteID)
		assert.NoError(t, err)
		assert.Len(t, reviews, 1)

		// A second submission on the now-completed request fails and must
		// not mint a second review.
		_, err = svc.SubmitReview(ctx, stored.VerificationToken, validSubmission())
		assert.ErrorIs(t, err, ErrAlreadyResolved)
		assert.Len(t, repo.reviews, 1)
	})

	// Create then cancel: the link dies and stays dead.
	t.Run("request through cancellation", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := newScenarioService(t, athleteID, repo)
		ctx := context.Background()

		created, err := svc.CreateRequest(ctx, athleteID, athleteID, input)
		assert.NoError(t, err)
		stored := repo.requests[created.VerificationID]

		result, err := svc.CancelRequest(ctx, athleteID, created.VerificationID)
		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.NotifiedCount)
		assert.Equal(t, StatusCancelled, stored.Status)

		// The dead link resolves like an unknown token.
		_, _, err = svc.GetRequestByToken(ctx, stored.VerificationToken)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.SubmitReview(ctx, stored.VerificationToken, validSubmission())
		assert.ErrorIs(t, err, ErrNotFound)

		// And cancelling again is rejected.
		_, err = svc.CancelRequest(ctx, athleteID, created.VerificationID)
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
	})
}

func TestSweepExpired(t *testing.T) {
	f := newServiceFixture()
	f.repo.On("SweepExpired", mock.Anything, fixedNow).Return(int64(3), nil)

	count, err := f.service.SweepExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
