package verification

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/access"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/mailer"
	"recruitpath/athlete-portal/athlete-portal-backend/pkg/security"
	"recruitpath/athlete-portal/athlete-portal-backend/pkg/workflows"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// lifecycle holds the request state graph: pending fans out to the three
// terminal states and nothing leaves a terminal state.
var lifecycle = workflows.NewStateMachine()

// AccountDirectory resolves athlete accounts for ownership checks and
// email templating.
type AccountDirectory interface {
	GetAccountByID(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
}

// AccessPolicy gates tier-restricted capabilities.
type AccessPolicy interface {
	Allows(ctx context.Context, athleteID uuid.UUID, capability access.Capability) (bool, error)
}

// Service orchestrates the verified-review workflow: athletes mint
// time-bound requests, unauthenticated reviewers resolve them through the
// token link, and every request ends in exactly one terminal state.
type Service struct {
	repo      Repository
	directory AccountDirectory
	policy    AccessPolicy
	mailer    mailer.Mailer
	publicURL string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new verification service. publicURL is the external
// base URL reviewer links are built against.
func NewService(repo Repository, directory AccountDirectory, policy AccessPolicy, m mailer.Mailer, publicURL string, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		policy:    policy,
		mailer:    m,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateRequest mints a pending verification request on behalf of the
// athlete. The caller must own the profile and hold the pro tier. The
// reviewer email goes out on a goroutine; a delivery failure is logged and
// never unwinds the created request.
func (s *Service) CreateRequest(ctx context.Context, callerID, athleteID uuid.UUID, input *CreateRequestInput) (*CreateRequestResult, error) {
	if callerID != athleteID {
		return nil, ErrUnauthorized
	}

	allowed, err := s.policy.Allows(ctx, athleteID, access.CapabilityRequestVerifiedReview)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate access: %w", err)
	}
	if !allowed {
		return nil, ErrTierRequired
	}

	account, err := s.directory.GetAccountByID(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, ErrNotFound
	}

	if err := s.validateCreateInput(account, input); err != nil {
		return nil, err
	}

	token, err := security.MintToken()
	if err != nil {
		return nil, fmt.Errorf("failed to mint verification token: %w", err)
	}

	now := s.now()
	req := &VerificationRequest{
		ID:                   uuid.New(),
		VerificationToken:    token,
		AthleteID:            athleteID,
		ReviewerName:         strings.TrimSpace(input.ReviewerName),
		ReviewerEmail:        strings.TrimSpace(input.ReviewerEmail),
		ReviewerTitle:        input.ReviewerTitle,
		ReviewerOrganization: input.ReviewerOrganization,
		RequestMessage:       strings.TrimSpace(input.RequestMessage),
		Status:               StatusPending,
		CreatedAt:            now,
		ExpiresAt:            now.Add(RequestValidityWindow),
	}

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to persist verification request: %w", err)
	}

	go s.sendRequestEmail(req, account)

	s.logger.Info("verification request created",
		zap.String("request_id", req.ID.String()),
		zap.String("athlete_id", athleteID.String()))

	return &CreateRequestResult{VerificationID: req.ID, ExpiresAt: req.ExpiresAt}, nil
}

// GetRequestByToken resolves a reviewer's link. Expiry is evaluated lazily:
// a pending request past its window is transitioned to expired here before
// the error is surfaced. Completed and cancelled requests are
// indistinguishable from unknown tokens.
func (s *Service) GetRequestByToken(ctx context.Context, token string) (*RequestView, *accounts.PublicProfile, error) {
	if !security.IsWellFormedToken(token) {
		return nil, nil, ErrNotFound
	}

	req, err := s.repo.GetRequestByToken(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up verification request: %w", err)
	}
	if req == nil {
		return nil, nil, ErrNotFound
	}

	switch req.Status {
	case StatusPending:
		if req.IsExpired(s.now()) {
			if _, err := s.repo.MarkExpired(ctx, req.ID); err != nil {
				s.logger.Warn("failed to mark request expired",
					zap.String("request_id", req.ID.String()), zap.Error(err))
			}
			return nil, nil, ErrExpired
		}
	case StatusExpired:
		return nil, nil, ErrExpired
	default:
		return nil, nil, ErrNotFound
	}

	account, err := s.directory.GetAccountByID(ctx, req.AthleteID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load athlete profile: %w", err)
	}
	if account == nil {
		return nil, nil, ErrNotFound
	}

	view := &RequestView{
		RequestID:      req.ID,
		ReviewerName:   req.ReviewerName,
		RequestMessage: req.RequestMessage,
		ExpiresAt:      req.ExpiresAt,
		Status:         req.Status,
	}
	return view, account.Public(), nil
}

// SubmitReview resolves a pending request into a verified review. The
// transition is atomic: if the request left the pending state between the
// read and the write, the losing caller gets ErrAlreadyResolved and no
// review is stored.
func (s *Service) SubmitReview(ctx context.Context, token string, input *SubmitReviewInput) (*VerifiedReview, error) {
	if !security.IsWellFormedToken(token) {
		return nil, ErrNotFound
	}

	req, err := s.repo.GetRequestByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up verification request: %w", err)
	}
	if req == nil {
		return nil, ErrNotFound
	}

	now := s.now()
	switch req.Status {
	case StatusPending:
		if req.IsExpired(now) {
			if _, err := s.repo.MarkExpired(ctx, req.ID); err != nil {
				s.logger.Warn("failed to mark request expired",
					zap.String("request_id", req.ID.String()), zap.Error(err))
			}
			return nil, ErrExpired
		}
	case StatusExpired:
		return nil, ErrExpired
	case StatusCompleted:
		return nil, ErrAlreadyResolved
	default:
		return nil, ErrNotFound
	}

	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	// Reviewer identity is copied from the request at submission time, not
	// taken from the payload. The link itself is the proof of identity.
	review := &VerifiedReview{
		ID:                   uuid.New(),
		AthleteID:            req.AthleteID,
		ReviewerName:         req.ReviewerName,
		ReviewerEmail:        req.ReviewerEmail,
		ReviewerTitle:        req.ReviewerTitle,
		ReviewerOrganization: req.ReviewerOrganization,
		ReviewerPhone:        input.ReviewerPhone,
		ReviewerImageURL:     input.ReviewerImageURL,
		CanContactReviewer:   input.CanContactReviewer,
		ReviewText:           strings.TrimSpace(input.ReviewText),
		Rating:               *input.Rating,
		ReviewType:           input.ReviewType,
		Relationship:         input.Relationship,
		YearsKnown:           input.YearsKnown,
		WouldRecommend:       *input.WouldRecommend,
		SubRatings:           input.SubRatings,
		IsVerified:           true,
		VerifiedAt:           now,
		CreatedAt:            now,
	}

	claimed, err := s.repo.CompleteRequest(ctx, req.ID, review)
	if err != nil {
		return nil, fmt.Errorf("failed to complete verification request: %w", err)
	}
	if !claimed {
		return nil, ErrAlreadyResolved
	}

	s.logger.Info("verified review submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("review_id", review.ID.String()),
		zap.String("athlete_id", req.AthleteID.String()))

	return review, nil
}

// CancelRequest withdraws a pending request. Only the owning athlete may
// cancel, and only while the request is still pending. The reviewer notice
// is sent inline so the notified count in the result is accurate, but a
// delivery failure never fails the cancellation.
func (s *Service) CancelRequest(ctx context.Context, callerID, requestID uuid.UUID) (*CancelResult, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up verification request: %w", err)
	}
	if req == nil {
		return nil, ErrNotFound
	}
	if req.AthleteID != callerID {
		return nil, ErrUnauthorized
	}
	if !lifecycle.CanTransition(string(req.Status), string(StatusCancelled)) {
		return nil, ErrAlreadyProcessed
	}

	cancelled, err := s.repo.MarkCancelled(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel verification request: %w", err)
	}
	if !cancelled {
		return nil, ErrAlreadyProcessed
	}

	notified := 0
	account, err := s.directory.GetAccountByID(ctx, req.AthleteID)
	if err != nil || account == nil {
		s.logger.Warn("skipping cancellation notice, athlete lookup failed",
			zap.String("request_id", requestID.String()), zap.Error(err))
	} else {
		data := mailer.TemplateData{
			ReviewerName: req.ReviewerName,
			AthleteName:  account.FullName(),
		}
		if err := s.mailer.Send(ctx, req.ReviewerEmail, mailer.TemplateReviewCancellation, data); err != nil {
			s.logger.Warn("failed to send cancellation notice",
				zap.String("request_id", requestID.String()), zap.Error(err))
		} else {
			notified = 1
		}
	}

	s.logger.Info("verification request cancelled",
		zap.String("request_id", requestID.String()),
		zap.Int("notified", notified))

	return &CancelResult{Success: true, NotifiedCount: notified}, nil
}

// ListReviews returns the verified reviews published on an athlete profile.
func (s *Service) ListReviews(ctx context.Context, athleteID uuid.UUID) ([]VerifiedReview, error) {
	reviews, err := s.repo.ListVerifiedReviews(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified reviews: %w", err)
	}
	return reviews, nil
}

// ListRequests returns the athlete's own requests in every state.
func (s *Service) ListRequests(ctx context.Context, callerID, athleteID uuid.UUID) ([]VerificationRequest, error) {
	if callerID != athleteID {
		return nil, ErrUnauthorized
	}
	requests, err := s.repo.ListRequestsByAthlete(ctx, athleteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list verification requests: %w", err)
	}
	return requests, nil
}

// SweepExpired bulk-expires overdue pending requests. Called from the
// background worker; lazy expiry on read covers anything the sweep misses.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.SweepExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired requests: %w", err)
	}
	if count > 0 {
		s.logger.Info("expired verification requests", zap.Int64("count", count))
	}
	return count, nil
}

func (s *Service) validateCreateInput(account *accounts.Account, input *CreateRequestInput) error {
	name := strings.TrimSpace(input.ReviewerName)
	email := strings.TrimSpace(input.ReviewerEmail)
	message := strings.TrimSpace(input.RequestMessage)

	if name == "" {
		return fmt.Errorf("%w: reviewer_name is required", ErrValidation)
	}
	if email == "" {
		return fmt.Errorf("%w: reviewer_email is required", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: reviewer_email is not a valid address", ErrValidation)
	}
	if message == "" {
		return fmt.Errorf("%w: request_message is required", ErrValidation)
	}

	// Comparison is case- and whitespace-insensitive against both the login
	// address and the public contact address.
	normalized := strings.ToLower(email)
	if normalized == strings.ToLower(strings.TrimSpace(account.Email)) {
		return ErrSelfReview
	}
	if contact := strings.ToLower(strings.TrimSpace(account.ContactEmail)); contact != "" && normalized == contact {
		return ErrSelfReview
	}
	return nil
}

func validateSubmission(input *SubmitReviewInput) error {
	if strings.TrimSpace(input.ReviewText) == "" {
		return fmt.Errorf("%w: review_text is required", ErrValidation)
	}
	if input.Rating == nil {
		return fmt.Errorf("%w: rating is required", ErrValidation)
	}
	if *input.Rating < 1 || *input.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if strings.TrimSpace(input.ReviewType) == "" {
		return fmt.Errorf("%w: review_type is required", ErrValidation)
	}
	if strings.TrimSpace(input.Relationship) == "" {
		return fmt.Errorf("%w: relationship is required", ErrValidation)
	}
	if strings.TrimSpace(input.YearsKnown) == "" {
		return fmt.Errorf("%w: years_known is required", ErrValidation)
	}
	if input.WouldRecommend == nil {
		return fmt.Errorf("%w: would_recommend is required", ErrValidation)
	}

	subs := map[string]*int{
		"athleticism":  input.Athleticism,
		"character":    input.Character,
		"work_ethic":   input.WorkEthic,
		"leadership":   input.Leadership,
		"coachability": input.Coachability,
		"teamwork":     input.Teamwork,
	}
	for field, value := range subs {
		if value != nil && (*value < 1 || *value > 5) {
			return fmt.Errorf("%w: %s must be between 1 and 5", ErrValidation, field)
		}
	}
	return nil
}

func (s *Service) sendRequestEmail(req *VerificationRequest, account *accounts.Account) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data := mailer.TemplateData{
		ReviewerName:   req.ReviewerName,
		AthleteName:    account.FullName(),
		RequestMessage: req.RequestMessage,
		VerifyURL:      fmt.Sprintf("%s/verify-review/%s", s.publicURL, req.VerificationToken),
		ExpiresAt:      req.ExpiresAt.Format("January 2, 2006"),
	}
	if err := s.mailer.Send(ctx, req.ReviewerEmail, mailer.TemplateReviewRequest, data); err != nil {
		s.logger.Warn("failed to send review request email",
			zap.String("request_id", req.ID.String()), zap.Error(err))
	}
}
