package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProfileIndexer receives public profile updates for the search directory.
// Indexing is best-effort and never fails the profile write.
type ProfileIndexer interface {
	IndexProfile(ctx context.Context, profile *PublicProfile) error
}

// Service provides account and profile business logic.
type Service struct {
	repo    Repository
	indexer ProfileIndexer
	logger  *zap.Logger
}

// NewService creates a new accounts service
func NewService(repo Repository, indexer ProfileIndexer, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		indexer: indexer,
		logger:  logger,
	}
}

// Register creates a new athlete account with a hashed password.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("account already exists for %s", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &Account{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     string(hash),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Sport:            req.Sport,
		ContactEmail:     email,
		SubscriptionTier: TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("sport", account.Sport))

	return account, nil
}

// Authenticate verifies credentials and returns the matching account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.GetAccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	return account, nil
}

// GetAccount retrieves an account by id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}

// GetPublicProfile retrieves the reviewer-facing projection of a profile.
func (s *Service) GetPublicProfile(ctx context.Context, id uuid.UUID) (*PublicProfile, error) {
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	return account.Public(), nil
}

// UpdateProfile applies partial profile updates and reindexes the public view.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Account, error) {
	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account not found")
	}

	if req.FirstName != nil {
		account.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		account.LastName = *req.LastName
	}
	if req.Sport != nil {
		account.Sport = *req.Sport
	}
	if req.Position != nil {
		account.Position = *req.Position
	}
	if req.GraduationYear != nil {
		account.GraduationYear = *req.GraduationYear
	}
	if req.School != nil {
		account.School = *req.School
	}
	if req.Bio != nil {
		account.Bio = *req.Bio
	}
	if req.HeightCm != nil {
		account.HeightCm = req.HeightCm
	}
	if req.WeightKg != nil {
		account.WeightKg = req.WeightKg
	}
	if req.GPA != nil {
		account.GPA = req.GPA
	}
	if req.ContactEmail != nil {
		account.ContactEmail = strings.ToLower(strings.TrimSpace(*req.ContactEmail))
	}

	account.UpdatedAt = time.Now()

	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if s.indexer != nil {
		if err := s.indexer.IndexProfile(ctx, account.Public()); err != nil {
			s.logger.Warn("Failed to index profile",
				zap.String("account_id", id.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Profile updated", zap.String("account_id", id.String()))

	return account, nil
}

// GetSubscriptionTier reads the athlete's current tier. Always a live read
// so billing changes take effect immediately.
func (s *Service) GetSubscriptionTier(ctx context.Context, id uuid.UUID) (SubscriptionTier, error) {
	return s.repo.GetSubscriptionTier(ctx, id)
}
