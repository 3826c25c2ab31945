package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateAccount(ctx context.Context, account *Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockRepository) UpdateAccount(ctx context.Context, account *Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockRepository) UpdateSubscriptionTier(ctx context.Context, id uuid.UUID, tier SubscriptionTier) error {
	args := m.Called(ctx, id, tier)
	return args.Error(0)
}

func (m *MockRepository) GetSubscriptionTier(ctx context.Context, id uuid.UUID) (SubscriptionTier, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(SubscriptionTier), args.Error(1)
}

func TestRegister(t *testing.T) {
	req := &RegisterRequest{
		Email:     "Jordan@Example.com",
		Password:  "s3cret-password",
		FirstName: "Jordan",
		LastName:  "Hayes",
		Sport:     "soccer",
	}

	t.Run("creates account with hashed password and free tier", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAccountByEmail", mock.Anything, "jordan@example.com").Return(nil, nil)

		var stored *Account
		repo.On("CreateAccount", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).(*Account)
		}).Return(nil)

		service := NewService(repo, nil, zap.NewNop())
		account, err := service.Register(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "jordan@example.com", account.Email)
		assert.Equal(t, TierFree, account.SubscriptionTier)
		assert.NotEqual(t, req.Password, stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(req.Password)))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAccountByEmail", mock.Anything, "jordan@example.com").Return(&Account{ID: uuid.New()}, nil)

		service := NewService(repo, nil, zap.NewNop())
		_, err := service.Register(context.Background(), req)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	account := &Account{ID: uuid.New(), Email: "jordan@example.com", PasswordHash: string(hash)}

	t.Run("accepts correct credentials", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAccountByEmail", mock.Anything, "jordan@example.com").Return(account, nil)

		service := NewService(repo, nil, zap.NewNop())
		got, err := service.Authenticate(context.Background(), "jordan@example.com", "correct-password")

		assert.NoError(t, err)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAccountByEmail", mock.Anything, "jordan@example.com").Return(account, nil)

		service := NewService(repo, nil, zap.NewNop())
		_, err := service.Authenticate(context.Background(), "jordan@example.com", "wrong-password")

		assert.Error(t, err)
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAccountByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		service := NewService(repo, nil, zap.NewNop())
		_, err := service.Authenticate(context.Background(), "nobody@example.com", "whatever")

		assert.Error(t, err)
	})
}

func TestUpdateProfileAppliesPartialChanges(t *testing.T) {
	id := uuid.New()
	existing := &Account{ID: id, FirstName: "Jordan", LastName: "Hayes", Sport: "soccer", Bio: "old bio"}

	repo := new(MockRepository)
	repo.On("GetAccountByID", mock.Anything, id).Return(existing, nil)
	repo.On("UpdateAccount", mock.Anything, mock.Anything).Return(nil)

	service := NewService(repo, nil, zap.NewNop())

	bio := "Team captain, two-time state finalist."
	contact := "  Jordan.Contact@Example.COM "
	account, err := service.UpdateProfile(context.Background(), id, &UpdateProfileRequest{
		Bio:          &bio,
		ContactEmail: &contact,
	})

	assert.NoError(t, err)
	assert.Equal(t, bio, account.Bio)
	assert.Equal(t, "jordan.contact@example.com", account.ContactEmail)
	assert.Equal(t, "Jordan", account.FirstName)
	assert.Equal(t, "soccer", account.Sport)
}
