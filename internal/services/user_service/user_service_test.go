package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fleetimee/solid-spoon/internal/domain/models"
	"github.com/fleetimee/solid-spoon/internal/storage"
	"github.com/fleetimee/solid-spoon/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func TestUserService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	input := dto.UserRegisterInput{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "super-secret-1",
		IsAdmin:  true,
	}

	t.Run("successful registration hashes the password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo, new(MockTokenIssuer))

		newID := uuid.New()
		var saved models.User
		mockRepo.On("SaveUser", ctx, mock.AnythingOfType("models.User")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.User)
			}).
			Return(newID, nil).Once()

		id, err := service.RegisterUser(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, newID, id)
		assert.NotEqual(t, []byte(input.Password), saved.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword(saved.Password, []byte(input.Password)))

		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo, new(MockTokenIssuer))

		mockRepo.On("SaveUser", ctx, mock.AnythingOfType("models.User")).
			Return(uuid.Nil, storage.ErrUserExists).Once()

		_, err := service.RegisterUser(ctx, input)

		assert.ErrorIs(t, err, storage.ErrUserExists)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	password := "super-secret-1"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := models.User{
		ID:       uuid.New(),
		Email:    "admin@example.com",
		Password: hash,
		IsAdmin:  true,
	}

	t.Run("successful login", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		service := NewUserService(log, mockRepo, mockTokens)

		pair := &models.TokenPair{
			UserID:       user.ID.String(),
			AccessToken:  "access",
			RefreshToken: "refresh",
		}

		mockRepo.On("UserByEmail", ctx, user.Email).Return(user, nil).Once()
		mockTokens.On("GenerateTokens", ctx, user).Return(pair, nil).Once()

		got, err := service.Login(ctx, user.Email, password)

		require.NoError(t, err)
		assert.Equal(t, pair, got)

		mockRepo.AssertExpectations(t)
		mockTokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo, new(MockTokenIssuer))

		mockRepo.On("UserByEmail", ctx, user.Email).Return(user, nil).Once()

		_, err := service.Login(ctx, user.Email, "not-the-password")

		assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(log, mockRepo, new(MockTokenIssuer))

		mockRepo.On("UserByEmail", ctx, "ghost@example.com").
			Return(models.User{}, storage.ErrUserNotFound).Once()

		_, err := service.Login(ctx, "ghost@example.com", password)

		assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_IsAdmin(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()
	userID := uuid.New()

	tests := []struct {
		name    string
		isAdmin bool
		repoErr error
		wantErr bool
	}{
		{name: "admin user", isAdmin: true},
		{name: "regular user", isAdmin: false},
		{name: "repository error", repoErr: errors.New("db error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			service := NewUserService(log, mockRepo, new(MockTokenIssuer))

			mockRepo.On("IsAdmin", ctx, userID).
				Return(tt.isAdmin, tt.repoErr).Once()

			got, err := service.IsAdmin(ctx, userID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.isAdmin, got)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
