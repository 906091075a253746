package suite

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/fleetimee/solid-spoon/internal/domain/models"
	tokenservice "github.com/fleetimee/solid-spoon/internal/services/token_service"
	userservice "github.com/fleetimee/solid-spoon/internal/services/user_service"
	"github.com/fleetimee/solid-spoon/internal/storage"

	"github.com/google/uuid"
)

// Secret signs every token minted inside the suite.
const Secret = "functional-test-secret"

// Suite wires the real user and token services over in-memory stores so
// the full register/login/refresh flow runs without external processes.
type Suite struct {
	*testing.T
	Users  *userservice.UserService
	Tokens *tokenservice.TokenService
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()
	t.Parallel()

	ctx, cancelCtx := context.WithTimeout(context.Background(), time.Hour)
	t.Cleanup(cancelCtx)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens := tokenservice.NewTokenService(newMemTokenRepo(), Secret)
	users := userservice.NewUserService(log, newMemUserRepo(), tokens)

	return ctx, &Suite{
		T:      t,
		Users:  users,
		Tokens: tokens,
	}
}

type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]models.User
	byID    map[uuid.UUID]models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byEmail: make(map[string]models.User),
		byID:    make(map[uuid.UUID]models.User),
	}
}

func (r *memUserRepo) SaveUser(_ context.Context, user models.User) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return uuid.Nil, storage.ErrUserExists
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user

	return user.ID, nil
}

func (r *memUserRepo) UserByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetUserById(_ context.Context, userID uuid.UUID) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) IsAdmin(_ context.Context, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return false, storage.ErrUserNotFound
	}
	return user.IsAdmin, nil
}

type memTokenRepo struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{keys: make(map[string]struct{})}
}

func (r *memTokenRepo) key(userID, token string) string {
	return userID + ":" + token
}

func (r *memTokenRepo) SaveRefreshToken(_ context.Context, userID, token string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys[r.key(userID, token)] = struct{}{}
	return nil
}

func (r *memTokenRepo) GetRefreshToken(_ context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.keys[r.key(userID, token)]
	return ok, nil
}

func (r *memTokenRepo) DeleteRefreshToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.keys, r.key(userID, token))
	return nil
}

func (r *memTokenRepo) DeleteAllUserTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := userID + ":"
	for k := range r.keys {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(r.keys, k)
		}
	}
	return nil
}
