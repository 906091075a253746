package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fleetimee/solid-spoon/internal/repository"
	redisapp "github.com/fleetimee/solid-spoon/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRepo(t *testing.T) (*repository.RedisTokenRepo, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	repo := &repository.RedisTokenRepo{Client: &redisapp.Client{Client: db}}

	return repo, mock
}

// key format mirrored from the repository
func tokenKey(userID, token string) string {
	return "refresh:" + userID + ":" + token
}

func TestRedisTokenRepo_SaveRefreshToken(t *testing.T) {
	repo, mock := setupTokenRepo(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectSet(tokenKey("user-1", "tok-a"), "1", 7*24*time.Hour).SetVal("OK")

		err := repo.SaveRefreshToken(ctx, "user-1", "tok-a", 7*24*time.Hour)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet(tokenKey("user-1", "tok-b"), "1", time.Hour).SetErr(redis.ErrClosed)

		err := repo.SaveRefreshToken(ctx, "user-1", "tok-b", time.Hour)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestRedisTokenRepo_GetRefreshToken(t *testing.T) {
	repo, mock := setupTokenRepo(t)
	ctx := context.Background()

	t.Run("token present", func(t *testing.T) {
		mock.ExpectGet(tokenKey("user-1", "tok-a")).SetVal("1")

		found, err := repo.GetRefreshToken(ctx, "user-1", "tok-a")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("token absent", func(t *testing.T) {
		mock.ExpectGet(tokenKey("user-1", "tok-gone")).RedisNil()

		found, err := repo.GetRefreshToken(ctx, "user-1", "tok-gone")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet(tokenKey("user-1", "tok-x")).SetErr(redis.ErrClosed)

		_, err := repo.GetRefreshToken(ctx, "user-1", "tok-x")
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestRedisTokenRepo_DeleteRefreshToken(t *testing.T) {
	repo, mock := setupTokenRepo(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectDel(tokenKey("user-1", "tok-a")).SetVal(1)

		err := repo.DeleteRefreshToken(ctx, "user-1", "tok-a")
		assert.NoError(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectDel(tokenKey("user-1", "tok-b")).SetErr(redis.ErrClosed)

		err := repo.DeleteRefreshToken(ctx, "user-1", "tok-b")
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestRedisTokenRepo_DeleteAllUserTokens(t *testing.T) {
	repo, mock := setupTokenRepo(t)
	ctx := context.Background()

	t.Run("deletes every key of the user", func(t *testing.T) {
		keys := []string{
			tokenKey("user-1", "tok-a"),
			tokenKey("user-1", "tok-b"),
		}
		mock.ExpectKeys(tokenKey("user-1", "*")).SetVal(keys)
		mock.ExpectDel(keys...).SetVal(2)

		err := repo.DeleteAllUserTokens(ctx, "user-1")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keys scan fails", func(t *testing.T) {
		mock.ExpectKeys(tokenKey("user-1", "*")).SetErr(redis.ErrClosed)

		err := repo.DeleteAllUserTokens(ctx, "user-1")
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}
