package repository

import (
	"context"
	"time"

	"github.com/fleetimee/solid-spoon/internal/domain/models"

	"github.com/google/uuid"
)

type RoomRepository interface {
	// CreateRoomWithImages persists the room and all image rows in one
	// transaction; either everything commits or nothing is visible.
	CreateRoomWithImages(ctx context.Context, room models.Room, images []models.NewRoomImage) (models.Room, error)
	ListRooms(ctx context.Context, filter models.RoomFilter) ([]models.Room, error)
	GetRoomByID(ctx context.Context, id int64) (models.Room, error)
	GetRoomBySlug(ctx context.Context, slug string) (models.Room, error)
	GetRoomImages(ctx context.Context, roomID int64) ([]models.RoomImage, error)
	CoverImageURL(ctx context.Context, roomID int64) (string, error)
}

type NavigationRepository interface {
	GetNavigation(ctx context.Context) ([]models.NavigationMain, error)
}

type LookupRepository interface {
	GetSettingsByCategory(ctx context.Context, category string) ([]models.AppSetting, error)
}

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
