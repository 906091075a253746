package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "github.com/fleetimee/solid-spoon/internal/app/http"
	"github.com/fleetimee/solid-spoon/internal/config"
	"github.com/fleetimee/solid-spoon/internal/repository"
	mediaservice "github.com/fleetimee/solid-spoon/internal/services/media_service"
	navigationservice "github.com/fleetimee/solid-spoon/internal/services/navigation_service"
	roomservice "github.com/fleetimee/solid-spoon/internal/services/room_service"
	settingsservice "github.com/fleetimee/solid-spoon/internal/services/settings_service"
	tokenservice "github.com/fleetimee/solid-spoon/internal/services/token_service"
	userservice "github.com/fleetimee/solid-spoon/internal/services/user_service"
	"github.com/fleetimee/solid-spoon/internal/storage/blobstore"
	redisapp "github.com/fleetimee/solid-spoon/internal/storage/redis"
	httprouters "github.com/fleetimee/solid-spoon/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("%s: redis: %w", op, err)
	}

	blob, err := blobstore.NewMinioStorage(cfg.BlobStorage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tokenService := tokenservice.NewTokenService(repository.NewRedisTokenRepo(redisClient), cfg.AppSecret)
	userService := userservice.NewUserService(log, repo.User, tokenService)
	mediaService := mediaservice.NewMediaService(log, blob, cfg.BlobStorage.MaxSize)
	roomService := roomservice.NewRoomService(log, repo.Room)
	navigationService := navigationservice.NewNavigationService(log, repo.Navigation)
	settingsService := settingsservice.NewSettingsService(log, repo.Lookup)

	routers := httprouters.NewRouter(
		log,
		userService,
		tokenService,
		mediaService,
		roomService,
		navigationService,
		settingsService,
	)

	server := httpapp.New(log, cfg.AppSecret, cfg.SessionSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}, nil
}

func (a *App) Stop() error {
	err := a.HTTPServer.Stop()

	a.repo.Close()
	a.redis.Close()

	return err
}
