package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetimee/solid-spoon/internal/domain/models"
	"github.com/fleetimee/solid-spoon/internal/lib/logger/sl"
	"github.com/fleetimee/solid-spoon/internal/repository"
)

const settingsCategory = "application"

const (
	codeAppName        = "APP_NAME"
	codeAppDescription = "APP_DESCRIPTION"

	defaultAppName        = "Acme Inc"
	defaultAppDescription = "Enterprise"
)

type SettingsService struct {
	log  *slog.Logger
	repo repository.LookupRepository
}

func NewSettingsService(log *slog.Logger, repo repository.LookupRepository) *SettingsService {
	return &SettingsService{
		log:  log,
		repo: repo,
	}
}

// GetAppSettings resolves dashboard branding from the lookup table. Missing
// rows fall back to defaults rather than failing the page.
func (s *SettingsService) GetAppSettings(ctx context.Context) (models.AppSettings, error) {
	const op = "settings_service.GetAppSettings"

	settings := models.AppSettings{
		AppName:        defaultAppName,
		AppDescription: defaultAppDescription,
	}

	rows, err := s.repo.GetSettingsByCategory(ctx, settingsCategory)
	if err != nil {
		s.log.With(slog.String("op", op)).Error("failed to load settings", sl.Err(err))
		return models.AppSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		switch row.Code {
		case codeAppName:
			settings.AppName = row.Value
		case codeAppDescription:
			settings.AppDescription = row.Value
		}
	}

	return settings, nil
}
