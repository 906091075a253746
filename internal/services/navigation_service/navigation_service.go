package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetimee/solid-spoon/internal/domain/models"
	"github.com/fleetimee/solid-spoon/internal/lib/logger/sl"
	"github.com/fleetimee/solid-spoon/internal/repository"
)

type NavigationService struct {
	log  *slog.Logger
	repo repository.NavigationRepository
}

func NewNavigationService(log *slog.Logger, repo repository.NavigationRepository) *NavigationService {
	return &NavigationService{
		log:  log,
		repo: repo,
	}
}

// GetNavigation returns the sidebar sections with their nested items,
// already ordered for rendering.
func (s *NavigationService) GetNavigation(ctx context.Context) ([]models.NavigationMain, error) {
	const op = "navigation_service.GetNavigation"

	mains, err := s.repo.GetNavigation(ctx)
	if err != nil {
		s.log.With(slog.String("op", op)).Error("failed to load navigation", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return mains, nil
}
