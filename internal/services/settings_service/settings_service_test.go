package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fleetimee/solid-spoon/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) GetSettingsByCategory(ctx context.Context, category string) ([]models.AppSetting, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AppSetting), args.Error(1)
}

func TestSettingsService_GetAppSettings(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()

	tests := []struct {
		name      string
		rows      []models.AppSetting
		repoErr   error
		want      models.AppSettings
		wantError bool
	}{
		{
			name: "configured values",
			rows: []models.AppSetting{
				{Code: "APP_NAME", Value: "Roomly"},
				{Code: "APP_DESCRIPTION", Value: "Workspace booking"},
			},
			want: models.AppSettings{AppName: "Roomly", AppDescription: "Workspace booking"},
		},
		{
			name: "missing rows fall back to defaults",
			rows: []models.AppSetting{},
			want: models.AppSettings{AppName: "Acme Inc", AppDescription: "Enterprise"},
		},
		{
			name: "partial configuration",
			rows: []models.AppSetting{
				{Code: "APP_NAME", Value: "Roomly"},
			},
			want: models.AppSettings{AppName: "Roomly", AppDescription: "Enterprise"},
		},
		{
			name:      "repository error",
			repoErr:   errors.New("db error"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockLookupRepository)
			if tt.repoErr != nil {
				mockRepo.On("GetSettingsByCategory", ctx, "application").
					Return(nil, tt.repoErr).Once()
			} else {
				mockRepo.On("GetSettingsByCategory", ctx, "application").
					Return(tt.rows, nil).Once()
			}

			service := NewSettingsService(log, mockRepo)

			got, err := service.GetAppSettings(ctx)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
