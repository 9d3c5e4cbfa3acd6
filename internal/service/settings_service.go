package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Kiruthika-Mahalingam/help-desk/internal/domain"
	"github.com/Kiruthika-Mahalingam/help-desk/internal/repository"
	apperrors "github.com/Kiruthika-Mahalingam/help-desk/pkg/util/errorutil"
)

// SettingsService reads and replaces the help desk settings.
type SettingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

// NewSettingsService creates the service.
func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.Get(ctx)
}

// Update replaces all settings with next.
func (s *SettingsService) Update(ctx context.Context, next domain.Settings) (domain.Settings, error) {
	if !next.DefaultPriority.Valid() {
		return domain.Settings{}, apperrors.NewValidationError("invalid default_priority", map[string]any{
			"default_priority": next.DefaultPriority,
		})
	}
	if next.MaxResponseTime <= 0 {
		return domain.Settings{}, apperrors.NewValidationError("max_response_time must be positive", map[string]any{
			"max_response_time": next.MaxResponseTime,
		})
	}
	saved, err := s.repo.Update(ctx, func(current *domain.Settings) error {
		*current = next
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}
	s.logger.Info("settings updated",
		zap.Bool("auto_assign", saved.AutoAssign),
		zap.Bool("escalation_enabled", saved.EscalationEnabled),
		zap.Int("max_response_time", saved.MaxResponseTime))
	return saved, nil
}
