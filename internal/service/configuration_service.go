package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/adr-api/internal/dto"
	"github.com/noah-isme/adr-api/internal/models"
)

type tabularConfigStore interface {
	Configurations() ([]models.Configuration, error)
	SetConfiguration(key, value, description string) error
}

type mirrorConfigStore interface {
	Upsert(ctx context.Context, cfg *models.Configuration) error
	List(ctx context.Context) ([]models.Configuration, error)
}

// ConfigurationService manages the flat runtime parameter store. Writes follow
// the same dual-write rule as reports: workbook first, mirror best effort.
type ConfigurationService struct {
	tabular tabularConfigStore
	mirror  mirrorConfigStore
	logger  *zap.Logger
}

// NewConfigurationService constructs the service.
func NewConfigurationService(tabular tabularConfigStore, mirror mirrorConfigStore, logger *zap.Logger) *ConfigurationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{tabular: tabular, mirror: mirror, logger: logger}
}

// List returns every parameter from the authoritative store.
func (s *ConfigurationService) List(ctx context.Context) ([]dto.ConfigurationResponse, error) {
	configs, err := s.tabular.Configurations()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConfigurationResponse, 0, len(configs))
	for _, c := range configs {
		out = append(out, dto.ConfigurationResponse{
			Key:         c.Key,
			Value:       c.Value,
			Description: c.Description,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return out, nil
}

// Set upserts one parameter; last write wins.
func (s *ConfigurationService) Set(ctx context.Context, key string, req dto.ConfigurationRequest) error {
	if err := s.tabular.SetConfiguration(key, req.Value, req.Description); err != nil {
		return err
	}
	if s.mirror != nil {
		cfg := &models.Configuration{Key: key, Value: req.Value, Description: req.Description}
		if err := s.mirror.Upsert(ctx, cfg); err != nil {
			s.logger.Warn("configuration mirror failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
