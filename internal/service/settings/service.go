package settings

import (
	"context"

	"go.uber.org/zap"

	"github.com/jmehdipour/loyalty-admin/internal/model"
	"github.com/jmehdipour/loyalty-admin/internal/repository"
)

// Service exposes the operator feature toggles.
type Service struct {
	singletons repository.SingletonsRepository
	log        *zap.Logger
}

func New(singletons repository.SingletonsRepository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{singletons: singletons, log: log}
}

func (s *Service) Get(ctx context.Context) (model.Settings, error) {
	return s.singletons.Settings(ctx)
}

// SetEnableSMS updates only the SMS toggle and returns the settings as stored.
func (s *Service) SetEnableSMS(ctx context.Context, enabled bool) (model.Settings, error) {
	if err := s.singletons.SetEnableSMS(ctx, enabled); err != nil {
		return model.Settings{}, err
	}
	s.log.Info("sms confirmations toggled", zap.Bool("enabled", enabled))
	return s.singletons.Settings(ctx)
}
