package service

import (
	"context"

	"go.uber.org/zap"

	"coachdash/internal/domain"
	"coachdash/internal/repository"
)

type CatalogBackend interface {
	Services(ctx context.Context) ([]domain.Service, error)
}

type CatalogServiceImpl struct {
	cache   repository.CatalogCache
	backend CatalogBackend
	logger  *zap.Logger
}

func NewCatalogService(cache repository.CatalogCache, backend CatalogBackend, logger *zap.Logger) *CatalogServiceImpl {
	return &CatalogServiceImpl{
		cache:   cache,
		backend: backend,
		logger:  logger,
	}
}

// List serves the catalog from cache. Cache failures fall through to the backend.
func (s *CatalogServiceImpl) List(ctx context.Context) ([]domain.Service, error) {
	services, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("service catalog cache read failed", zap.Error(err))
	}
	if ok {
		return services, nil
	}

	services, err = s.backend.Services(ctx)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []domain.Service{}
	}

	if err := s.cache.Set(ctx, services); err != nil {
		s.logger.Warn("service catalog cache write failed", zap.Error(err))
	}
	return services, nil
}

func (s *CatalogServiceImpl) Contains(ctx context.Context, id string) (bool, error) {
	services, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	_, ok := domain.ServiceByID(services, id)
	return ok, nil
}
