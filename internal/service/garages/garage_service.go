package garages

import (
	"context"
	"log"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/google/uuid"
)

// Cache is the cache-aside store for the approved garage directory.
type Cache interface {
	GetGarages(ctx context.Context) ([]domain.Garage, error)
	SetGarages(ctx context.Context, garages []domain.Garage) error
	InvalidateGarages(ctx context.Context) error
}

type GarageUseCase interface {
	ListApproved(ctx context.Context) ([]domain.Garage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Garage, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.GarageApprovalStatus) (*domain.Garage, error)
}

type GarageService struct {
	repo  repository.GarageRepository
	cache Cache
}

func NewGarageService(repo repository.GarageRepository, cache Cache) *GarageService {
	return &GarageService{repo: repo, cache: cache}
}

func (s *GarageService) ListApproved(ctx context.Context) ([]domain.Garage, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetGarages(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	garages, err := s.repo.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetGarages(ctx, garages)
	}
	return garages, nil
}

func (s *GarageService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Garage, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *GarageService) SetStatus(ctx context.Context, id uuid.UUID, status domain.GarageApprovalStatus) (*domain.Garage, error) {
	garage, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateGarages(ctx); err != nil {
			log.Printf("WARNING: failed to invalidate garage cache: %v", err)
		}
	}
	return garage, nil
}

var _ GarageUseCase = (*GarageService)(nil)
