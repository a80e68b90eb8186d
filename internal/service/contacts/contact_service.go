package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/google/uuid"
)

type ContactUseCase interface {
	Submit(ctx context.Context, inquiry *domain.ContactInquiry) error
	UpdateStatus(ctx context.Context, id uuid.UUID, to domain.ContactStatus) (*domain.ContactInquiry, error)
}

type ContactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

func (s *ContactService) Submit(ctx context.Context, inquiry *domain.ContactInquiry) error {
	if inquiry.Email == "" || inquiry.Message == "" {
		return fmt.Errorf("email and message are required: %w", domain.ErrValidation)
	}
	return s.contacts.Create(ctx, inquiry)
}

func (s *ContactService) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.ContactStatus) (*domain.ContactInquiry, error) {
	current, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.ContactCanTransition(current.Status, to) {
		return nil, fmt.Errorf("cannot move a %s inquiry to %s: %w", current.Status, to, domain.ErrInvalidTransition)
	}

	updated, err := s.contacts.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("inquiry status changed concurrently: %w", domain.ErrInvalidTransition)
		}
		return nil, err
	}
	return updated, nil
}

var _ ContactUseCase = (*ContactService)(nil)
