package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/kafka"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/google/uuid"
)

type OnboardingUseCase interface {
	Status(ctx context.Context, callerUserID uuid.UUID) (*domain.Driver, error)
	SignContracts(ctx context.Context, callerUserID uuid.UUID, acceptance domain.ContractAcceptance) (*domain.Driver, error)
	Approve(ctx context.Context, driverID uuid.UUID) (*domain.Driver, error)
	Reject(ctx context.Context, driverID uuid.UUID) (*domain.Driver, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type OnboardingService struct {
	drivers            repository.DriverRepository
	notifications      repository.NotificationRepository
	producer           Producer
	notificationsTopic string
}

type OnboardingServiceOption func(*OnboardingService)

func WithNotificationsTopic(topic string) OnboardingServiceOption {
	return func(s *OnboardingService) {
		s.notificationsTopic = topic
	}
}

func NewOnboardingService(
	drivers repository.DriverRepository,
	notifications repository.NotificationRepository,
	producer Producer,
	opts ...OnboardingServiceOption,
) *OnboardingService {
	service := &OnboardingService{
		drivers:       drivers,
		notifications: notifications,
		producer:      producer,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Status returns the caller's onboarding state. An approved driver still at
// not_started is advanced to contracts_pending on the way out; drivers
// approved before the onboarding column existed never got the transition.
func (s *OnboardingService) Status(ctx context.Context, callerUserID uuid.UUID) (*domain.Driver, error) {
	driver, err := s.drivers.GetByUserID(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	if driver.OnboardingStatus == domain.OnboardingNotStarted && driver.Status == domain.DriverStatusApproved {
		advanced, err := s.drivers.BeginContracts(ctx, driver.ID)
		if err == nil {
			return advanced, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// Lost the race to a concurrent read; re-fetch the winner's state.
		return s.drivers.GetByUserID(ctx, callerUserID)
	}

	return driver, nil
}

func (s *OnboardingService) SignContracts(ctx context.Context, callerUserID uuid.UUID, acceptance domain.ContractAcceptance) (*domain.Driver, error) {
	driver, err := s.drivers.GetByUserID(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	// Guard check on a scratch copy first so the caller gets the precise
	// error kind; the repository re-applies the state guard atomically.
	scratch := *driver
	if err := scratch.SignContracts(acceptance, time.Now()); err != nil {
		return nil, err
	}

	signed, err := s.drivers.SignContracts(ctx, driver.ID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("driver state changed during signing: %w", domain.ErrInvalidTransition)
		}
		return nil, err
	}

	s.notify(ctx, signed, domain.NotificationDriverActivated, "driver onboarding completed")
	return signed, nil
}

func (s *OnboardingService) Approve(ctx context.Context, driverID uuid.UUID) (*domain.Driver, error) {
	driver, err := s.drivers.Approve(ctx, driverID)
	if err == nil {
		return driver, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, s.classifyMiss(ctx, driverID)
}

func (s *OnboardingService) Reject(ctx context.Context, driverID uuid.UUID) (*domain.Driver, error) {
	driver, err := s.drivers.Reject(ctx, driverID)
	if err == nil {
		return driver, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, s.classifyMiss(ctx, driverID)
}

// classifyMiss tells a missing driver apart from a guard failure after a
// zero-row conditional update.
func (s *OnboardingService) classifyMiss(ctx context.Context, driverID uuid.UUID) error {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return err
	}
	return domain.ErrInvalidTransition
}

func (s *OnboardingService) notify(ctx context.Context, driver *domain.Driver, kind domain.NotificationKind, message string) {
	if s.notifications != nil {
		n := &domain.Notification{RecipientID: driver.UserID, Kind: kind, Message: message}
		if err := s.notifications.Create(ctx, n); err != nil {
			log.Printf("WARNING: failed to store %s notification for driver %s: %v", kind, driver.ID, err)
		}
	}
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.NotificationEvent{
		Kind:        string(kind),
		RecipientID: driver.UserID.String(),
		Message:     message,
		OccurredAt:  time.Now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, driver.ID.String(), event); err != nil {
		log.Printf("WARNING: failed to publish %s event for driver %s: %v", kind, driver.ID, err)
	}
}

var _ OnboardingUseCase = (*OnboardingService)(nil)
