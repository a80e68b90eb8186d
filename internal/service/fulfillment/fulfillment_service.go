package fulfillment

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

type FulfillmentUseCase interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Get(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	GetForGarage(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error)
	Accept(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error)
	Decline(ctx context.Context, callerUserID, bookingID uuid.UUID, notes string) (*domain.Booking, error)
	Start(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error)
	Complete(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error)
	Requeue(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	ListForGarage(ctx context.Context, callerUserID uuid.UUID) ([]domain.Booking, error)
	ListUnassigned(ctx context.Context) ([]domain.Booking, error)
	Updates(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingUpdate, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type FulfillmentService struct {
	bookings           repository.BookingRepository
	garages            repository.GarageRepository
	notifications      repository.NotificationRepository
	producer           Producer
	notificationsTopic string
}

type FulfillmentServiceOption func(*FulfillmentService)

func WithNotificationsTopic(topic string) FulfillmentServiceOption {
	return func(s *FulfillmentService) {
		s.notificationsTopic = topic
	}
}

func NewFulfillmentService(
	bookings repository.BookingRepository,
	garages repository.GarageRepository,
	notifications repository.NotificationRepository,
	producer Producer,
	opts ...FulfillmentServiceOption,
) *FulfillmentService {
	service := &FulfillmentService{
		bookings:      bookings,
		garages:       garages,
		notifications: notifications,
		producer:      producer,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FulfillmentService) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.CustomerID == uuid.Nil {
		return fmt.Errorf("customer is required: %w", domain.ErrValidation)
	}
	if booking.VehicleDescription == "" {
		return fmt.Errorf("vehicle description is required: %w", domain.ErrValidation)
	}
	if booking.Reference == "" {
		booking.Reference = uuid.NewString()
	}
	return s.bookings.Create(ctx, booking)
}

func (s *FulfillmentService) Get(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

// GetForGarage reads a booking on behalf of a garage: the assigned garage, or
// a matching garage while the booking is unclaimed.
func (s *FulfillmentService) GetForGarage(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error) {
	garage, err := s.actingGarage(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.MatchesGarage(garage) {
		return nil, domain.ErrNotAssigned
	}
	return booking, nil
}

// actingGarage resolves the caller's garage profile and checks approval.
func (s *FulfillmentService) actingGarage(ctx context.Context, callerUserID uuid.UUID) (*domain.Garage, error) {
	garage, err := s.garages.GetByOwner(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("caller has no garage profile: %w", domain.ErrForbidden)
		}
		return nil, err
	}
	if !garage.Approved() {
		return nil, domain.ErrNotApproved
	}
	return garage, nil
}

func (s *FulfillmentService) Accept(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error) {
	garage, err := s.actingGarage(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(domain.GarageActionAccept, booking.GarageStatus) {
		return nil, fmt.Errorf("cannot accept a %s booking: %w", booking.GarageStatus, domain.ErrInvalidTransition)
	}
	if !booking.MatchesGarage(garage) {
		return nil, domain.ErrNotAssigned
	}

	updated, err := s.bookings.Accept(ctx, bookingID, garage.ID, domain.BookingUpdate{
		Stage:   "accepted",
		Message: fmt.Sprintf("booking accepted by %s", garage.Name),
		Actor:   garage.Name,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, domain.NotificationBookingAccepted, fmt.Sprintf("%s accepted your booking", garage.Name))
	return updated, nil
}

func (s *FulfillmentService) Decline(ctx context.Context, callerUserID, bookingID uuid.UUID, notes string) (*domain.Booking, error) {
	garage, err := s.actingGarage(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(domain.GarageActionDecline, booking.GarageStatus) {
		return nil, fmt.Errorf("cannot decline a %s booking: %w", booking.GarageStatus, domain.ErrInvalidTransition)
	}
	if !booking.MatchesGarage(garage) {
		return nil, domain.ErrNotAssigned
	}

	message := fmt.Sprintf("booking declined by %s", garage.Name)
	if notes != "" {
		message = fmt.Sprintf("%s: %s", message, notes)
	}
	updated, err := s.bookings.Decline(ctx, bookingID, garage.ID, notes, domain.BookingUpdate{
		Stage:   "declined",
		Message: message,
		Actor:   garage.Name,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, domain.NotificationBookingDeclined, fmt.Sprintf("%s declined your booking", garage.Name))
	return updated, nil
}

func (s *FulfillmentService) Start(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error) {
	garage, err := s.actingGarage(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.AssignedTo(garage) {
		return nil, domain.ErrNotAssigned
	}
	if !domain.CanAct(domain.GarageActionStart, booking.GarageStatus) {
		return nil, fmt.Errorf("cannot start a %s booking: %w", booking.GarageStatus, domain.ErrInvalidTransition)
	}

	updated, err := s.bookings.Start(ctx, bookingID, garage.ID, domain.BookingUpdate{
		Stage:   domain.StageServiceInProgress,
		Message: fmt.Sprintf("service started by %s", garage.Name),
		Actor:   garage.Name,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, domain.NotificationServiceStarted, fmt.Sprintf("%s started work on your vehicle", garage.Name))
	return updated, nil
}

func (s *FulfillmentService) Complete(ctx context.Context, callerUserID, bookingID uuid.UUID) (*domain.Booking, error) {
	garage, err := s.actingGarage(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.AssignedTo(garage) {
		return nil, domain.ErrNotAssigned
	}
	if !domain.CanAct(domain.GarageActionComplete, booking.GarageStatus) {
		return nil, fmt.Errorf("cannot complete a %s booking: %w", booking.GarageStatus, domain.ErrInvalidTransition)
	}

	updated, err := s.bookings.Complete(ctx, bookingID, garage.ID, time.Now(), domain.BookingUpdate{
		Stage:   domain.StageServiceCompleted,
		Message: fmt.Sprintf("service completed by %s", garage.Name),
		Actor:   garage.Name,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, domain.NotificationServiceCompleted, fmt.Sprintf("%s finished work on your vehicle", garage.Name))
	return updated, nil
}

// Requeue returns a declined booking to the pool. Admin only; reassignment
// happens through a later accept.
func (s *FulfillmentService) Requeue(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAct(domain.GarageActionRequeue, booking.GarageStatus) {
		return nil, fmt.Errorf("cannot requeue a %s booking: %w", booking.GarageStatus, domain.ErrInvalidTransition)
	}

	return s.bookings.Requeue(ctx, bookingID, domain.BookingUpdate{
		Stage:   "requeued",
		Message: "booking returned to the pool for reassignment",
		Actor:   "admin",
	})
}

func (s *FulfillmentService) ListForGarage(ctx context.Context, callerUserID uuid.UUID) ([]domain.Booking, error) {
	garage, err := s.actingGarage(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListForGarage(ctx, garage.ID)
}

// ListUnassigned returns the open pool: bookings no garage has claimed yet.
func (s *FulfillmentService) ListUnassigned(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListUnassigned(ctx)
}

func (s *FulfillmentService) Updates(ctx context.Context, bookingID uuid.UUID) ([]domain.BookingUpdate, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.bookings.ListUpdates(ctx, bookingID)
}

// notify records and publishes the customer notification; failures are logged
// and never roll back the transition.
func (s *FulfillmentService) notify(ctx context.Context, booking *domain.Booking, kind domain.NotificationKind, message string) {
	if s.notifications != nil {
		n := &domain.Notification{
			RecipientID: booking.CustomerID,
			Kind:        kind,
			BookingID:   &booking.ID,
			Message:     message,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			log.Printf("WARNING: failed to store %s notification for booking %s: %v", kind, booking.Reference, err)
		}
	}
	if s.producer == nil || s.notificationsTopic == "" {
		return
	}
	event := kafka.NotificationEvent{
		Kind:        string(kind),
		RecipientID: booking.CustomerID.String(),
		BookingID:   booking.ID.String(),
		Reference:   booking.Reference,
		Message:     message,
		OccurredAt:  time.Now(),
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", kind, booking.Reference, err)
	}
}

var _ FulfillmentUseCase = (*FulfillmentService)(nil)
