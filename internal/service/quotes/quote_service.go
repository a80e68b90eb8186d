package quotes

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

// Caller identifies the requester; either field may be empty but not both.
type Caller struct {
	UserID uuid.UUID
	Email  string
}

type TrackViewResult struct {
	Quote       *domain.Quote
	IsFirstView bool
}

type QuoteUseCase interface {
	RequestQuote(ctx context.Context, request *domain.QuoteRequest) error
	Issue(ctx context.Context, quote *domain.Quote) error
	Get(ctx context.Context, caller Caller, quoteID uuid.UUID) (*domain.Quote, error)
	TrackView(ctx context.Context, caller Caller, quoteID uuid.UUID) (*TrackViewResult, error)
	Cancel(ctx context.Context, quoteID uuid.UUID) (*domain.Quote, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type QuoteService struct {
	quotes             repository.QuoteRepository
	viewExpiry         time.Duration
	producer           Producer
	notificationsTopic string
}

type QuoteServiceOption func(*QuoteService)

func WithNotifications(producer Producer, topic string) QuoteServiceOption {
	return func(s *QuoteService) {
		s.producer = producer
		s.notificationsTopic = topic
	}
}

func NewQuoteService(quotes repository.QuoteRepository, viewExpiry time.Duration, opts ...QuoteServiceOption) *QuoteService {
	service := &QuoteService{quotes: quotes, viewExpiry: viewExpiry}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *QuoteService) RequestQuote(ctx context.Context, request *domain.QuoteRequest) error {
	if request.CustomerID == uuid.Nil && request.Email == "" {
		return fmt.Errorf("quote request needs a customer or an email: %w", domain.ErrValidation)
	}
	return s.quotes.CreateRequest(ctx, request)
}

func (s *QuoteService) Issue(ctx context.Context, quote *domain.Quote) error {
	if quote.AmountCents <= 0 {
		return fmt.Errorf("quote amount must be positive: %w", domain.ErrValidation)
	}
	if _, err := s.quotes.GetRequest(ctx, quote.QuoteRequestID); err != nil {
		return err
	}
	return s.quotes.Create(ctx, quote)
}

// authorize loads the quote and checks the caller owns the parent request.
func (s *QuoteService) authorize(ctx context.Context, caller Caller, quoteID uuid.UUID) (*domain.Quote, error) {
	if caller.UserID == uuid.Nil && caller.Email == "" {
		return nil, domain.ErrUnauthenticated
	}
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	request, err := s.quotes.GetRequest(ctx, quote.QuoteRequestID)
	if err != nil {
		return nil, err
	}
	if !request.OwnerMatches(caller.UserID, caller.Email) {
		return nil, domain.ErrForbidden
	}
	return quote, nil
}

// reconcile applies the lazy expiry rule and persists a reclassification.
func (s *QuoteService) reconcile(ctx context.Context, quote *domain.Quote, now time.Time) *domain.Quote {
	checked, changed := domain.ReconcileExpiry(*quote, now)
	if !changed {
		return quote
	}
	expired, err := s.quotes.MarkExpired(ctx, quote.ID)
	if err != nil {
		// A concurrent reconcile already flipped it; the in-memory view is
		// still correct.
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("WARNING: failed to persist expiry for quote %s: %v", quote.ID, err)
		}
		return &checked
	}
	return expired
}

func (s *QuoteService) Get(ctx context.Context, caller Caller, quoteID uuid.UUID) (*domain.Quote, error) {
	quote, err := s.authorize(ctx, caller, quoteID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, quote, time.Now()), nil
}

// TrackView records the first time the owner opens a quote: the view
// timestamp starts the 48 hour window. Later calls are idempotent, and
// expired or cancelled quotes are returned untouched.
func (s *QuoteService) TrackView(ctx context.Context, caller Caller, quoteID uuid.UUID) (*TrackViewResult, error) {
	quote, err := s.authorize(ctx, caller, quoteID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quote = s.reconcile(ctx, quote, now)
	if quote.Status == domain.QuoteStatusExpired || quote.Status == domain.QuoteStatusCancelled {
		return &TrackViewResult{Quote: quote, IsFirstView: false}, nil
	}

	if quote.FirstViewedAt != nil {
		return &TrackViewResult{Quote: quote, IsFirstView: false}, nil
	}

	viewed, err := s.quotes.MarkFirstViewed(ctx, quoteID, now, now.Add(s.viewExpiry))
	if err == nil {
		// Kafka-only: there is no recipient user for a view, so no
		// notification row is written.
		if s.producer != nil && s.notificationsTopic != "" {
			event := kafka.NotificationEvent{
				Kind:       string(domain.NotificationQuoteViewed),
				QuoteID:    viewed.ID.String(),
				Message:    "quote viewed for the first time",
				OccurredAt: now,
			}
			if pubErr := s.producer.Publish(ctx, s.notificationsTopic, viewed.ID.String(), event); pubErr != nil {
				log.Printf("WARNING: failed to publish %s event for quote %s: %v", event.Kind, viewed.ID, pubErr)
			}
		}
		return &TrackViewResult{Quote: viewed, IsFirstView: true}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// A concurrent call won the first view; report the stored state.
	current, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return &TrackViewResult{Quote: current, IsFirstView: false}, nil
}

// Cancel reconciles expiry first: a quote whose window has lapsed is expired,
// and expired is terminal, even when the stored row still says pending or
// viewed.
func (s *QuoteService) Cancel(ctx context.Context, quoteID uuid.UUID) (*domain.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	quote = s.reconcile(ctx, quote, time.Now())
	if quote.Status == domain.QuoteStatusCancelled {
		return quote, nil
	}
	if quote.Status == domain.QuoteStatusExpired {
		return nil, fmt.Errorf("cannot cancel a %s quote: %w", quote.Status, domain.ErrInvalidTransition)
	}

	cancelled, err := s.quotes.Cancel(ctx, quoteID)
	if err == nil {
		return cancelled, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// A concurrent transition beat the conditional update; re-read to classify.
	current, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.QuoteStatusCancelled {
		return current, nil
	}
	return nil, fmt.Errorf("cannot cancel a %s quote: %w", current.Status, domain.ErrInvalidTransition)
}

var _ QuoteUseCase = (*QuoteService)(nil)
