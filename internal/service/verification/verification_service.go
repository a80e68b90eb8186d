package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/kafka"
)

// CodeStore is the redis-backed keyed store for pending codes and attempt
// counters.
type CodeStore interface {
	SetVerificationCode(ctx context.Context, email, code string, ttl time.Duration) error
	GetVerificationCode(ctx context.Context, email string) (string, error)
	IncrementVerificationAttempts(ctx context.Context, email string, ttl time.Duration) (int64, error)
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	ClearVerification(ctx context.Context, email string) error
}

// maxRequestsPerWindow caps how many codes a single email can request within
// one code TTL window.
const maxRequestsPerWindow = 3

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type VerificationUseCase interface {
	RequestCode(ctx context.Context, email string) error
	ConfirmCode(ctx context.Context, email, code string) error
}

type VerificationService struct {
	store              CodeStore
	producer           Producer
	notificationsTopic string
	codeTTL            time.Duration
	maxAttempts        int64
}

func NewVerificationService(store CodeStore, producer Producer, notificationsTopic string, codeTTL time.Duration, maxAttempts int64) *VerificationService {
	return &VerificationService{
		store:              store,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		codeTTL:            codeTTL,
		maxAttempts:        maxAttempts,
	}
}

func (s *VerificationService) RequestCode(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrValidation)
	}

	requests, err := s.store.IncrementWindow(ctx, "verify-request:"+email, s.codeTTL)
	if err != nil {
		// Counter failure must not block verification.
		log.Printf("WARNING: verification request counter failed for %s: %v", email, err)
	} else if requests > maxRequestsPerWindow {
		return fmt.Errorf("too many verification requests: %w", domain.ErrPreconditionFailed)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	if err := s.store.SetVerificationCode(ctx, email, code, s.codeTTL); err != nil {
		return err
	}

	if s.producer != nil && s.notificationsTopic != "" {
		event := kafka.NotificationEvent{
			Kind:       "verification_code",
			Email:      email,
			Message:    fmt.Sprintf("Your verification code is %s", code),
			OccurredAt: time.Now(),
		}
		if err := s.producer.Publish(ctx, s.notificationsTopic, email, event); err != nil {
			log.Printf("WARNING: failed to publish verification code for %s: %v", email, err)
		}
	}
	return nil
}

func (s *VerificationService) ConfirmCode(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return fmt.Errorf("email and code are required: %w", domain.ErrValidation)
	}

	attempts, err := s.store.IncrementVerificationAttempts(ctx, email, s.codeTTL)
	if err != nil {
		return err
	}
	if attempts > s.maxAttempts {
		return fmt.Errorf("too many attempts: %w", domain.ErrPreconditionFailed)
	}

	stored, err := s.store.GetVerificationCode(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" {
		return fmt.Errorf("no pending verification: %w", domain.ErrNotFound)
	}
	if stored != code {
		return fmt.Errorf("incorrect code: %w", domain.ErrValidation)
	}

	return s.store.ClearVerification(ctx, email)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

var _ VerificationUseCase = (*VerificationService)(nil)
