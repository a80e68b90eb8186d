package contacts

import (
	"context"
	"testing"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, inquiry *domain.ContactInquiry) error {
	args := m.Called(ctx, inquiry)
	return args.Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactInquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactInquiry), args.Error(1)
}

func (m *MockContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ContactStatus) (*domain.ContactInquiry, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactInquiry), args.Error(1)
}

func TestContactService_Submit(t *testing.T) {
	mockContacts := &MockContactRepository{}
	service := NewContactService(mockContacts)

	ctx := context.Background()
	inquiry := &domain.ContactInquiry{
		Name:    "Jo Bloggs",
		Email:   "jo@example.com",
		Message: "My booking reference never arrived.",
	}
	mockContacts.On("Create", ctx, inquiry).Return(nil).Once()

	err := service.Submit(ctx, inquiry)

	assert.NoError(t, err)
	mockContacts.AssertExpectations(t)
}

func TestContactService_Submit_MissingFields(t *testing.T) {
	mockContacts := &MockContactRepository{}
	service := NewContactService(mockContacts)

	err := service.Submit(context.Background(), &domain.ContactInquiry{Email: "jo@example.com"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	mockContacts.AssertNotCalled(t, "Create")
}

func TestContactService_UpdateStatus(t *testing.T) {
	mockContacts := &MockContactRepository{}
	service := NewContactService(mockContacts)

	ctx := context.Background()
	id := uuid.New()
	current := &domain.ContactInquiry{ID: id, Status: domain.ContactStatusNew}
	updated := &domain.ContactInquiry{ID: id, Status: domain.ContactStatusInProgress}

	mockContacts.On("GetByID", ctx, id).Return(current, nil).Once()
	mockContacts.On("UpdateStatus", ctx, id, domain.ContactStatusNew, domain.ContactStatusInProgress).Return(updated, nil).Once()

	result, err := service.UpdateStatus(ctx, id, domain.ContactStatusInProgress)

	assert.NoError(t, err)
	assert.Equal(t, domain.ContactStatusInProgress, result.Status)
}

func TestContactService_UpdateStatus_ResolvedIsTerminal(t *testing.T) {
	mockContacts := &MockContactRepository{}
	service := NewContactService(mockContacts)

	ctx := context.Background()
	id := uuid.New()
	current := &domain.ContactInquiry{ID: id, Status: domain.ContactStatusResolved}

	mockContacts.On("GetByID", ctx, id).Return(current, nil).Once()

	result, err := service.UpdateStatus(ctx, id, domain.ContactStatusInProgress)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	mockContacts.AssertNotCalled(t, "UpdateStatus")
}

func TestContactService_UpdateStatus_ConcurrentChange(t *testing.T) {
	mockContacts := &MockContactRepository{}
	service := NewContactService(mockContacts)

	ctx := context.Background()
	id := uuid.New()
	current := &domain.ContactInquiry{ID: id, Status: domain.ContactStatusNew}

	mockContacts.On("GetByID", ctx, id).Return(current, nil).Once()
	mockContacts.On("UpdateStatus", ctx, id, domain.ContactStatusNew, domain.ContactStatusResolved).Return(nil, domain.ErrNotFound).Once()

	result, err := service.UpdateStatus(ctx, id, domain.ContactStatusResolved)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
