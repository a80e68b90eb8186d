package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Driver, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) Approve(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) Reject(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) BeginContracts(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

func (m *MockDriverRepository) SignContracts(ctx context.Context, id uuid.UUID, signedAt time.Time) (*domain.Driver, error) {
	args := m.Called(ctx, id, signedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Driver), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func eligibleDriver(userID uuid.UUID) *domain.Driver {
	return &domain.Driver{
		ID:                   uuid.New(),
		UserID:               userID,
		Status:               domain.DriverStatusApproved,
		OnboardingStatus:     domain.OnboardingContractsPending,
		EmploymentType:       domain.EmploymentContractor,
		PoliceCheckCompleted: true,
		PoliceCheckDocument:  "uploads/police-check.pdf",
	}
}

func fullAcceptance() domain.ContractAcceptance {
	return domain.ContractAcceptance{
		EmploymentAccepted: true,
		ConductAccepted:    true,
		DeductionsAccepted: true,
		PrivacyAccepted:    true,
	}
}

func TestOnboardingService_Status_AutoFix(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)
	driver.OnboardingStatus = domain.OnboardingNotStarted

	advanced := *driver
	advanced.OnboardingStatus = domain.OnboardingContractsPending
	advanced.CanAcceptJobs = false

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()
	mockDrivers.On("BeginContracts", ctx, driver.ID).Return(&advanced, nil).Once()

	result, err := service.Status(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, domain.OnboardingContractsPending, result.OnboardingStatus)
	assert.False(t, result.CanAcceptJobs)
	mockDrivers.AssertExpectations(t)
}

func TestOnboardingService_Status_NoFixNeeded(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()

	result, err := service.Status(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, domain.OnboardingContractsPending, result.OnboardingStatus)
	mockDrivers.AssertNotCalled(t, "BeginContracts")
}

func TestOnboardingService_Status_NotApprovedStaysPut(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)
	driver.Status = domain.DriverStatusPending
	driver.OnboardingStatus = domain.OnboardingNotStarted

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()

	result, err := service.Status(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, domain.OnboardingNotStarted, result.OnboardingStatus)
	mockDrivers.AssertNotCalled(t, "BeginContracts")
}

func TestOnboardingService_Status_AutoFixRaceLost(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)
	driver.OnboardingStatus = domain.OnboardingNotStarted

	winner := *driver
	winner.OnboardingStatus = domain.OnboardingContractsPending

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()
	mockDrivers.On("BeginContracts", ctx, driver.ID).Return(nil, domain.ErrNotFound).Once()
	mockDrivers.On("GetByUserID", ctx, userID).Return(&winner, nil).Once()

	result, err := service.Status(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, domain.OnboardingContractsPending, result.OnboardingStatus)
	mockDrivers.AssertExpectations(t)
}

func TestOnboardingService_SignContracts_Success(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	mockNotifications := &MockNotificationRepository{}
	mockProducer := &MockProducer{}
	service := NewOnboardingService(mockDrivers, mockNotifications, mockProducer, WithNotificationsTopic("notifications"))

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)

	started := time.Now()
	signed := *driver
	signed.OnboardingStatus = domain.OnboardingActive
	signed.CanAcceptJobs = true
	signed.EmploymentType = domain.EmploymentEmployee
	signed.EmployeeStartDate = &started

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()
	mockDrivers.On("SignContracts", ctx, driver.ID, mock.AnythingOfType("time.Time")).Return(&signed, nil).Once()
	mockNotifications.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", driver.ID.String(), mock.Anything).Return(nil).Once()

	result, err := service.SignContracts(ctx, userID, fullAcceptance())

	assert.NoError(t, err)
	assert.Equal(t, domain.OnboardingActive, result.OnboardingStatus)
	assert.True(t, result.CanAcceptJobs)
	assert.Equal(t, domain.EmploymentEmployee, result.EmploymentType)
	if assert.NotNil(t, result.EmployeeStartDate) {
		assert.WithinDuration(t, time.Now(), *result.EmployeeStartDate, 5*time.Second)
	}
	mockDrivers.AssertExpectations(t)
	mockNotifications.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestOnboardingService_SignContracts_AlreadyActive(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)
	driver.OnboardingStatus = domain.OnboardingActive

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()

	result, err := service.SignContracts(ctx, userID, fullAcceptance())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	mockDrivers.AssertNotCalled(t, "SignContracts")
}

func TestOnboardingService_SignContracts_PoliceCheckMissing(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)
	driver.PoliceCheckCompleted = false

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()

	result, err := service.SignContracts(ctx, userID, fullAcceptance())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
	mockDrivers.AssertNotCalled(t, "SignContracts")
}

func TestOnboardingService_SignContracts_IncompleteAcceptance(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	mockDrivers.On("GetByUserID", ctx, userID).Return(eligibleDriver(userID), nil).Once()

	acceptance := fullAcceptance()
	acceptance.PrivacyAccepted = false
	result, err := service.SignContracts(ctx, userID, acceptance)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrValidation)
	mockDrivers.AssertNotCalled(t, "SignContracts")
}

// Notification side effects never roll back the transition.
func TestOnboardingService_SignContracts_NotifyFailureIgnored(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	mockNotifications := &MockNotificationRepository{}
	mockProducer := &MockProducer{}
	service := NewOnboardingService(mockDrivers, mockNotifications, mockProducer, WithNotificationsTopic("notifications"))

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)
	signed := *driver
	signed.OnboardingStatus = domain.OnboardingActive
	signed.CanAcceptJobs = true

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()
	mockDrivers.On("SignContracts", ctx, driver.ID, mock.AnythingOfType("time.Time")).Return(&signed, nil).Once()
	mockNotifications.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()
	mockProducer.On("Publish", ctx, "notifications", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	result, err := service.SignContracts(ctx, userID, fullAcceptance())

	assert.NoError(t, err)
	assert.Equal(t, domain.OnboardingActive, result.OnboardingStatus)
}

func TestOnboardingService_SignContracts_ConcurrentStateChange(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	userID := uuid.New()
	driver := eligibleDriver(userID)

	mockDrivers.On("GetByUserID", ctx, userID).Return(driver, nil).Once()
	mockDrivers.On("SignContracts", ctx, driver.ID, mock.AnythingOfType("time.Time")).Return(nil, domain.ErrNotFound).Once()

	result, err := service.SignContracts(ctx, userID, fullAcceptance())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOnboardingService_Approve_GuardMiss(t *testing.T) {
	mockDrivers := &MockDriverRepository{}
	service := NewOnboardingService(mockDrivers, nil, nil)

	ctx := context.Background()
	driverID := uuid.New()

	t.Run("driver missing", func(t *testing.T) {
		mockDrivers.On("Approve", ctx, driverID).Return(nil, domain.ErrNotFound).Once()
		mockDrivers.On("GetByID", ctx, driverID).Return(nil, domain.ErrNotFound).Once()

		_, err := service.Approve(ctx, driverID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("already approved", func(t *testing.T) {
		existing := &domain.Driver{ID: driverID, Status: domain.DriverStatusApproved}
		mockDrivers.On("Approve", ctx, driverID).Return(nil, domain.ErrNotFound).Once()
		mockDrivers.On("GetByID", ctx, driverID).Return(existing, nil).Once()

		_, err := service.Approve(ctx, driverID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}
