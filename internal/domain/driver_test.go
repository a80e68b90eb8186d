package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func approvedDriverAtContractsPending() Driver {
	return Driver{
		Status:               DriverStatusApproved,
		OnboardingStatus:     OnboardingContractsPending,
		EmploymentType:       EmploymentContractor,
		PoliceCheckCompleted: true,
		PoliceCheckDocument:  "uploads/police-check.pdf",
	}
}

func fullAcceptance() ContractAcceptance {
	return ContractAcceptance{
		EmploymentAccepted: true,
		ConductAccepted:    true,
		DeductionsAccepted: true,
		PrivacyAccepted:    true,
	}
}

func TestDriver_BeginContracts(t *testing.T) {
	driver := Driver{Status: DriverStatusApproved, OnboardingStatus: OnboardingNotStarted, CanAcceptJobs: true}

	err := driver.BeginContracts()

	assert.NoError(t, err)
	assert.Equal(t, OnboardingContractsPending, driver.OnboardingStatus)
	assert.False(t, driver.CanAcceptJobs)
}

func TestDriver_BeginContracts_Guards(t *testing.T) {
	testCases := []struct {
		name        string
		driver      Driver
		expectedErr error
	}{
		{
			name:        "already pending",
			driver:      Driver{Status: DriverStatusApproved, OnboardingStatus: OnboardingContractsPending},
			expectedErr: ErrInvalidTransition,
		},
		{
			name:        "already active",
			driver:      Driver{Status: DriverStatusApproved, OnboardingStatus: OnboardingActive},
			expectedErr: ErrInvalidTransition,
		},
		{
			name:        "application not approved",
			driver:      Driver{Status: DriverStatusPending, OnboardingStatus: OnboardingNotStarted},
			expectedErr: ErrPreconditionFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.driver
			err := tc.driver.BeginContracts()
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, before, tc.driver)
		})
	}
}

func TestDriver_SignContracts(t *testing.T) {
	driver := approvedDriverAtContractsPending()
	now := time.Now()

	err := driver.SignContracts(fullAcceptance(), now)

	assert.NoError(t, err)
	assert.Equal(t, OnboardingActive, driver.OnboardingStatus)
	assert.True(t, driver.CanAcceptJobs)
	assert.Equal(t, EmploymentEmployee, driver.EmploymentType)
	assert.True(t, driver.ContractsSigned())
	assert.True(t, driver.InsuranceEligible())
	if assert.NotNil(t, driver.EmployeeStartDate) {
		assert.Equal(t, now, *driver.EmployeeStartDate)
	}
}

func TestDriver_SignContracts_FromNotStarted(t *testing.T) {
	driver := approvedDriverAtContractsPending()
	driver.OnboardingStatus = OnboardingNotStarted

	err := driver.SignContracts(fullAcceptance(), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, OnboardingActive, driver.OnboardingStatus)
}

func TestDriver_SignContracts_AlreadyActive(t *testing.T) {
	driver := approvedDriverAtContractsPending()
	driver.OnboardingStatus = OnboardingActive
	before := driver

	err := driver.SignContracts(fullAcceptance(), time.Now())

	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, before, driver)
}

func TestDriver_SignContracts_Guards(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*Driver)
		acceptance  ContractAcceptance
		expectedErr error
	}{
		{
			name:        "police check incomplete",
			mutate:      func(d *Driver) { d.PoliceCheckCompleted = false },
			acceptance:  fullAcceptance(),
			expectedErr: ErrPreconditionFailed,
		},
		{
			name:        "police check document missing",
			mutate:      func(d *Driver) { d.PoliceCheckDocument = "" },
			acceptance:  fullAcceptance(),
			expectedErr: ErrPreconditionFailed,
		},
		{
			name:        "application not approved",
			mutate:      func(d *Driver) { d.Status = DriverStatusPending },
			acceptance:  fullAcceptance(),
			expectedErr: ErrPreconditionFailed,
		},
		{
			name:        "missing acknowledgement",
			mutate:      func(d *Driver) {},
			acceptance:  ContractAcceptance{EmploymentAccepted: true, ConductAccepted: true, DeductionsAccepted: true},
			expectedErr: ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			driver := approvedDriverAtContractsPending()
			tc.mutate(&driver)
			before := driver

			err := driver.SignContracts(tc.acceptance, time.Now())

			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, before, driver)
			assert.False(t, driver.CanAcceptJobs)
		})
	}
}

func TestDriver_InsuranceEligible(t *testing.T) {
	driver := Driver{EmploymentType: EmploymentEmployee, OnboardingStatus: OnboardingActive}
	assert.True(t, driver.InsuranceEligible())

	driver.EmploymentType = EmploymentContractor
	assert.False(t, driver.InsuranceEligible())

	driver.EmploymentType = EmploymentEmployee
	driver.OnboardingStatus = OnboardingContractsPending
	assert.False(t, driver.InsuranceEligible())
}
