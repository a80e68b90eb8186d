package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DriverStatus string

const (
	DriverStatusPending  DriverStatus = "pending"
	DriverStatusApproved DriverStatus = "approved"
	DriverStatusRejected DriverStatus = "rejected"
)

type OnboardingStatus string

const (
	OnboardingNotStarted       OnboardingStatus = "not_started"
	OnboardingContractsPending OnboardingStatus = "contracts_pending"
	OnboardingActive           OnboardingStatus = "active"
)

type EmploymentType string

const (
	EmploymentEmployee   EmploymentType = "employee"
	EmploymentContractor EmploymentType = "contractor"
)

type Driver struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Status               DriverStatus
	OnboardingStatus     OnboardingStatus
	EmploymentType       EmploymentType
	PoliceCheckCompleted bool
	PoliceCheckDocument  string
	EmploymentSignedAt   *time.Time
	ConductSignedAt      *time.Time
	DeductionsSignedAt   *time.Time
	PrivacySignedAt      *time.Time
	CanAcceptJobs        bool
	EmployeeStartDate    *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ContractAcceptance carries the four acknowledgements a driver submits when
// signing their contract pack.
type ContractAcceptance struct {
	EmploymentAccepted bool
	ConductAccepted    bool
	DeductionsAccepted bool
	PrivacyAccepted    bool
}

func (a ContractAcceptance) Complete() bool {
	return a.EmploymentAccepted && a.ConductAccepted && a.DeductionsAccepted && a.PrivacyAccepted
}

func (d *Driver) ContractsSigned() bool {
	return d.EmploymentSignedAt != nil && d.ConductSignedAt != nil && d.DeductionsSignedAt != nil && d.PrivacySignedAt != nil
}

// InsuranceEligible is derived, never stored.
func (d *Driver) InsuranceEligible() bool {
	return d.EmploymentType == EmploymentEmployee && d.OnboardingStatus == OnboardingActive
}

// BeginContracts advances an approved driver from not_started to
// contracts_pending. Both the admin approval path and the legacy auto-fix on
// status reads go through here.
func (d *Driver) BeginContracts() error {
	if d.OnboardingStatus != OnboardingNotStarted {
		return fmt.Errorf("onboarding is %s: %w", d.OnboardingStatus, ErrInvalidTransition)
	}
	if d.Status != DriverStatusApproved {
		return fmt.Errorf("driver application is %s: %w", d.Status, ErrPreconditionFailed)
	}
	d.OnboardingStatus = OnboardingContractsPending
	d.CanAcceptJobs = false
	return nil
}

// SignContracts applies the contracts_pending -> active transition. The
// not_started case is accepted too: a driver approved before the onboarding
// column existed may sign without ever having hit the auto-fix read.
func (d *Driver) SignContracts(acceptance ContractAcceptance, now time.Time) error {
	if d.OnboardingStatus == OnboardingActive {
		return ErrAlreadyCompleted
	}
	if d.OnboardingStatus != OnboardingContractsPending && d.OnboardingStatus != OnboardingNotStarted {
		return fmt.Errorf("onboarding is %s: %w", d.OnboardingStatus, ErrInvalidTransition)
	}
	if d.Status != DriverStatusApproved {
		return fmt.Errorf("driver application is %s: %w", d.Status, ErrPreconditionFailed)
	}
	if !d.PoliceCheckCompleted || d.PoliceCheckDocument == "" {
		return fmt.Errorf("police check incomplete: %w", ErrPreconditionFailed)
	}
	if !acceptance.Complete() {
		return fmt.Errorf("all four contract acknowledgements are required: %w", ErrValidation)
	}

	signed := now
	d.EmploymentSignedAt = &signed
	d.ConductSignedAt = &signed
	d.DeductionsSignedAt = &signed
	d.PrivacySignedAt = &signed
	d.OnboardingStatus = OnboardingActive
	d.CanAcceptJobs = true
	d.EmployeeStartDate = &signed
	d.EmploymentType = EmploymentEmployee
	return nil
}
