package shifts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/google/uuid"
)

type ShiftUseCase interface {
	ClockIn(ctx context.Context, callerUserID uuid.UUID) (*domain.Shift, error)
	ClockOut(ctx context.Context, callerUserID uuid.UUID) (*domain.Shift, error)
	AutoClockOut(ctx context.Context) ([]domain.Shift, error)
}

type ShiftService struct {
	shifts   repository.ShiftRepository
	drivers  repository.DriverRepository
	maxShift time.Duration
}

func NewShiftService(shifts repository.ShiftRepository, drivers repository.DriverRepository, maxShift time.Duration) *ShiftService {
	return &ShiftService{shifts: shifts, drivers: drivers, maxShift: maxShift}
}

func (s *ShiftService) ClockIn(ctx context.Context, callerUserID uuid.UUID) (*domain.Shift, error) {
	driver, err := s.drivers.GetByUserID(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	if !driver.CanAcceptJobs {
		return nil, fmt.Errorf("driver is not active: %w", domain.ErrPreconditionFailed)
	}

	shift, err := s.shifts.Open(ctx, driver.ID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, fmt.Errorf("driver already has an open shift: %w", err)
		}
		return nil, err
	}
	return shift, nil
}

func (s *ShiftService) ClockOut(ctx context.Context, callerUserID uuid.UUID) (*domain.Shift, error) {
	driver, err := s.drivers.GetByUserID(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	shift, err := s.shifts.Close(ctx, driver.ID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no open shift: %w", domain.ErrInvalidTransition)
		}
		return nil, err
	}
	return shift, nil
}

// AutoClockOut closes every open shift past the maximum duration. Invoked on
// a schedule by an external caller; idempotent, and a per-shift failure is
// logged and skipped so one bad record never stalls the batch.
func (s *ShiftService) AutoClockOut(ctx context.Context) ([]domain.Shift, error) {
	now := time.Now()
	overdue, err := s.shifts.ListOverdue(ctx, now.Add(-s.maxShift))
	if err != nil {
		return nil, err
	}

	var closed []domain.Shift
	for _, shift := range overdue {
		done, err := s.shifts.AutoClose(ctx, shift.ID, now)
		if err != nil {
			// Already closed by the driver between the scan and here, or a
			// transient store error.
			if !errors.Is(err, domain.ErrNotFound) {
				log.Printf("WARNING: auto-clockout failed for shift %s: %v", shift.ID, err)
			}
			continue
		}
		closed = append(closed, *done)
	}
	return closed, nil
}

var _ ShiftUseCase = (*ShiftService)(nil)
