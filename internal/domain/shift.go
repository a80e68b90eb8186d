package domain

import (
	"time"

	"github.com/google/uuid"
)

type Shift struct {
	ID         uuid.UUID
	DriverID   uuid.UUID
	ClockIn    time.Time
	ClockOut   *time.Time
	AutoClosed bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s *Shift) Open() bool {
	return s.ClockOut == nil
}

// Overdue reports whether an open shift has exceeded the maximum duration.
func (s *Shift) Overdue(now time.Time, max time.Duration) bool {
	return s.Open() && now.Sub(s.ClockIn) > max
}
