package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusViewed    QuoteStatus = "viewed"
	QuoteStatusExpired   QuoteStatus = "expired"
	QuoteStatusCancelled QuoteStatus = "cancelled"
)

type QuoteRequest struct {
	ID                 uuid.UUID
	CustomerID         uuid.UUID
	Email              string
	VehicleDescription string
	ServiceDescription string
	CreatedAt          time.Time
}

type Quote struct {
	ID             uuid.UUID
	QuoteRequestID uuid.UUID
	AmountCents    int64
	Status         QuoteStatus
	FirstViewedAt  *time.Time
	ExpiresAt      *time.Time
	ValidUntil     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OwnerMatches reports whether the caller owns the parent quote request,
// either by customer id or by email.
func (r *QuoteRequest) OwnerMatches(callerID uuid.UUID, callerEmail string) bool {
	if r.CustomerID != uuid.Nil && r.CustomerID == callerID {
		return true
	}
	return r.Email != "" && callerEmail != "" && strings.EqualFold(r.Email, callerEmail)
}

// ReconcileExpiry applies the lazy expiry rule: a viewed quote expires once
// ExpiresAt passes, a never-viewed quote only via its absolute ValidUntil.
// Terminal statuses are left untouched. Called at the start of every read and
// write path; the caller persists the reclassification when Changed is true.
func ReconcileExpiry(q Quote, now time.Time) (Quote, bool) {
	if q.Status == QuoteStatusExpired || q.Status == QuoteStatusCancelled {
		return q, false
	}
	if q.FirstViewedAt != nil {
		if q.ExpiresAt != nil && now.After(*q.ExpiresAt) {
			q.Status = QuoteStatusExpired
			return q, true
		}
		return q, false
	}
	if q.ValidUntil != nil && now.After(*q.ValidUntil) {
		q.Status = QuoteStatusExpired
		return q, true
	}
	return q, false
}
