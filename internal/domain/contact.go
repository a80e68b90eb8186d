package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in_progress"
	ContactStatusResolved   ContactStatus = "resolved"
)

var contactTransitions = map[ContactStatus]map[ContactStatus]struct{}{
	ContactStatusNew: {
		ContactStatusInProgress: {},
		ContactStatusResolved:   {},
	},
	ContactStatusInProgress: {
		ContactStatusResolved: {},
	},
}

// ContactCanTransition reports whether an inquiry may move between the two
// statuses. Resolved is terminal.
func ContactCanTransition(from, to ContactStatus) bool {
	allowed, ok := contactTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

type ContactInquiry struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Message   string
	Status    ContactStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
