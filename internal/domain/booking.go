package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type GarageStatus string

const (
	GarageStatusNew        GarageStatus = "new"
	GarageStatusAccepted   GarageStatus = "accepted"
	GarageStatusDeclined   GarageStatus = "declined"
	GarageStatusInProgress GarageStatus = "in_progress"
	GarageStatusCompleted  GarageStatus = "completed"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
)

type GarageAction string

const (
	GarageActionAccept   GarageAction = "accept"
	GarageActionDecline  GarageAction = "decline"
	GarageActionStart    GarageAction = "start"
	GarageActionComplete GarageAction = "complete"
	GarageActionRequeue  GarageAction = "requeue"
)

const (
	StageServiceInProgress = "service_in_progress"
	StageServiceCompleted  = "service_completed"
)

// garageTransitions maps each action to the garage statuses it may fire from.
var garageTransitions = map[GarageAction][]GarageStatus{
	GarageActionAccept:   {GarageStatusNew},
	GarageActionDecline:  {GarageStatusNew},
	GarageActionStart:    {GarageStatusAccepted},
	GarageActionComplete: {GarageStatusInProgress},
	GarageActionRequeue:  {GarageStatusDeclined},
}

// CanAct reports whether the action is legal from the given garage status.
func CanAct(action GarageAction, from GarageStatus) bool {
	allowed, ok := garageTransitions[action]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == from {
			return true
		}
	}
	return false
}

type Booking struct {
	ID                  uuid.UUID
	Reference           string
	CustomerID          uuid.UUID
	VehicleDescription  string
	ServiceDescription  string
	Status              BookingStatus
	GarageStatus        GarageStatus
	CurrentStage        string
	OverallProgress     int
	PreferredGarageID   *uuid.UUID
	PreferredPlaceID    string
	PreferredGarageName string
	AssignedGarageID    *uuid.UUID
	AssignedAt          *time.Time
	GarageCompletedAt   *time.Time
	DeclineNotes        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BookingUpdate is one entry in the append-only progress log.
type BookingUpdate struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	Stage     string
	Message   string
	Actor     string
	CreatedAt time.Time
}

// MatchesGarage decides whether a garage may claim an unassigned booking: a
// direct id match, a linked place-id match, or a case-insensitive name match.
func (b *Booking) MatchesGarage(g *Garage) bool {
	if b.AssignedGarageID != nil {
		return *b.AssignedGarageID == g.ID
	}
	if b.PreferredGarageID != nil && *b.PreferredGarageID == g.ID {
		return true
	}
	if b.PreferredPlaceID != "" && g.LinkedPlaceID != "" && b.PreferredPlaceID == g.LinkedPlaceID {
		return true
	}
	if b.PreferredGarageName != "" && strings.EqualFold(b.PreferredGarageName, g.Name) {
		return true
	}
	return false
}

// AssignedTo reports whether the booking is currently claimed by the garage.
func (b *Booking) AssignedTo(g *Garage) bool {
	return b.AssignedGarageID != nil && *b.AssignedGarageID == g.ID
}
