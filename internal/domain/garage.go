package domain

import (
	"time"

	"github.com/google/uuid"
)

type GarageApprovalStatus string

const (
	GarageApprovalPending   GarageApprovalStatus = "pending"
	GarageApprovalApproved  GarageApprovalStatus = "approved"
	GarageApprovalSuspended GarageApprovalStatus = "suspended"
)

type Garage struct {
	ID            uuid.UUID
	OwnerUserID   uuid.UUID
	Name          string
	LinkedPlaceID string
	Status        GarageApprovalStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (g *Garage) Approved() bool {
	return g.Status == GarageApprovalApproved
}
