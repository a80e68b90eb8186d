package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationBookingAccepted  NotificationKind = "booking_accepted"
	NotificationBookingDeclined  NotificationKind = "booking_declined"
	NotificationServiceStarted   NotificationKind = "service_started"
	NotificationServiceCompleted NotificationKind = "service_completed"
	NotificationQuoteViewed      NotificationKind = "quote_viewed"
	NotificationDriverActivated  NotificationKind = "driver_activated"
)

type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Kind        NotificationKind
	BookingID   *uuid.UUID
	QuoteID     *uuid.UUID
	Message     string
	CreatedAt   time.Time
}
