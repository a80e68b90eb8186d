package api

import (
	"net/http"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/auth"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/fulfillment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service fulfillment.FulfillmentUseCase
}

type createBookingRequest struct {
	VehicleDescription  string `json:"vehicle_description"`
	ServiceDescription  string `json:"service_description"`
	PreferredGarageID   string `json:"preferred_garage_id,omitempty"`
	PreferredPlaceID    string `json:"preferred_place_id,omitempty"`
	PreferredGarageName string `json:"preferred_garage_name,omitempty"`
}

type declineBookingRequest struct {
	Notes string `json:"notes"`
}

type bookingResponse struct {
	ID                string  `json:"id"`
	Reference         string  `json:"reference"`
	Status            string  `json:"status"`
	GarageStatus      string  `json:"garage_status"`
	CurrentStage      string  `json:"current_stage,omitempty"`
	OverallProgress   int     `json:"overall_progress"`
	AssignedGarageID  *string `json:"assigned_garage_id,omitempty"`
	AssignedAt        *string `json:"assigned_at,omitempty"`
	GarageCompletedAt *string `json:"garage_completed_at,omitempty"`
	DeclineNotes      string  `json:"decline_notes,omitempty"`
}

type bookingUpdateResponse struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Actor     string `json:"actor"`
	CreatedAt string `json:"created_at"`
}

func NewBookingHandler(service fulfillment.FulfillmentUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(customer, garage, admin *gin.RouterGroup) {
	customer.POST("/bookings", h.create)
	customer.GET("/bookings/:id", h.get)
	customer.GET("/bookings/:id/updates", h.updates)
	garage.GET("/jobs", h.listForGarage)
	garage.GET("/jobs/:id", h.get)
	garage.GET("/jobs/:id/updates", h.updates)
	garage.POST("/jobs/:id/accept", h.accept)
	garage.POST("/jobs/:id/decline", h.decline)
	garage.POST("/jobs/:id/start", h.start)
	garage.POST("/jobs/:id/complete", h.complete)
	admin.GET("/bookings/unassigned", h.listUnassigned)
	admin.POST("/bookings/:id/requeue", h.requeue)
}

func (h *BookingHandler) create(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking := &domain.Booking{
		CustomerID:          claims.UID(),
		VehicleDescription:  req.VehicleDescription,
		ServiceDescription:  req.ServiceDescription,
		PreferredPlaceID:    req.PreferredPlaceID,
		PreferredGarageName: req.PreferredGarageName,
	}
	if req.PreferredGarageID != "" {
		garageID, err := uuid.Parse(req.PreferredGarageID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preferred garage id"})
			return
		}
		booking.PreferredGarageID = &garageID
	}

	if err := h.service.Create(c.Request.Context(), booking); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) get(c *gin.Context) {
	booking, ok := h.visibleBooking(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) updates(c *gin.Context) {
	booking, ok := h.visibleBooking(c)
	if !ok {
		return
	}

	updates, err := h.service.Updates(c.Request.Context(), booking.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]bookingUpdateResponse, 0, len(updates))
	for _, u := range updates {
		resp = append(resp, bookingUpdateResponse{
			Stage:     u.Stage,
			Message:   u.Message,
			Actor:     u.Actor,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// visibleBooking loads the booking the caller may read: the owning customer,
// the assigned/matching garage, or an admin.
func (h *BookingHandler) visibleBooking(c *gin.Context) (*domain.Booking, bool) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return nil, false
	}

	if claims.Role == auth.RoleGarage {
		booking, err := h.service.GetForGarage(c.Request.Context(), claims.UID(), id)
		if err != nil {
			respondError(c, err)
			return nil, false
		}
		return booking, true
	}

	booking, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if claims.Role != auth.RoleAdmin && booking.CustomerID != claims.UID() {
		respondError(c, domain.ErrForbidden)
		return nil, false
	}
	return booking, true
}

func (h *BookingHandler) listForGarage(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	bookings, err := h.service.ListForGarage(c.Request.Context(), claims.UID())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) listUnassigned(c *gin.Context) {
	bookings, err := h.service.ListUnassigned(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) accept(c *gin.Context) {
	h.transition(c, func(callerID, bookingID uuid.UUID) (*domain.Booking, error) {
		return h.service.Accept(c.Request.Context(), callerID, bookingID)
	})
}

func (h *BookingHandler) decline(c *gin.Context) {
	var req declineBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	h.transition(c, func(callerID, bookingID uuid.UUID) (*domain.Booking, error) {
		return h.service.Decline(c.Request.Context(), callerID, bookingID, req.Notes)
	})
}

func (h *BookingHandler) start(c *gin.Context) {
	h.transition(c, func(callerID, bookingID uuid.UUID) (*domain.Booking, error) {
		return h.service.Start(c.Request.Context(), callerID, bookingID)
	})
}

func (h *BookingHandler) complete(c *gin.Context) {
	h.transition(c, func(callerID, bookingID uuid.UUID) (*domain.Booking, error) {
		return h.service.Complete(c.Request.Context(), callerID, bookingID)
	})
}

func (h *BookingHandler) requeue(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	booking, err := h.service.Requeue(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) transition(c *gin.Context, apply func(callerID, bookingID uuid.UUID) (*domain.Booking, error)) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := apply(claims.UID(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID.String(),
		Reference:       b.Reference,
		Status:          string(b.Status),
		GarageStatus:    string(b.GarageStatus),
		CurrentStage:    b.CurrentStage,
		OverallProgress: b.OverallProgress,
		DeclineNotes:    b.DeclineNotes,
	}
	if b.AssignedGarageID != nil {
		id := b.AssignedGarageID.String()
		resp.AssignedGarageID = &id
	}
	if b.AssignedAt != nil {
		at := b.AssignedAt.Format(time.RFC3339)
		resp.AssignedAt = &at
	}
	if b.GarageCompletedAt != nil {
		at := b.GarageCompletedAt.Format(time.RFC3339)
		resp.GarageCompletedAt = &at
	}
	return resp
}
