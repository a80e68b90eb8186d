package api

import (
	"net/http"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/auth"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/shifts"
	"github.com/gin-gonic/gin"
)

type ShiftHandler struct {
	service shifts.ShiftUseCase
}

type shiftResponse struct {
	ID         string  `json:"id"`
	ClockIn    string  `json:"clock_in"`
	ClockOut   *string `json:"clock_out,omitempty"`
	AutoClosed bool    `json:"auto_closed"`
}

func NewShiftHandler(service shifts.ShiftUseCase) *ShiftHandler {
	return &ShiftHandler{service: service}
}

func (h *ShiftHandler) Register(driver, internal *gin.RouterGroup) {
	driver.POST("/shifts/clock-in", h.clockIn)
	driver.POST("/shifts/clock-out", h.clockOut)
	internal.POST("/shifts/auto-clockout", h.autoClockOut)
}

func (h *ShiftHandler) clockIn(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}
	shift, err := h.service.ClockIn(c.Request.Context(), claims.UID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toShiftResponse(shift))
}

func (h *ShiftHandler) clockOut(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}
	shift, err := h.service.ClockOut(c.Request.Context(), claims.UID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toShiftResponse(shift))
}

// autoClockOut is invoked by the external scheduler with the cron secret.
func (h *ShiftHandler) autoClockOut(c *gin.Context) {
	closed, err := h.service.AutoClockOut(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]shiftResponse, 0, len(closed))
	for i := range closed {
		resp = append(resp, toShiftResponse(&closed[i]))
	}
	c.JSON(http.StatusOK, gin.H{"closed": len(closed), "shifts": resp})
}

func toShiftResponse(s *domain.Shift) shiftResponse {
	resp := shiftResponse{
		ID:         s.ID.String(),
		ClockIn:    s.ClockIn.Format(time.RFC3339),
		AutoClosed: s.AutoClosed,
	}
	if s.ClockOut != nil {
		out := s.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &out
	}
	return resp
}
