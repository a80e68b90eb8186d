package api

import (
	"net/http"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/garages"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GarageHandler struct {
	service garages.GarageUseCase
}

type garageStatusRequest struct {
	Status string `json:"status"`
}

type garageResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LinkedPlaceID string `json:"linked_place_id,omitempty"`
	Status        string `json:"status"`
}

func NewGarageHandler(service garages.GarageUseCase) *GarageHandler {
	return &GarageHandler{service: service}
}

func (h *GarageHandler) Register(public, admin *gin.RouterGroup) {
	public.GET("/garages", h.list)
	public.GET("/garages/:id", h.get)
	admin.POST("/garages/:id/status", h.setStatus)
}

func (h *GarageHandler) list(c *gin.Context) {
	garages, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]garageResponse, 0, len(garages))
	for i := range garages {
		resp = append(resp, toGarageResponse(&garages[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GarageHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid garage id"})
		return
	}
	garage, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGarageResponse(garage))
}

func (h *GarageHandler) setStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid garage id"})
		return
	}
	var req garageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := domain.GarageApprovalStatus(req.Status)
	switch status {
	case domain.GarageApprovalPending, domain.GarageApprovalApproved, domain.GarageApprovalSuspended:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid garage status"})
		return
	}

	garage, err := h.service.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGarageResponse(garage))
}

func toGarageResponse(g *domain.Garage) garageResponse {
	return garageResponse{
		ID:            g.ID.String(),
		Name:          g.Name,
		LinkedPlaceID: g.LinkedPlaceID,
		Status:        string(g.Status),
	}
}
