package api

import (
	"net/http"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/contacts"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContactHandler struct {
	service contacts.ContactUseCase
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactStatusRequest struct {
	Status string `json:"status"`
}

type contactResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewContactHandler(service contacts.ContactUseCase) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) Register(public, admin *gin.RouterGroup) {
	public.POST("/contact", h.submit)
	admin.POST("/contact/:id/status", h.setStatus)
}

func (h *ContactHandler) submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inquiry := &domain.ContactInquiry{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.service.Submit(c.Request.Context(), inquiry); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contactResponse{ID: inquiry.ID.String(), Status: string(inquiry.Status)})
}

func (h *ContactHandler) setStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inquiry id"})
		return
	}
	var req contactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := domain.ContactStatus(req.Status)
	switch status {
	case domain.ContactStatusNew, domain.ContactStatusInProgress, domain.ContactStatusResolved:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inquiry status"})
		return
	}

	inquiry, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contactResponse{ID: inquiry.ID.String(), Status: string(inquiry.Status)})
}
