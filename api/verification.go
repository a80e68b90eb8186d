package api

import (
	"net/http"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/verification"
	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	service verification.VerificationUseCase
}

type requestCodeRequest struct {
	Email string `json:"email"`
}

type confirmCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func NewVerificationHandler(service verification.VerificationUseCase) *VerificationHandler {
	return &VerificationHandler{service: service}
}

func (h *VerificationHandler) Register(router *gin.RouterGroup) {
	router.POST("/verification/request", h.request)
	router.POST("/verification/confirm", h.confirm)
}

func (h *VerificationHandler) request(c *gin.Context) {
	var req requestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.RequestCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}

func (h *VerificationHandler) confirm(c *gin.Context) {
	var req confirmCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.ConfirmCode(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}
