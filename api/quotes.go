package api

import (
	"net/http"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/auth"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/quotes"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuoteHandler struct {
	service quotes.QuoteUseCase
}

type quoteRequestRequest struct {
	Email              string `json:"email"`
	VehicleDescription string `json:"vehicle_description"`
	ServiceDescription string `json:"service_description"`
}

type issueQuoteRequest struct {
	QuoteRequestID string `json:"quote_request_id"`
	AmountCents    int64  `json:"amount_cents"`
	ValidUntil     string `json:"valid_until,omitempty"`
}

type quoteResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	AmountCents   int64   `json:"amount_cents"`
	FirstViewedAt *string `json:"first_viewed_at,omitempty"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	ValidUntil    *string `json:"valid_until,omitempty"`
}

type trackViewResponse struct {
	quoteResponse
	IsFirstView bool `json:"is_first_view"`
}

func NewQuoteHandler(service quotes.QuoteUseCase) *QuoteHandler {
	return &QuoteHandler{service: service}
}

func (h *QuoteHandler) Register(customer, admin *gin.RouterGroup) {
	customer.POST("/quote-requests", h.request)
	customer.GET("/quotes/:id", h.get)
	customer.POST("/quotes/:id/view", h.trackView)
	admin.POST("/quotes", h.issue)
	admin.POST("/quotes/:id/cancel", h.cancel)
}

func (h *QuoteHandler) request(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	var req quoteRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request := &domain.QuoteRequest{
		CustomerID:         claims.UID(),
		Email:              req.Email,
		VehicleDescription: req.VehicleDescription,
		ServiceDescription: req.ServiceDescription,
	}
	if request.Email == "" {
		request.Email = claims.Email
	}

	if err := h.service.RequestQuote(c.Request.Context(), request); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": request.ID.String()})
}

func (h *QuoteHandler) issue(c *gin.Context) {
	var req issueQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	requestID, err := uuid.Parse(req.QuoteRequestID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote request id"})
		return
	}

	quote := &domain.Quote{QuoteRequestID: requestID, AmountCents: req.AmountCents}
	if req.ValidUntil != "" {
		validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until"})
			return
		}
		quote.ValidUntil = &validUntil
	}

	if err := h.service.Issue(c.Request.Context(), quote); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

func (h *QuoteHandler) get(c *gin.Context) {
	caller, quoteID, ok := h.callerAndID(c)
	if !ok {
		return
	}
	quote, err := h.service.Get(c.Request.Context(), caller, quoteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

func (h *QuoteHandler) trackView(c *gin.Context) {
	caller, quoteID, ok := h.callerAndID(c)
	if !ok {
		return
	}
	result, err := h.service.TrackView(c.Request.Context(), caller, quoteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trackViewResponse{
		quoteResponse: toQuoteResponse(result.Quote),
		IsFirstView:   result.IsFirstView,
	})
}

func (h *QuoteHandler) cancel(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
		return
	}
	quote, err := h.service.Cancel(c.Request.Context(), quoteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

func (h *QuoteHandler) callerAndID(c *gin.Context) (quotes.Caller, uuid.UUID, bool) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return quotes.Caller{}, uuid.Nil, false
	}
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quote id"})
		return quotes.Caller{}, uuid.Nil, false
	}
	return quotes.Caller{UserID: claims.UID(), Email: claims.Email}, quoteID, true
}

func toQuoteResponse(q *domain.Quote) quoteResponse {
	resp := quoteResponse{
		ID:          q.ID.String(),
		Status:      string(q.Status),
		AmountCents: q.AmountCents,
	}
	if q.FirstViewedAt != nil {
		at := q.FirstViewedAt.Format(time.RFC3339)
		resp.FirstViewedAt = &at
	}
	if q.ExpiresAt != nil {
		at := q.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &at
	}
	if q.ValidUntil != nil {
		at := q.ValidUntil.Format(time.RFC3339)
		resp.ValidUntil = &at
	}
	return resp
}
