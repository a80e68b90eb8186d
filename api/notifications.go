package api

import (
	"net/http"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/auth"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/repository"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications repository.NotificationRepository
}

type notificationResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	BookingID string `json:"booking_id,omitempty"`
	QuoteID   string `json:"quote_id,omitempty"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

func NewNotificationHandler(notifications repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/notifications", h.list)
}

func (h *NotificationHandler) list(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	notifications, err := h.notifications.ListForUser(c.Request.Context(), claims.UID())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		item := notificationResponse{
			ID:        n.ID.String(),
			Kind:      string(n.Kind),
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
		if n.BookingID != nil {
			item.BookingID = n.BookingID.String()
		}
		if n.QuoteID != nil {
			item.QuoteID = n.QuoteID.String()
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}
