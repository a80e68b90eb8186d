package api

import (
	"errors"
	"net/http"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusFor maps the domain error kinds onto HTTP statuses. Order matters:
// the ownership and precondition kinds are checked before the broad
// transition/validation kinds they may wrap.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotAssigned),
		errors.Is(err, domain.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
