package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/pkg/response"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
)

// handleError maps domain and storefront errors to the response envelope
func handleError(c *gin.Context, err error) {
	telemetry.SetSpanError(c.Request.Context(), err)
	_ = c.Error(err)

	var rejected *domain.RequestRejectedError
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		response.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired, please log in again", "")
	case errors.Is(err, domain.ErrUnauthenticated):
		response.Unauthorized(c, "Login required")
	case errors.Is(err, domain.ErrDecode):
		response.Error(c, http.StatusBadRequest, "INVALID_TOKEN", "Token could not be decoded", "")
	case errors.Is(err, domain.ErrForbidden):
		response.Forbidden(c, err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, err.Error())
	case errors.As(err, &rejected):
		if rejected.StatusCode >= 400 && rejected.StatusCode < 500 {
			response.Error(c, rejected.StatusCode, "REJECTED", rejected.Message, "")
			return
		}
		response.BadGateway(c, rejected.Message, "")
	case domain.IsNetworkError(err):
		response.BadGateway(c, "Storefront API unreachable", err.Error())
	default:
		response.InternalError(c, err)
	}
}

// bindError reports a malformed request body or query
func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request", err.Error())
}
