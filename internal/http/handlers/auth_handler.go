// Admin authentication HTTP handlers.
//
// This file exposes the login endpoint:
//   - POST /api/admin/login
//
// The handler is transport-thin: it validates the JSON body, calls the
// session issuer, and translates results into HTTP responses. Invalid
// credentials and unknown usernames produce byte-identical 401 envelopes;
// store outages surface as 503, never as an authentication failure.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careline/clinic-backend/internal/domain"
	"github.com/careline/clinic-backend/internal/services"
)

// AuthService defines the session-issuing operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Login verifies a credential pair and mints a session token.
	Login(ctx context.Context, username, password string) (string, domain.AdminView, error)
}

// LoginRequest is the JSON payload for the admin login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and the redacted admin record.
type LoginResponse struct {
	Token string           `json:"token"`
	User  domain.AdminView `json:"user"`
}

// Login handles POST /api/admin/login.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password are required")
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		ok(c, http.StatusOK, LoginResponse{Token: token, User: user})
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrStoreUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "service temporarily unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "login failed")
	}
}
