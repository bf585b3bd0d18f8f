// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file enforces admin sessions on protected endpoints. Verification is
// entirely local (signature and expiry of a self-contained token); it never
// touches the store, so a backing-store outage cannot reject a valid session.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careline/clinic-backend/internal/auth"
)

// adminUserKey is the Gin context key for the authenticated admin username.
const adminUserKey = "adminUser"

// RequireAdmin returns a Gin middleware that rejects requests without a valid
// Bearer admin session token. Missing, malformed, forged, and expired tokens
// all yield the same 401 envelope. On success the admin username is stored in
// the context under "adminUser".
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "invalid or missing session token",
			})
			return
		}
		c.Set(adminUserKey, claims.Subject)
		c.Next()
	}
}

// AdminUser returns the authenticated admin username set by RequireAdmin,
// or "" when the request is unauthenticated.
func AdminUser(c *gin.Context) string {
	if v, ok := c.Get(adminUserKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
