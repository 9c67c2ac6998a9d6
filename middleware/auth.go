package middleware

import (
	"net/http"
	"strings"

	"barberbook/config"
	"barberbook/services/backend"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	CtxUserID  = "userID"
	CtxRole    = "role"
	CtxEmail   = "email"
	CtxIsStaff = "isStaff"
)

// RefreshTokenHeader carries the backend refresh token alongside the bearer.
const RefreshTokenHeader = "X-Refresh-Token"

// IsStaffRole reports whether role books on behalf of walk-in customers.
func IsStaffRole(role string) bool {
	return role == "admin" || role == "barber"
}

// JWTAuthMiddleware reads the backend access token, exposes its claims on
// the gin context and attaches the token pair to the request context so
// backend calls made for this request carry it.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ParseClaims(tokenString, config.AppConfig.JWTSecret)
		if err != nil {
			zap.L().Debug("rejecting bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		email := claims.Email
		if email == "" {
			email = c.GetHeader("X-User-Email")
		}
		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxEmail, email)
		c.Set(CtxIsStaff, IsStaffRole(claims.Role))

		creds := &backend.Credentials{Access: tokenString, Refresh: c.GetHeader(RefreshTokenHeader)}
		c.Request = c.Request.WithContext(backend.WithCredentials(c.Request.Context(), creds))

		c.Next()
	}
}

// AdminOnly must run after JWTAuthMiddleware. Without JWT_SECRET the role
// claim is unverified, so admin routes are closed.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.AppConfig.JWTSecret == "" {
			zap.L().Warn("admin route refused: JWT_SECRET is not configured")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access is not configured"})
			return
		}
		if c.GetString(CtxRole) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
			return
		}
		c.Next()
	}
}
