package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hierfortune/server/internal/module/auth"
	apperrors "github.com/hierfortune/server/internal/shared/errors"
)

const (
	// AuthorizationHeader is the header key for authorization.
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens.
	BearerPrefix = "Bearer "
	// UserIDKey is the context key for user ID.
	UserIDKey = "user_id"
	// EmailKey is the context key for email.
	EmailKey = "email"
)

// TokenValidator defines the interface for access token validation.
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// RequireAuth returns a middleware that validates JWT tokens and sets
// user_id and email in the context.
func RequireAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			appErr := apperrors.Unauthorized("authorization header required")
			c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			appErr := apperrors.Unauthorized("invalid or expired token")
			c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)

		c.Next()
	}
}

// CurrentUserID returns the authenticated user ID from the context.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

// extractBearerToken extracts the bearer token from the Authorization header.
func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, BearerPrefix)
}
