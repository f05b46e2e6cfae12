package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"careergap/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	sessionKey   = "sessionToken"
)

// Identity is the authenticated principal behind a bearer session token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// SessionValidator resolves a bearer token to an identity.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (Identity, error)
}

// SessionValidatorFunc adapts a function to SessionValidator.
type SessionValidatorFunc func(ctx context.Context, token string) (Identity, error)

// ValidateSession calls f.
func (f SessionValidatorFunc) ValidateSession(ctx context.Context, token string) (Identity, error) {
	return f(ctx, token)
}

// Auth requires a valid "Authorization: Bearer <session>" header and stores
// the identity in the gin context.
func Auth(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token, ok := BearerToken(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing or invalid token", nil)
			return
		}

		ident, err := sessions.ValidateSession(c.Request.Context(), token)
		if err != nil || ident.UserID == "" {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, ident.UserID)
		c.Set(sessionKey, token)
		if ident.Email != "" {
			c.Set(userEmailKey, ident.Email)
		}
		if ident.Name != "" {
			c.Set(userNameKey, ident.Name)
		}
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	return token, token != ""
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return stringFromContext(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return stringFromContext(c, userEmailKey)
}

// UserNameFromContext fetches the display name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return stringFromContext(c, userNameKey)
}

// SessionTokenFromContext returns the bearer token that authenticated the request.
func SessionTokenFromContext(c *gin.Context) string {
	return stringFromContext(c, sessionKey)
}

func stringFromContext(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
