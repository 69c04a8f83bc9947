package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskquest/internal/application"
	"github.com/oksasatya/taskquest/pkg/response"
)

const (
	CtxUsernameKey = "username"
	CtxTokenKey    = "token"
)

// Authenticator resolves a bearer token to its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth validates the bearer token against the owner's live sessions.
// It sets username and token in the Gin context on success.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Token is missing", nil)
			return
		}
		username, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, application.ErrUnauthorized) {
				response.Abort(c, http.StatusUnauthorized, "Invalid or expired session token", nil)
				return
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxUsernameKey, username)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}
