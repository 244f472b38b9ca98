package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/session"
)

const sessionKey = "session"

// AuthMiddleware verifies the bearer token and stores the resulting session
// context on the request. Requests without a valid token are rejected.
func AuthMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		ctx, err := sessions.Parse(parts[1])
		if err != nil {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		SetSession(c, ctx)
		c.Next()
	}
}

// SetSession stores ctx on the request.
func SetSession(c *gin.Context, ctx session.Context) {
	c.Set(sessionKey, ctx)
}

// Session returns the session context of the request, or an anonymous one
// when AuthMiddleware did not run.
func Session(c *gin.Context) session.Context {
	if v, ok := c.Get(sessionKey); ok {
		if ctx, ok := v.(session.Context); ok {
			return ctx
		}
	}
	return session.Anonymous()
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.StatusCode, gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	})
}
