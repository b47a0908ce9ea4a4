package middleware

import (
	"errors"
	"net/http"
	"strings"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session"
	sessionKey    = "session"
)

// TokenFromRequest returns the bearer token, falling back to the session
// cookie.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// GetSession returns the session set by RequireAPISession or
// RequirePageSession. Anonymous requests get the zero Session.
func GetSession(c *gin.Context) service.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return service.Session{}
	}
	sess, _ := v.(service.Session)
	return sess
}

// RequireAPISession rejects anonymous requests with 401.
func RequireAPISession(auth *service.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := auth.Resolve(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
				return
			}
			logger.WithContext(c.Request.Context()).Error("resolve session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequirePageSession redirects anonymous browsers to loginPath.
func RequirePageSession(auth *service.Authenticator, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := auth.Resolve(c.Request.Context(), TokenFromRequest(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.Redirect(http.StatusFound, loginPath)
				c.Abort()
				return
			}
			logger.WithContext(c.Request.Context()).Error("resolve session", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}
