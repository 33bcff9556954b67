package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	cookieName = "session_id"
	contextKey = "session"

	// Browser session cookie lifetime in seconds
	cookieMaxAge = 60 * 60 * 24
)

// Middleware ensures every request carries a session cookie and exposes a
// *Session on the gin context.
func Middleware(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sessionID, cookieMaxAge, "/", "", false, true)
		}

		c.Set(contextKey, New(store, sessionID))
		c.Next()
	}
}

// FromContext returns the request's Session. The session middleware must
// have run for this route.
func FromContext(c *gin.Context) *Session {
	if v, exists := c.Get(contextKey); exists {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return nil
}
