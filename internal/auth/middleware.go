package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nft1025/task/internal/domain"
)

const contextKeySession = "session"

// SessionFromContext returns the session set by RequireSession, nil if unset.
func SessionFromContext(c *gin.Context) *domain.Session {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return nil
	}
	sess, ok := v.(*domain.Session)
	if !ok {
		return nil
	}
	return sess
}

// RequireSession resolves the current session and stores it in the request
// context. Unauthenticated requests get a 401; redirecting to the entry
// point is the UI's job.
func RequireSession(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.Get(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeySession, sess)
		c.Next()
	}
}
