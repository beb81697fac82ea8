package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/pkg/response"
)

// ContextKeyUserID is the gin context key holding the session user id
const ContextKeyUserID = "user_id"

// IdentitySource yields the current session identity
type IdentitySource interface {
	Identity() (domain.Identity, bool)
}

// SessionIdentity records the session user id, if any, on the gin context
func SessionIdentity(session IdentitySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := session.Identity(); ok {
			c.Set(ContextKeyUserID, identity.ID)
		}
		c.Next()
	}
}

// RequireSession aborts with 401 when no session is held
func RequireSession(session IdentitySource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.Identity(); !ok {
			response.Unauthorized(c, "Login required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the session user id recorded on the gin context
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
