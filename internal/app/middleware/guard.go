package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

// RequireSession lets the request through only when the session has an
// identity. It is evaluated per request; nothing is cached.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := session.FromGin(c)
		if sc.Initializing() {
			c.Header("Retry-After", "1")
			c.String(http.StatusServiceUnavailable, "Loading...")
			c.Abort()
			return
		}
		if _, ok := sc.Identity(); !ok {
			Navigate(c, session.LoginPath)
			return
		}
		c.Next()
	}
}

// RequireRole sends identities outside roles to fallback. It shapes
// navigation only; the backend authorizes every call on its own.
func RequireRole(fallback string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := session.FromGin(c).Identity()
		if !ok {
			Navigate(c, session.LoginPath)
			return
		}
		if !slices.Contains(roles, id.Role) {
			Navigate(c, fallback)
			return
		}
		c.Next()
	}
}
