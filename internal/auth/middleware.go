package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key under which Middleware stores the
// verified Identity.
const IdentityKey = "identity"

// Middleware gates protected routes on a bearer credential. Missing header,
// malformed token and bad signature are all rejected the same way.
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			identity, err := svc.Verify(token)
			if err == nil {
				c.Set(IdentityKey, identity)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
