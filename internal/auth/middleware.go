package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const callerContextKey = "caller_account_id"

// RequireAuth validates the bearer token and stores the caller's account id
// in the request context. Engine-level code receives the caller explicitly;
// this middleware is only the transport-side extraction.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		accountID, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(callerContextKey, accountID)
		c.Next()
	}
}

// CallerID returns the authenticated account id set by RequireAuth.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(callerContextKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
