package middleware

import (
	"context"  // Request context
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // User identifiers

	"trusty_wallet/internal/domain" // Importing domain models
)

// UserLookup loads the current state of a user
type UserLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AdminOnlyMiddleware checks the user's role from the store on each request,
// so a revoked role takes effect before the token expires
func AdminOnlyMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := CurrentUserID(c) // Get userID from context
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := users.Get(c.Request.Context(), userID) // Fetch user from store
		// If user not found, inactive or not an admin, abort with forbidden status
		if err != nil || !user.Active || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next() // If admin, proceed to the next handler
	}
}
