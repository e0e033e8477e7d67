package api

import (
	"context"  // Preferences interface
	"errors"   // Sentinel errors
	"net/http" // HTTP status codes
	"strconv"  // Bool parsing

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Identifiers

	"trusty_wallet/internal/notification" // Notification client
)

// Preferences reads and changes a user's notification preference
type Preferences interface {
	Preference(ctx context.Context, userID uuid.UUID) (*notification.Preference, error)
	ChangePreference(ctx context.Context, userID uuid.UUID, enabled bool)
}

// GetNotificationsHandler returns the caller's notification preference
func GetNotificationsHandler(prefs Preferences) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		pref, err := prefs.Preference(c.Request.Context(), userID)
		switch {
		case errors.Is(err, notification.ErrNotificationsDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Notification service unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"preference": pref})
	}
}

// ChangeNotificationsHandler flips the preference; :enabled is the current value
func ChangeNotificationsHandler(prefs Preferences) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		current, err := strconv.ParseBool(c.Param("enabled")) // Parse the current value from the path
		if err != nil {
			badRequest(c, "Invalid enabled flag")
			return
		}
		prefs.ChangePreference(c.Request.Context(), userID, !current) // Best effort
		c.JSON(http.StatusOK, gin.H{"enabled": !current})
	}
}
