package api

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library

	"trusty_wallet/internal/domain" // Domain errors
)

// errorStatuses maps domain errors to HTTP statuses
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrUsernameTaken, http.StatusConflict},
	{domain.ErrEmailTaken, http.StatusConflict},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrWalletNotFound, http.StatusNotFound},
	{domain.ErrCreditNotFound, http.StatusNotFound},
	{domain.ErrTransactionNotFound, http.StatusNotFound},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUserInactive, http.StatusForbidden},
}

// respondError writes the status for a known domain error, 500 otherwise
func respondError(c *gin.Context, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.err.Error()})
			return
		}
	}
	logrus.WithFields(logrus.Fields{
		"path":  c.FullPath(),
		"error": err.Error(),
	}).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// badRequest rejects a malformed request body or parameter
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
