package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"trusty_wallet/internal/service" // Business services
)

// ListTransactionsHandler returns the caller's transactions newest first
func ListTransactionsHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		list, err := txs.ListByOwner(c.Request.Context(), userID) // Fetch the caller's ledger
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": list, "total": len(list)})
	}
}

// GetTransactionHandler returns one of the caller's transactions
func GetTransactionHandler(txs *service.TransactionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		tx, err := txs.Get(c.Request.Context(), id, userID) // Only the owner's entries are visible
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": tx})
	}
}
