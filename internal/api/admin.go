package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"trusty_wallet/internal/domain"  // Importing domain models
	"trusty_wallet/internal/service" // Business services
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	domain.User
	WalletCount int `json:"wallet_count"` // Number of wallets
}

// ListUsersHandler returns all users ordered by registration time
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context()) // Served from the users cache when warm
		if err != nil {
			respondError(c, err)
			return
		}
		resp := make([]UserAdminResponse, len(list))
		for i, u := range list {
			count := len(u.Wallets)
			u.Wallets = nil // Listing shows the count only
			resp[i] = UserAdminResponse{User: u, WalletCount: count}
		}
		c.JSON(http.StatusOK, gin.H{"users": resp, "total": len(resp)})
	}
}

// ChangeUserRoleHandler toggles a user between USER and ADMIN
func ChangeUserRoleHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := users.ChangeRole(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// ChangeUserStatusHandler toggles a user's active flag
func ChangeUserStatusHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		user, err := users.ChangeStatus(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// ReportsHandler returns the users, wallets and transactions reports
func ReportsHandler(svc *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersReport, err := svc.Users.Report(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		walletsReport, err := svc.Wallets.Report(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		txReport, err := svc.Transactions.Report(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users":        usersReport,   // User counts
			"wallets":      walletsReport, // Wallet counts and balances
			"transactions": txReport,      // Ledger totals
		})
	}
}
