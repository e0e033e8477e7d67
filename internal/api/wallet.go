package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Money amounts

	"trusty_wallet/internal/domain"     // Importing domain models
	"trusty_wallet/internal/middleware" // Caller identity
	"trusty_wallet/internal/service"    // Business services
)

// TransferRequest represents a transfer request
type TransferRequest struct {
	From   string          `json:"from" binding:"required,uuid"` // Sender wallet ID, owned by the caller
	To     string          `json:"to" binding:"required"`        // Receiver username
	Amount decimal.Decimal `json:"amount"`                       // Positive, at most two decimals
}

// ChargeRequest represents a charge-up of an own wallet
type ChargeRequest struct {
	Amount decimal.Decimal `json:"amount"` // Positive, at most two decimals
}

// PayCreditRequest names the wallet the credit is paid from
type PayCreditRequest struct {
	WalletID string `json:"wallet_id" binding:"required,uuid"` // Paying wallet
}

// WalletView is a wallet with its most recent transactions
type WalletView struct {
	domain.Wallet
	LastTransactions []domain.Transaction `json:"last_transactions"` // Newest first
}

// callerID reads the authenticated user or aborts with 401
func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}

// pathID parses a uuid path parameter or responds 400
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// HomeHandler returns the caller with wallets and credit
func HomeHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		user, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "credit": user.Credit})
	}
}

// ListWalletsHandler returns the caller's wallets with their last transactions
func ListWalletsHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		ws, err := wallets.ListByOwner(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		last, err := wallets.LastTransactions(ctx, ws)
		if err != nil {
			respondError(c, err)
			return
		}
		views := make([]WalletView, len(ws))
		for i, w := range ws {
			views[i] = WalletView{Wallet: w, LastTransactions: last[w.ID]}
			if views[i].LastTransactions == nil {
				views[i].LastTransactions = []domain.Transaction{} // Render [] rather than null
			}
		}
		c.JSON(http.StatusOK, gin.H{"wallets": views})
	}
}

// ChangeWalletStatusHandler toggles one of the caller's wallets
func ChangeWalletStatusHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		walletID, ok := pathID(c, "id")
		if !ok {
			return
		}
		wallet, err := wallets.ChangeStatus(c.Request.Context(), userID, walletID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// ChargeWalletHandler charges one of the caller's wallets
func ChargeWalletHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		walletID, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req ChargeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid amount")
			return
		}
		tx, err := wallets.ChargeUp(c.Request.Context(), userID, walletID, req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": tx})
	}
}

// TransferHandler sends funds to another user's first active wallet
func TransferHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req TransferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		tx, err := wallets.Transfer(c.Request.Context(), userID, service.TransferInput{
			From:     uuid.MustParse(req.From), // Validated by binding
			Receiver: req.To,
			Amount:   req.Amount,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		// Failed attempts are recorded, so both outcomes are 200
		c.JSON(http.StatusOK, gin.H{"transaction": tx})
	}
}

// PayCreditHandler pays the caller's outstanding credit
func PayCreditHandler(wallets *service.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req PayCreditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		tx, err := wallets.PayCredit(c.Request.Context(), userID, uuid.MustParse(req.WalletID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": tx})
	}
}
