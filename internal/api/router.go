package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework

	"trusty_wallet/internal/metrics"    // Prometheus handler
	"trusty_wallet/internal/middleware" // Auth and metrics middleware
	"trusty_wallet/internal/service"    // Business services
)

// RouterDeps are the collaborators of the HTTP API
type RouterDeps struct {
	Services      *service.Services // Business services
	Notifications Preferences       // Notification service client
	JWTSecret     string            // Token signing secret
}

// NewRouter builds the gin engine with every route
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.Default() // Gin router instance with logger and recovery
	r.Use(middleware.MetricsMiddleware())

	svc := d.Services
	auth := middleware.JWTAuthMiddleware(d.JWTSecret)

	// Public routes
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.POST("/register", RegisterHandler(svc.Users))
	r.POST("/login", LoginHandler(svc.Users, d.JWTSecret))

	// User routes (protected by JWT)
	user := r.Group("/", auth)
	user.GET("/home", HomeHandler(svc.Users))
	user.GET("/wallets", ListWalletsHandler(svc.Wallets))
	user.PUT("/wallets/:id/status", ChangeWalletStatusHandler(svc.Wallets))
	user.PUT("/wallets/:id/charge", ChargeWalletHandler(svc.Wallets))
	user.POST("/transfers", TransferHandler(svc.Wallets))
	user.POST("/transfers/credit", PayCreditHandler(svc.Wallets))
	user.GET("/transactions", ListTransactionsHandler(svc.Transactions))
	user.GET("/transactions/:id", GetTransactionHandler(svc.Transactions))
	user.GET("/users/:id/profile", GetProfileHandler(svc.Users))
	user.PUT("/users/:id/profile", EditProfileHandler(svc.Users))
	user.GET("/notifications", GetNotificationsHandler(d.Notifications))
	user.PUT("/notifications/:enabled", ChangeNotificationsHandler(d.Notifications))

	// Admin routes (protected, admin only)
	admin := r.Group("/admin", auth, middleware.AdminOnlyMiddleware(svc.Users))
	admin.GET("/users", ListUsersHandler(svc.Users))
	admin.PUT("/users/:id/role", ChangeUserRoleHandler(svc.Users))
	admin.PUT("/users/:id/status", ChangeUserStatusHandler(svc.Users))
	admin.GET("/reports", ReportsHandler(svc))

	return r
}
