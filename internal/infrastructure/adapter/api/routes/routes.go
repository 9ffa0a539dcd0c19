package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/joycoin-platform/joycoin-backend/internal/domain/entity"
	coreport "github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/persistence"
	"github.com/joycoin-platform/joycoin-backend/internal/domain/usecase/auth"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/handler"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/api/middleware"
	"github.com/joycoin-platform/joycoin-backend/internal/infrastructure/adapter/ratelimit"
)

// Handlers bundles the API handlers for route registration
type Handlers struct {
	Auth    *handler.AuthHandler
	Deposit *handler.DepositHandler
	Points  *handler.PointsHandler
	Catalog *handler.CatalogHandler
	Admin   *handler.AdminHandler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	handlers Handlers,
	tokens *auth.TokenManager,
	users persistence.UserRepository,
	limiter *ratelimit.Limiter,
	logger coreport.Logger,
) {
	// Public routes
	router.POST("/auth/signup", handlers.Auth.Signup)
	router.POST("/auth/login", handlers.Auth.Login)
	router.GET("/products", handlers.Catalog.ListProducts)
	router.GET("/rate", handlers.Catalog.ActiveRate)

	// Authenticated routes
	authenticated := router.Group("/")
	authenticated.Use(middleware.Authenticated(tokens, users, logger))
	{
		authenticated.GET("/auth/me", handlers.Auth.Me)
		authenticated.POST("/auth/password", handlers.Auth.ChangePassword)

		authenticated.POST("/deposits", middleware.RateLimit(limiter, "deposit"), handlers.Deposit.Create)
		authenticated.GET("/deposits", handlers.Deposit.ListMine)
		authenticated.GET("/deposits/notifications", handlers.Deposit.Notifications)
		authenticated.GET("/deposits/:id", handlers.Deposit.Get)

		authenticated.GET("/points", handlers.Points.Balance)
		authenticated.GET("/points/referrals", handlers.Points.Referrals)
		authenticated.POST("/points/withdrawals", handlers.Points.RequestWithdrawal)
		authenticated.GET("/points/withdrawals", handlers.Points.ListWithdrawals)
	}

	// Admin console. Sector managers share the read-only deposit views;
	// everything else is admin only.
	staff := router.Group("/admin")
	staff.Use(middleware.Authenticated(tokens, users, logger))
	staff.Use(middleware.RequireRole(entity.RoleSectorManager))
	{
		staff.GET("/deposits", handlers.Deposit.ListAll)
		staff.GET("/stats", handlers.Admin.Stats)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.Authenticated(tokens, users, logger))
	admin.Use(middleware.RequireRole())
	{
		admin.POST("/deposits/:id/approve", handlers.Deposit.Approve)
		admin.POST("/deposits/:id/reject", handlers.Deposit.Reject)

		admin.GET("/users", handlers.Admin.ListUsers)
		admin.GET("/users/:id", handlers.Admin.GetUser)
		admin.POST("/users/:id/ban", handlers.Admin.Ban)
		admin.POST("/users/:id/unban", handlers.Admin.Unban)
		admin.POST("/users/:id/promote", handlers.Admin.Promote)
		admin.POST("/users/:id/demote", handlers.Admin.Demote)
		admin.POST("/users/:id/demote-sector-manager", handlers.Admin.DemoteSectorManager)
		admin.POST("/users/:id/points", handlers.Points.AwardPoints)
		admin.GET("/users/:id/points/reconcile", handlers.Points.Reconcile)

		admin.GET("/withdrawals", handlers.Points.ListAllWithdrawals)
		admin.POST("/withdrawals/:id/approve", handlers.Points.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", handlers.Points.RejectWithdrawal)

		admin.GET("/products", handlers.Catalog.ListAllProducts)
		admin.POST("/products", handlers.Catalog.CreateProduct)
		admin.PUT("/products/:id", handlers.Catalog.UpdateProduct)
		admin.DELETE("/products/:id", handlers.Catalog.DeactivateProduct)

		admin.GET("/settings", handlers.Catalog.Settings)
		admin.PUT("/settings/rate", handlers.Catalog.SetRate)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, corsOrigins []string) {
	// Apply middlewares in the correct order
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(corsOrigins))
}
