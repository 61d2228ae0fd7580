package handler

import (
	"ewallet/internal/adapter/http/middleware"
	redisStore "ewallet/internal/adapter/storage/redis"
	"ewallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	LedgerSvc      ports.LedgerService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	OpenAPISpec    []byte
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swaggerHandler := NewSwaggerHandler(deps.OpenAPISpec)
	swagger := r.Group("/swagger")
	{
		swagger.GET("", swaggerHandler.UI)
		swagger.GET("/spec", swaggerHandler.Spec)
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.LedgerSvc)
	wallets := v1.Group("/wallets")
	{
		wallets.GET("", rl(middleware.GroupRead), walletHandler.List)
		wallets.POST("", rl(middleware.GroupWalletsWrite), walletHandler.Create)
		wallets.GET("/:slug", rl(middleware.GroupRead), walletHandler.Get)
		wallets.PUT("/:slug", rl(middleware.GroupWalletsWrite), walletHandler.Rename)
		wallets.DELETE("/:slug", rl(middleware.GroupWalletsWrite), walletHandler.Delete)
		wallets.GET("/:slug/transactions", rl(middleware.GroupRead), walletHandler.ListTransactions)
	}

	txHandler := NewTransactionHandler(deps.LedgerSvc, deps.WalletSvc)
	transactions := v1.Group("/transactions")
	{
		transactions.GET("", rl(middleware.GroupRead), txHandler.List)
		transactions.POST("", rl(middleware.GroupTransactionsWrite), txHandler.Apply)
		transactions.GET("/:id", rl(middleware.GroupRead), txHandler.Get)
		transactions.DELETE("/:id", rl(middleware.GroupTransactionsWrite), txHandler.Reverse)
	}

	return r
}
