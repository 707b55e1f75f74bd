package handler

import (
	"net/http"

	"mexared-ledger/internal/adapter/http/middleware"
	redisStore "mexared-ledger/internal/adapter/storage/redis"
	"mexared-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	TransferSvc    ports.TransferService
	MarginSvc      ports.MarginService
	ReconSvc       ports.ReconciliationService
	Resolver       ports.HierarchyResolver
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Metrics        http.Handler // nil = no /metrics
	OpenAPISpec    []byte
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.AuditLog(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec(deps.OpenAPISpec))
	}

	rules := middleware.DefaultRateLimitRules()
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

	// Every ledger route needs a bearer token.
	v1 := r.Group("/api/v1", middleware.JWTAuth(deps.TokenSvc, deps.Logger))

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.Resolver)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("/credit", rl("movements"), walletHandler.Credit)
		wallets.POST("/debit", rl("movements"), walletHandler.Debit)
		wallets.POST("/block", rl("movements"), walletHandler.Block)
		wallets.POST("/unblock", rl("movements"), walletHandler.Unblock)
		wallets.GET("/:owner/snapshot", rl("reads"), walletHandler.Snapshot)
	}

	transferHandler := NewTransferHandler(deps.TransferSvc)
	v1.POST("/transfers", rl("transfers"), transferHandler.Transfer)

	marginHandler := NewMarginHandler(deps.MarginSvc)
	margins := v1.Group("/margins")
	{
		margins.POST("/compute", rl("reads"), marginHandler.Compute)
		margins.POST("", rl("margins"), marginHandler.Configure)
		margins.PUT("/vendor-price", rl("margins"), marginHandler.UpdateVendorPrice)
		margins.POST("/archive", rl("margins"), marginHandler.Archive)
		margins.GET("/quote", rl("reads"), marginHandler.Quote)
	}

	hierarchyHandler := NewHierarchyHandler(deps.Resolver)
	v1.GET("/hierarchy/authorized", rl("reads"), hierarchyHandler.Authorized)

	reconcileHandler := NewReconcileHandler(deps.ReconSvc)
	reconcile := v1.Group("/reconcile")
	{
		reconcile.GET("/:wallet_id", rl("reconcile"), reconcileHandler.Reconcile)
		reconcile.POST("/:wallet_id/clear", rl("reconcile"), reconcileHandler.ClearHold)
	}

	return r
}
