package router

import (
	"net/http"

	"pixgate/config"
	"pixgate/internal/handler"
	"pixgate/internal/middleware"
	"pixgate/internal/repository"
	"pixgate/internal/service"
	"pixgate/pkg/pix"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Repositories
	txRepo := repository.NewTransactionRepository(db)
	gwRepo := repository.NewGatewayRepository(db)
	planRepo := repository.NewPlanRepository(db)

	// Services
	registry := service.NewGatewayRegistry(gwRepo, log)
	reconciler := service.NewReconciler(txRepo, gwRepo, pix.ForProvider, log)
	checkoutSvc := service.NewCheckoutService(registry, planRepo, txRepo, reconciler,
		pix.ForProvider, cfg.Mock.ConfirmDelay, cfg.Webhook.BaseURL, log)

	// Handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc, reconciler, txRepo)
	webhookHandler := handler.NewWebhookHandler(reconciler, log)
	gatewayHandler := handler.NewGatewayHandler(gwRepo)
	planHandler := handler.NewPlanHandler(planRepo)

	tenantMw := middleware.TenantRequired(&cfg.JWT)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		// Provider callbacks carry no tenant credentials.
		api.POST("/webhooks/:provider", webhookHandler.Handle)

		tenant := api.Group("")
		tenant.Use(tenantMw)
		{
			tenant.POST("/checkout", checkoutHandler.Checkout)
			tenant.GET("/transactions/:id", checkoutHandler.Get)
			tenant.POST("/transactions/:id/refresh", checkoutHandler.Refresh)

			tenant.POST("/gateways", gatewayHandler.Create)
			tenant.GET("/gateways", gatewayHandler.List)
			tenant.PATCH("/gateways/:id", gatewayHandler.Update)

			tenant.POST("/plans", planHandler.Create)
			tenant.GET("/plans", planHandler.List)
		}
	}

	return r
}
