package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopbridge/backend/internal/infrastructure/auth"
	"github.com/shopbridge/backend/internal/infrastructure/logger"
	"github.com/shopbridge/backend/internal/interfaces/http/handler"
	"github.com/shopbridge/backend/internal/interfaces/http/middleware"
)

// Config holds everything the router needs
type Config struct {
	Marketplace *handler.MarketplaceHandler
	System      *handler.SystemHandler
	JWTService  *auth.JWTService
	CORS        middleware.CORSConfig
	Logger      *zap.Logger
}

// Setup builds the gin engine with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(logger.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.GET("/healthz", cfg.System.Healthz)

	api := r.Group("/api/v1")

	mp := api.Group("/marketplace")
	{
		// The callback is invoked by the platform redirect and carries no
		// bearer token. The one-time code is its own proof.
		mp.GET("/callback", cfg.Marketplace.HandleCallback)

		authed := mp.Group("")
		authed.Use(middleware.JWTAuth(cfg.JWTService))
		{
			authed.GET("/authorize-url", cfg.Marketplace.GetAuthorizeURL)

			authed.GET("/shops", cfg.Marketplace.ListShops)
			authed.GET("/shops/:shop_id", cfg.Marketplace.GetShop)
			authed.DELETE("/shops/:shop_id", cfg.Marketplace.DisconnectShop)

			authed.POST("/shops/:shop_id/sync/orders", cfg.Marketplace.SyncOrders)
			authed.POST("/shops/:shop_id/sync/products", cfg.Marketplace.SyncProducts)

			authed.GET("/shops/:shop_id/orders", cfg.Marketplace.ListOrders)
			authed.GET("/shops/:shop_id/orders/:order_sn", cfg.Marketplace.GetOrder)
			authed.POST("/shops/:shop_id/orders/:order_sn/ship", cfg.Marketplace.ShipOrder)

			authed.GET("/shops/:shop_id/products", cfg.Marketplace.ListProducts)
			authed.GET("/shops/:shop_id/products/:item_id", cfg.Marketplace.GetProduct)
		}
	}

	return r
}
