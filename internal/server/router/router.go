package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/server/handlers"
)

// Handlers groups the adapters mounted on the engine. Webhook is optional.
type Handlers struct {
	Inventory *handlers.InventoryHandler
	Cart      *handlers.CartHandler
	Insights  *handlers.InsightsHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/dashboard", h.Inventory.Dashboard)
	api.GET("/products", h.Inventory.ListProducts)
	api.POST("/products", h.Inventory.CreateProduct)
	api.GET("/contacts", h.Inventory.ListContacts)
	api.POST("/contacts", h.Inventory.CreateContact)
	api.GET("/transactions", h.Inventory.ListTransactions)

	carts := api.Group("/carts/:direction")
	carts.GET("", h.Cart.Get)
	carts.DELETE("", h.Cart.Clear)
	carts.POST("/lines", h.Cart.AddLine)
	carts.DELETE("/lines/:index", h.Cart.RemoveLine)
	carts.POST("/checkout", h.Cart.Checkout)

	api.POST("/insights", h.Insights.Start)
	api.GET("/insights", h.Insights.Status)

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		api.POST("/notify", h.Webhook.Notify)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Bool("whatsapp", h.Webhook != nil))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
