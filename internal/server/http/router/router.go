package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/printmart/printmart/internal/server/http/handlers"
	"github.com/printmart/printmart/internal/server/http/middleware"
)

// Options carries everything the route table needs besides the facade.
type Options struct {
	Facade      handlers.MarketFacade
	Events      handlers.EventSource
	TokenParser middleware.TokenParser
	SuccessURL  string
	FailureURL  string
	Logger      *slog.Logger
}

// Setup configures the gin router with handlers and middleware.
func Setup(opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(opts.Logger))
	engine.Use(middleware.DecompressRequest())
	// The SSE stream must not be buffered by the gzip writer.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/user/events"})))

	paymentHandler := handlers.NewPaymentHandler(opts.Facade, opts.SuccessURL, opts.FailureURL)
	orderHandler := handlers.NewOrderHandler(opts.Facade)
	cartHandler := handlers.NewCartHandler(opts.Facade)
	merchantHandler := handlers.NewMerchantHandler(opts.Facade)
	eventsHandler := handlers.NewEventsHandler(opts.Events)

	api := engine.Group("/api/v1")

	payment := api.Group("/payment")
	payment.GET("/status", paymentHandler.Status)
	payment.POST("/status", paymentHandler.Status)
	payment.POST("/callback", paymentHandler.Callback)

	user := api.Group("/user")
	user.Use(middleware.UserAuth(opts.TokenParser))
	user.POST("/payment/checkout", paymentHandler.Checkout)
	user.GET("/payment/verify", paymentHandler.Verify)
	user.GET("/orders/active", orderHandler.Active)
	user.GET("/orders/history", orderHandler.History)
	user.GET("/cart", cartHandler.Get)
	user.POST("/cart/items", cartHandler.Put)
	user.PUT("/cart/items", cartHandler.Put)
	user.DELETE("/cart/items/:itemId", cartHandler.Remove)
	user.DELETE("/cart", cartHandler.Clear)
	user.GET("/events", eventsHandler.Stream)

	merchant := api.Group("/merchant/orders")
	merchant.Use(middleware.MerchantAuth(opts.TokenParser))
	merchant.GET("/dashboard/:storeId", merchantHandler.Dashboard)
	merchant.GET("/:storeId", merchantHandler.Orders)
	merchant.PUT("/is-viewed/:storeId/:orderId", merchantHandler.MarkViewed)
	merchant.PUT("/change-status/:storeId/:orderId/:status", merchantHandler.ChangeStatus)
	merchant.PUT("/toggle-status/:storeId/:orderId", merchantHandler.ToggleStatus)
	merchant.PUT("/cancel/:storeId/:orderId", merchantHandler.Cancel)

	return engine
}
