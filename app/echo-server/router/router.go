package router

import (
	"multiMart/internal/rest"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Guards are the route-level middlewares shared by every group.
type Guards struct {
	Auth      echo.MiddlewareFunc
	AdminOnly echo.MiddlewareFunc
	Vendor    echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, g Guards) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register, g.RateLimit)
	users.POST("/login", handler.Login, g.RateLimit)

	users.GET("/me", handler.GetMe, g.Auth)
	users.PUT("/me", handler.UpdateMe, g.Auth)
	users.DELETE("/:id", handler.DeleteUser, g.Auth, g.AdminOnly)
}

func SetupVendorRoutes(api *echo.Group, handler *rest.VendorHandler, g Guards) {
	vendors := api.Group("/vendors", g.Auth)

	vendors.POST("", handler.Apply)
	vendors.GET("/me", handler.GetMine, g.Vendor)
	vendors.PUT("/me", handler.UpdateMine, g.Vendor)
	vendors.GET("", handler.List, g.AdminOnly)
	vendors.PUT("/:id/status", handler.SetStatus, g.AdminOnly)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, reviews *rest.ReviewHandler, g Guards) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/categories", handler.GetCategories)
	products.GET("/vendor/my-products", handler.GetMyProducts, g.Auth, g.Vendor)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, g.Auth, g.Vendor)
	products.PUT("/:id", handler.UpdateProduct, g.Auth, g.Vendor)
	products.DELETE("/:id", handler.DeleteProduct, g.Auth, g.Vendor)

	products.GET("/:id/reviews", reviews.ListByProduct)
	products.POST("/:id/reviews", reviews.Create, g.Auth)
	api.DELETE("/reviews/:id", reviews.Delete, g.Auth)
}

func SetupOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, g Guards) {
	orders := api.Group("/orders", g.Auth)

	orders.POST("", handler.CreateOrder, g.RateLimit)
	orders.GET("", handler.GetAllOrders)
	orders.GET("/vendor/my-orders", handler.GetVendorOrders, g.Vendor)
	orders.GET("/:id", handler.GetOrderByID)
	orders.PUT("/:id/status", handler.UpdateStatus, g.Vendor)
	orders.POST("/:id/cancel", handler.CancelOrder)
}

func SetupDisputeRoutes(api *echo.Group, handler *rest.DisputeHandler, g Guards) {
	disputes := api.Group("/disputes", g.Auth)

	disputes.POST("", handler.Open)
	disputes.GET("", handler.ListMine)
	disputes.GET("/vendor", handler.ListForVendor, g.Vendor)
	disputes.PUT("/:id", handler.Resolve, g.AdminOnly)
}

func SetupPayoutRoutes(api *echo.Group, handler *rest.PayoutHandler, g Guards) {
	payouts := api.Group("/payouts", g.Auth)

	payouts.POST("", handler.Request, g.Vendor)
	payouts.GET("", handler.ListMine, g.Vendor)
	payouts.PUT("/:id", handler.Process, g.AdminOnly)
}

func SetupMessageRoutes(api *echo.Group, handler *rest.MessageHandler, g Guards) {
	messages := api.Group("/messages", g.Auth)

	messages.POST("", handler.Send)
	messages.GET("", handler.Inbox)
	messages.GET("/:userId", handler.Conversation)
	messages.PUT("/:id/read", handler.MarkRead)
}

// SetupStorageRoutes caps request bodies at bodyLimit, e.g. "50M".
func SetupStorageRoutes(api *echo.Group, handler *rest.StorageHandler, bodyLimit string, g Guards) {
	storage := api.Group("/storage", g.Auth, echomiddleware.BodyLimit(bodyLimit))

	storage.POST("/upload", handler.Upload)
	storage.POST("/upload-multiple", handler.UploadMultiple)
	storage.DELETE("", handler.Delete)
}

func SetupHealthRoutes(api *echo.Group, handler *rest.HealthHandler) {
	api.GET("/health", handler.Check)
	api.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
