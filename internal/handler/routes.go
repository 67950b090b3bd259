package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/internal/middleware"
)

// Register mounts every route on e
func (h *Handler) Register(e *echo.Echo) {
	// Public routes
	e.GET("/health", h.HealthCheck)
	e.GET("/metrics", MetricsHandler)

	e.POST("/auth/login", h.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(h.jwt))

	api.POST("/account/password", h.ChangePassword)

	clients := api.Group("/clients")
	clients.GET("", h.ListClients)
	clients.POST("", h.CreateClient)
	clients.DELETE("/:id", h.DeleteClient)
	clients.GET("/:id/orders", h.ListClientOrders)

	orders := api.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.POST("", h.CreateOrder)
	orders.PATCH("/:id/status", h.UpdateOrderStatus)
	orders.DELETE("/:id", h.DeleteOrder)

	api.GET("/dashboard", h.Dashboard)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireSuperuser)
	admin.GET("/tenants", h.ListTenants)
	admin.POST("/tenants", h.CreateTenant)
}
