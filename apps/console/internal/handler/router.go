package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/middleware"
)

// Handlers groups every console handler
type Handlers struct {
	Health   *HealthHandler
	Session  *SessionHandler
	Products *ProductHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Users    *UserHandler
}

// RouteConfig carries what the routes need besides handlers
type RouteConfig struct {
	// Session gates the authenticated group
	Session middleware.IdentitySource
	// Replay guards checkout submissions; nil disables it
	Replay gin.HandlerFunc
}

// RegisterRoutes mounts the console API on r
func RegisterRoutes(r *gin.Engine, h *Handlers, cfg RouteConfig) {
	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.SessionIdentity(cfg.Session))

	// Public
	v1.GET("/catalog", h.Products.Catalog)
	v1.GET("/categories", h.Products.ListCategories)

	session := v1.Group("/session")
	{
		session.POST("/login", h.Session.Login)
		session.POST("/register", h.Session.Register)
		session.POST("/token", h.Session.AdoptToken)
		session.DELETE("", h.Session.Logout)
		session.GET("", h.Session.Current)
		session.PUT("/profile", h.Session.UpdateProfile)
	}

	cart := v1.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:productId", h.Cart.UpdateItem)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
	}

	auth := v1.Group("")
	auth.Use(middleware.RequireSession(cfg.Session))
	{
		checkout := []gin.HandlerFunc{h.Cart.Checkout}
		if cfg.Replay != nil {
			checkout = append([]gin.HandlerFunc{cfg.Replay}, checkout...)
		}
		auth.POST("/checkout", checkout...)

		auth.GET("/products", h.Products.List)
		auth.GET("/products/stock", h.Products.Stock)
		auth.POST("/products", h.Products.Create)
		auth.PUT("/products/:id", h.Products.Update)
		auth.DELETE("/products/:id", h.Products.Delete)

		auth.POST("/categories", h.Products.CreateCategory)
		auth.PUT("/categories/:id", h.Products.UpdateCategory)
		auth.DELETE("/categories/:id", h.Products.DeleteCategory)

		auth.GET("/suppliers", h.Products.ListSuppliers)
		auth.POST("/suppliers", h.Products.CreateSupplier)
		auth.PUT("/suppliers/:id", h.Products.UpdateSupplier)
		auth.DELETE("/suppliers/:id", h.Products.DeleteSupplier)

		auth.GET("/orders", h.Orders.ListOrders)
		auth.GET("/deliveries", h.Orders.ListDeliveries)
		auth.PUT("/deliveries/:id/status", h.Orders.UpdateDeliveryStatus)
		auth.GET("/stats", h.Orders.Stats)

		auth.GET("/users", h.Users.List)
		auth.PUT("/users/:id", h.Users.Update)
	}
}
