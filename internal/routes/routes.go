package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/config"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/handlers"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/middleware"
)

// CORSMiddleware allows the single configured frontend origin to call the API.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Idempotency-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests get an empty 204.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SetupRouter wires every endpoint, guard, and cross-cutting middleware.
func SetupRouter(h *handlers.Handlers, cfg *config.Config, limiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware(cfg.CORSOrigin))
	router.Use(middleware.RequestID())

	api := router.Group("/api")
	api.Use(limiter.Middleware())
	{
		// --- Health Check (Public) ---
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "OK",
				"message":   "Ramzan Homeo. Store & Clinic API is running",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		// --- Auth Routes (Public) ---
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)

		// --- Protected Routes (Login Required) ---
		authed := api.Group("/")
		authed.Use(middleware.AuthMiddleware(h.DB, h.JWTSecret))
		{
			authed.GET("/auth/me", h.Me)

			// --- Products ---
			authed.GET("/products", h.GetProducts)
			authed.GET("/products/:id", h.GetProduct)
			authed.POST("/products", middleware.RequireAdmin(), h.CreateProduct)
			authed.PUT("/products/:id", middleware.RequireAdmin(), h.UpdateProduct)
			authed.DELETE("/products/:id", middleware.RequireAdmin(), h.DeleteProduct)

			// --- Potencies ---
			authed.GET("/potencies", h.GetPotencies)
			authed.POST("/potencies", middleware.RequireAdmin(), h.CreatePotency)
			authed.PUT("/potencies/:id", middleware.RequireAdmin(), h.UpdatePotency)
			authed.DELETE("/potencies/:id", middleware.RequireAdmin(), h.DeletePotency)

			// --- Orders ---
			authed.GET("/orders", h.GetOrders)
			authed.GET("/orders/:id", h.GetOrder)
			authed.POST("/orders", middleware.Idempotency(h.DB), h.CreateOrder)
			authed.PUT("/orders/:id/status", middleware.RequireAdmin(), h.UpdateOrderStatus)

			// --- Invoices ---
			authed.GET("/invoices", h.GetInvoices)
			authed.GET("/invoices/:id", h.GetInvoice)
			authed.POST("/invoices", middleware.RequireAdmin(), middleware.Idempotency(h.DB), h.CreateInvoice)
			authed.PUT("/invoices/:id/payment", middleware.RequireAdmin(), h.RecordPayment)

			// --- Dashboard ---
			authed.GET("/dashboard/stats", h.GetDashboardStats)

			// --- Stores (Admin-Only) ---
			stores := authed.Group("/stores")
			stores.Use(middleware.RequireAdmin())
			{
				stores.GET("", h.GetStores)
				stores.GET("/:id", h.GetStore)
				stores.PUT("/:id", h.UpdateStore)
				stores.PUT("/:id/status", h.UpdateStoreStatus)
			}

			// --- User Administration (Admin-Only) ---
			admin := authed.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", h.GetUsers)
				admin.POST("/users", h.CreateUser)
				admin.PUT("/users/:id", h.UpdateUser)
				admin.DELETE("/users/:id", h.DeleteUser)
			}
		}
	}

	// Unknown routes get the same JSON shape as every other error.
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	return router
}
