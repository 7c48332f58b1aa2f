// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/config"
	"github.com/shopworks/storefront/internal/events"
	"github.com/shopworks/storefront/internal/handlers"
	"github.com/shopworks/storefront/internal/middleware"
	"github.com/shopworks/storefront/internal/services"
	"github.com/shopworks/storefront/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	bus := events.NewBus()
	storageService, _ := services.NewStorageService(cfg)

	catalogService := services.NewCatalogService(db)
	promotionService := services.NewPromotionService(db)
	reviewService := services.NewReviewService(db)
	cartService := services.NewCartService(db)
	customerService := services.NewCustomerService(db)
	orderService := services.NewOrderService(db, bus)

	// Initialize handlers
	collectionHandler := handlers.NewCollectionHandler(catalogService)
	productHandler := handlers.NewProductHandler(catalogService, reviewService, promotionService, storageService)
	promotionHandler := handlers.NewPromotionHandler(promotionService)
	cartHandler := handlers.NewCartHandler(cartService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Collection routes
		collections := v1.Group("/collections")
		{
			collections.GET("", middleware.OptionalAuth(), collectionHandler.GetCollections)
			collections.GET("/:id", middleware.OptionalAuth(), collectionHandler.GetCollection)

			staff := collections.Group("")
			staff.Use(middleware.AuthRequired(), middleware.StaffRequired())
			{
				staff.POST("", collectionHandler.CreateCollection)
				staff.PUT("/:id", collectionHandler.UpdateCollection)
				staff.DELETE("/:id", collectionHandler.DeleteCollection)
			}
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.GET("/:id/images", productHandler.GetProductImages)
			products.GET("/:id/reviews", productHandler.GetReviews)
			products.POST("/:id/reviews", productHandler.CreateReview)

			staff := products.Group("")
			staff.Use(middleware.AuthRequired(), middleware.StaffRequired())
			{
				staff.POST("", productHandler.CreateProduct)
				staff.PUT("/:id", productHandler.UpdateProduct)
				staff.DELETE("/:id", productHandler.DeleteProduct)
				staff.POST("/:id/images", middleware.UploadRateLimit(), productHandler.UploadProductImage)
				staff.DELETE("/:id/images/:imageId", productHandler.DeleteProductImage)
				staff.DELETE("/:id/reviews/:reviewId", productHandler.DeleteReview)
				staff.POST("/:id/promotions/:promotionId", productHandler.AttachPromotion)
				staff.DELETE("/:id/promotions/:promotionId", productHandler.DetachPromotion)
			}
		}

		// Promotion routes
		promotions := v1.Group("/promotions")
		{
			promotions.GET("", promotionHandler.GetPromotions)

			staff := promotions.Group("")
			staff.Use(middleware.AuthRequired(), middleware.StaffRequired())
			{
				staff.POST("", promotionHandler.CreatePromotion)
				staff.PUT("/:id", promotionHandler.UpdatePromotion)
				staff.DELETE("/:id", promotionHandler.DeletePromotion)
			}
		}

		// Cart routes. Carts are anonymous; possession of the id is the
		// only credential.
		carts := v1.Group("/carts")
		{
			carts.POST("", cartHandler.CreateCart)
			carts.GET("/:id", cartHandler.GetCart)
			carts.DELETE("/:id", cartHandler.DeleteCart)
			carts.GET("/:id/items", cartHandler.GetItems)
			carts.POST("/:id/items", cartHandler.AddItem)
			carts.PATCH("/:id/items/:itemId", cartHandler.UpdateItem)
			carts.DELETE("/:id/items/:itemId", cartHandler.RemoveItem)
		}

		// Customer routes
		customers := v1.Group("/customers")
		customers.Use(middleware.AuthRequired())
		{
			customers.GET("/me", customerHandler.GetMe)
			customers.PUT("/me", customerHandler.UpdateMe)
			customers.GET("/me/addresses", customerHandler.GetAddresses)
			customers.POST("/me/addresses", customerHandler.AddAddress)

			staff := customers.Group("")
			staff.Use(middleware.StaffRequired())
			{
				staff.GET("", customerHandler.GetCustomers)
				staff.GET("/:id", customerHandler.GetCustomer)
			}
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)

			staff := orders.Group("")
			staff.Use(middleware.StaffRequired())
			{
				staff.PATCH("/:id", orderHandler.UpdateOrder)
				staff.DELETE("/:id", orderHandler.DeleteOrder)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
