package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/valeriy167/paint-store/config"
	"github.com/valeriy167/paint-store/internal/app/controller"
	"github.com/valeriy167/paint-store/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	cartController    *controller.CartController
	reviewController  *controller.ReviewController
	catalogController *controller.CatalogController
	healthController  *controller.HealthController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	cartController *controller.CartController,
	reviewController *controller.ReviewController,
	catalogController *controller.CatalogController,
	healthController *controller.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		cartController:    cartController,
		reviewController:  reviewController,
		catalogController: catalogController,
		healthController:  healthController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", r.healthController.Health)

	checkoutLimiter := middleware.NewRateLimiter(r.config.Checkout.RequestsPerMinute)
	reviewLimiter := middleware.NewRateLimiter(r.config.Checkout.ReviewsPerMinute)

	authenticated := r.authMiddleware.Authenticate()
	moderator := r.authMiddleware.RequireModerator()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", authenticated, r.authController.Logout)
			auth.GET("/me", authenticated, r.authController.GetMe)
			auth.PATCH("/me", authenticated, r.authController.UpdateMe)
			auth.DELETE("/me", authenticated, r.authController.DeleteMe)
		}

		cart := v1.Group("/cart", authenticated)
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/add-item", r.cartController.AddItem)
			cart.PATCH("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.POST("/checkout", checkoutLimiter.Middleware(), r.cartController.Checkout)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", r.reviewController.List)
			reviews.POST("", authenticated, reviewLimiter.Middleware(), r.reviewController.Create)
			reviews.GET("/my", authenticated, r.reviewController.Mine)
			reviews.GET("/pending", authenticated, moderator, r.reviewController.Pending)
			reviews.GET("/pending/export", authenticated, moderator, r.reviewController.ExportPending)
			reviews.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.reviewController.Get)
			reviews.PATCH("/:id/approve", authenticated, moderator, r.reviewController.Approve)
		}

		products := v1.Group("/products", authenticated, moderator)
		{
			products.POST("", r.catalogController.CreateProduct)
			products.PATCH("/:id", r.catalogController.UpdateProduct)
			products.DELETE("/:id", r.catalogController.DeleteProduct)
			products.POST("/:id/images", r.catalogController.CreateImageUpload)
		}

		manufacturers := v1.Group("/manufacturers", authenticated, moderator)
		{
			manufacturers.POST("", r.catalogController.CreateManufacturer)
			manufacturers.DELETE("/:id", r.catalogController.DeleteManufacturer)
		}
	}

	return router
}

// Handler wraps the engine with CORS handling for the configured origins.
func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
	}).Handler(r.Setup())
}
