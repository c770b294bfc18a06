package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
)

type Handlers struct {
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Orders     *handlers.OrderHandler
	Posts      *handlers.PostHandler
	Analytics  *handlers.AnalyticsHandler
	Health     *handlers.HealthHandler
}

type Options struct {
	Production     bool
	AllowedOrigins []string
}

// Setup configura el engine de gin con middlewares y rutas
func Setup(h Handlers, log logger.Logger, opts Options) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Metrics(),
		middleware.Recovery(log),
		cors.New(corsConfig(opts.AllowedOrigins)),
	)

	r.GET("/health", h.Health.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(r.Group("/api"), h)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Error:     "endpoint not found",
			RequestID: middleware.GetRequestID(c),
		})
	})
	return r
}

// RegisterRoutes registra las rutas de la API; las escrituras con autor exigen X-User-ID
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	requireUser := middleware.RequireUser()

	analytics := api.Group("/analytics")
	{
		analytics.GET("/best-sellers", h.Analytics.BestSellers)
		analytics.GET("/category-ratings", h.Analytics.CategoryRatings)
	}
	api.GET("/users/:userId/orders", h.Analytics.OrderHistory)

	products := api.Group("/products")
	{
		products.POST("", h.Products.CreateProduct)
		products.GET("", h.Products.ListProducts)
		products.GET("/:id", h.Products.GetProduct)
		products.PATCH("/:id", h.Products.UpdateProduct)
		products.DELETE("/:id", h.Products.DeleteProduct)
		products.GET("/:id/reviews", h.Products.ListReviews)
		products.POST("/:id/reviews", requireUser, h.Products.CreateReview)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", h.Categories.CreateCategory)
		categories.GET("", h.Categories.ListCategories)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", requireUser, h.Orders.CreateOrder)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.PATCH("/:id/status", h.Orders.UpdateOrderStatus)
	}

	posts := api.Group("/posts")
	{
		posts.POST("", requireUser, h.Posts.CreatePost)
		posts.GET("", h.Posts.ListPosts)
		posts.GET("/:postId", h.Posts.GetPost)
		posts.PUT("/:postId", requireUser, h.Posts.UpdatePost)
		posts.DELETE("/:postId", requireUser, h.Posts.DeletePost)

		posts.POST("/:postId/comments", requireUser, h.Posts.CreateComment)
		posts.GET("/:postId/comments", h.Posts.ListComments)
		posts.PUT("/:postId/comments/:commentId", requireUser, h.Posts.UpdateComment)
		posts.DELETE("/:postId/comments/:commentId", requireUser, h.Posts.DeleteComment)
	}
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.UserIDHeader, middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}
