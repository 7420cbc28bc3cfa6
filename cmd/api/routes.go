package main

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/product-feedback/internal/auth"
	"github.com/yourusername/product-feedback/internal/catalog"
	"github.com/yourusername/product-feedback/internal/config"
	"github.com/yourusername/product-feedback/internal/httpx"
	"github.com/yourusername/product-feedback/internal/static"
)

// appStore はルートが必要とするストア操作の集合です。
type appStore interface {
	catalog.ProductRepository
	catalog.CommentRepository
	Ping(ctx context.Context) error
}

type routeDeps struct {
	cfg       *config.Config
	store     appStore
	auth      *auth.Manager
	scheduler catalog.CommentCountScheduler
	logger    *zap.Logger
}

// newRouter はミドルウェアとルーティングの配線を行います。
func newRouter(deps routeDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		httpx.RequestID(),
		httpx.AccessLog(deps.logger),
		httpx.Recovery(deps.logger),
		cors.New(corsConfig(deps.cfg)),
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "All good!"})
	})
	router.GET("/health", healthHandler(deps.store))

	router.POST("/register", deps.auth.Register)
	router.POST("/login", deps.auth.Login)

	products := deps.store
	router.GET("/getAllProducts", catalog.ListProductsHandler(products))
	router.POST("/addProduct", deps.auth.RequireToken(), catalog.AddProductHandler(products, deps.logger))
	router.PUT("/updateProductById", deps.auth.RequireToken(), catalog.UpdateProductHandler(products))
	router.GET("/getProductById/:id", catalog.GetProductHandler(products))
	router.PUT("/increaseLikeById/:id/like", catalog.LikeProductHandler(products))

	router.GET("/getComments", catalog.ListCommentsHandler(deps.store))
	router.POST("/addComment", catalog.AddCommentHandler(deps.store, products, catalog.CommentOptions{
		Scheduler: deps.scheduler,
		Logger:    deps.logger,
	}))

	router.NoRoute(static.Handler(deps.cfg.PublicDir))
	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		httpx.RequestIDHeader,
	}
	corsCfg.ExposeHeaders = []string{httpx.RequestIDHeader}
	return corsCfg
}

// healthHandler はドキュメントストアへの疎通を確認します。
func healthHandler(store appStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "product-feedback-api",
		})
	}
}
