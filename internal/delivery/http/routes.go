package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prodcat/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Product CRUD endpoints
	products := router.Group("/products")
	{
		products.POST("", handler.CreateProduct)
		products.GET("", handler.ListProducts)
		products.GET("/:id", handler.GetProduct)
		products.PUT("/:id", handler.UpdateProduct)
		products.DELETE("/:id", handler.DeleteProduct)
	}

	// Excel import endpoints
	excel := router.Group("/excel")
	{
		excel.POST("/sheets", handler.ListSheets)
		excel.POST("/preview/:sheet", handler.PreviewSheet)
		excel.POST("/import/:sheet", handler.ImportSheet)
		excel.POST("/upload", handler.Upload)
		excel.GET("/progress", handler.Progress)
	}

	// Import audit log
	router.GET("/logs/excel", handler.ExcelLogs)

	// Route listing for operators
	router.GET("/system/routes", func(c *gin.Context) {
		type routeInfo struct {
			Method string `json:"method"`
			Path   string `json:"path"`
		}
		routes := []routeInfo{}
		for _, r := range router.Routes() {
			routes = append(routes, routeInfo{Method: r.Method, Path: r.Path})
		}
		c.JSON(http.StatusOK, gin.H{"routes": routes})
	})

	return router
}
