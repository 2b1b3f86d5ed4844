package api

import (
	"net/http"
	"time"

	"github.com/equipment-loan-tracker/internal/config"
	"github.com/equipment-loan-tracker/internal/service"
	"github.com/equipment-loan-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	recordHandler := NewRecordHandler(services, log)
	viewHandler := NewViewHandler(services, log)
	snapshotHandler := NewSnapshotHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", viewHandler.GetStats)

	// API v1
	v1 := router.Group("/v1")
	{
		v1.GET("/users", recordHandler.ListUsers)
		v1.POST("/users", recordHandler.CreateUser)

		v1.GET("/categories", recordHandler.ListCategories)

		materials := v1.Group("/materials")
		{
			materials.GET("", viewHandler.ListMaterials)
			materials.POST("", recordHandler.CreateMaterial)
			materials.GET("/available", viewHandler.ListAvailableMaterials)
		}

		loans := v1.Group("/loans")
		{
			loans.GET("", viewHandler.GetLoanBoard)
			loans.POST("", recordHandler.CreateLoan)
			loans.POST("/:loan_id/return", recordHandler.ReturnLoan)
		}

		history := v1.Group("/history")
		{
			history.GET("", viewHandler.GetHistory)
			history.GET("/report", snapshotHandler.DownloadHistoryReport)
		}

		v1.GET("/stats", viewHandler.GetStats)

		snapshot := v1.Group("/snapshot")
		{
			snapshot.GET("", snapshotHandler.DownloadSnapshot)
			snapshot.POST("", snapshotHandler.ImportSnapshot)
			snapshot.GET("/archive", snapshotHandler.ListArchive)
			snapshot.POST("/archive", snapshotHandler.CreateArchive)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   logger.ServiceName,
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
