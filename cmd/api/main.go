package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crisdbarco/DeclaraFacil/internal/config"
	"github.com/crisdbarco/DeclaraFacil/internal/handlers"
	"github.com/crisdbarco/DeclaraFacil/internal/logging"
	"github.com/crisdbarco/DeclaraFacil/internal/middleware"
	"github.com/crisdbarco/DeclaraFacil/internal/observability"
	"github.com/crisdbarco/DeclaraFacil/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           DeclaraFacil API
// @version         1.0
// @description     API for issuing administrative declaration documents on behalf of citizens. Requests move through a lifecycle (pending, processing, completed, rejected) and generated documents are delivered through time-limited signed URLs.

// @contact.name   API Support
// @contact.email  suporte@declarafacil.rio.gov.br

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @tag.name requests
// @tag.description Declaration request lifecycle operations

// @tag.name declarations
// @tag.description Declaration template catalog

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize observability
	observability.InitTracer()
	defer observability.ShutdownTracer()

	// Initialize database connections
	config.InitMongoDB()
	config.InitRedis()

	// Initialize services
	services.InitUserService()
	services.InitDeclarationService()
	services.InitRequestService()
	if err := services.InitStorageService(); err != nil {
		logging.Logger.Fatal("failed to initialize storage service", zap.Error(err))
	}
	services.InitGenerationService()

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestTiming(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		cors.Default(),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Health check endpoint
		v1.GET("/health", handlers.HealthCheck)

		authenticated := v1.Group("")
		authenticated.Use(middleware.AuthMiddleware())
		{
			authenticated.GET("/declarations", handlers.ListDeclarations)

			authenticated.GET("/requests", handlers.ListAllRequests)
			authenticated.GET("/requests/recent", handlers.ListRecentGenerated)
			authenticated.GET("/requests/mine", handlers.ListOwnRequests)
			authenticated.POST("/requests", handlers.CreateRequest)
			authenticated.PUT("/requests/status", handlers.UpdateStatus)
			authenticated.POST("/requests/generate", handlers.GenerateDocuments)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Create server with timeouts
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.AppConfig.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", config.AppConfig.Port),
			zap.String("environment", config.AppConfig.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.Logger.Info("server exited gracefully")
}
