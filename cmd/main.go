package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devconnector/internal/auth/config"
	"devconnector/internal/di"
	"devconnector/internal/shared/database"
	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/logger"
	"devconnector/internal/shared/middleware"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host       string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port       string `env:"SERVER_PORT" envDefault:"5000"`
	LogBackend string `env:"LOG_BACKEND" envDefault:"logrus"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	// Load server configuration
	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLoggerForBackend(serverCfg.LogBackend, "", "")
	appLogger.Info("DevConnector API starting")

	mongoCfg, err := database.LoadMongoConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load database configuration: %v", err)
	}
	redisCfg, err := database.LoadRedisConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load redis configuration: %v", err)
	}
	authConfig, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load auth configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoCfg.ConnectTimeout)
	defer cancel()

	mongo, err := database.ConnectMongo(ctx, mongoCfg, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	var rdb *redis.Client
	if redisCfg.Enabled {
		rdb, err = database.ConnectRedis(ctx, redisCfg)
		if err != nil {
			appLogger.Fatalf("Failed to connect to Redis: %v", err)
		}
		appLogger.Infof("Redis activity stream enabled at %s", redisCfg.GetAddr())
	} else {
		appLogger.Info("Redis disabled, post activity is live-only")
	}

	// Initialize Dependency Injection Container
	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	if err := container.InitializeDatabases(mongo, rdb, redisCfg); err != nil {
		appLogger.Fatalf("Failed to initialize databases: %v", err)
	}
	if err := container.InitializeAuth(ctx, authConfig); err != nil {
		appLogger.Fatalf("Failed to initialize auth module: %v", err)
	}
	if err := container.InitializePosts(ctx); err != nil {
		appLogger.Fatalf("Failed to initialize post module: %v", err)
	}
	if err := container.InitializeProfiles(ctx); err != nil {
		appLogger.Fatalf("Failed to initialize profile module: %v", err)
	}
	appLogger.Info("Modules initialized successfully")

	// Setup HTTP server (Fiber) with middleware
	app := fiber.New(fiber.Config{
		AppName:      "DevConnector API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: apperrors.FiberErrorHandler(appLogger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: middleware.RequestIDLocal,
	}))
	app.Use(middleware.RequestContext())
	app.Use(middleware.AccessLog(appLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + authConfig.TokenHeader,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "UNHEALTHY",
				"error":   err.Error(),
				"message": "One or more services are unhealthy",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "DevConnector API is running",
			"timestamp": time.Now().UTC(),
			"modules": fiber.Map{
				"auth":     "initialized",
				"profile":  "initialized",
				"post":     "initialized",
				"activity": redisCfg.Enabled,
			},
		})
	})

	if err := container.RegisterRoutes(app); err != nil {
		appLogger.Fatalf("Failed to register routes: %v", err)
	}

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	// Start server in a goroutine for graceful shutdown
	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed to start: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
