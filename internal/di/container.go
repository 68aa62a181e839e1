package di

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"devconnector/internal/auth"
	"devconnector/internal/auth/config"
	"devconnector/internal/post"
	"devconnector/internal/post/adapter/persistence/redisstore"
	postrepo "devconnector/internal/post/domain/repository"
	"devconnector/internal/profile"
	"devconnector/internal/shared/database"
	"devconnector/internal/shared/eventbus"
	"devconnector/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Container owns the shared infrastructure and the feature modules, and
// shuts them down in reverse order of initialization.
type Container struct {
	mu sync.RWMutex
	// Module instances
	AuthModule    *auth.AuthModule
	PostModule    *post.PostModule
	ProfileModule *profile.ProfileModule
	// Database connections
	Mongo *database.Mongo
	Redis *redis.Client
	// Configuration
	AuthConfig  *config.Config
	RedisConfig *database.RedisConfig
	// Shared services
	EventBus eventbus.EventBusInterface
	Logger   logger.Logger
}

// NewContainer creates an empty container.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{
		Logger:   log,
		EventBus: eventbus.NewEventBus(log.WithComponent("eventbus")),
	}
}

// InitializeDatabases stores the connections the modules are built on. rdb and
// redisCfg may be nil when the activity stream is disabled.
func (c *Container) InitializeDatabases(mongo *database.Mongo, rdb *redis.Client, redisCfg *database.RedisConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mongo == nil || mongo.DB == nil {
		return errors.New("MongoDB connection is required")
	}
	c.Mongo = mongo
	c.Redis = rdb
	c.RedisConfig = redisCfg
	return nil
}

// InitializeAuth initializes the authentication module
func (c *Container) InitializeAuth(ctx context.Context, authConfig *config.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Mongo == nil {
		return errors.New("MongoDB must be initialized before auth module")
	}
	c.AuthConfig = authConfig

	authModule, err := auth.NewAuthModule(ctx, c.Mongo.DB, authConfig, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = authModule
	return nil
}

// InitializePosts initializes the post module. The redis activity stream is
// attached when a redis client is configured.
func (c *Container) InitializePosts(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil {
		return errors.New("auth module must be initialized before post module")
	}

	var activity postrepo.ActivityStore
	if c.Redis != nil {
		var maxLen int64
		if c.RedisConfig != nil {
			maxLen = c.RedisConfig.StreamMaxLength
		}
		activity = redisstore.NewRedisActivityStore(c.Redis, maxLen, c.Logger)
	}

	postModule, err := post.NewPostModule(ctx, c.Mongo.DB, c.AuthModule.GetUserRepository(), activity, c.EventBus, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create post module: %w", err)
	}
	c.PostModule = postModule
	return nil
}

// InitializeProfiles initializes the profile module. Account deletion reaches
// into the post and user stores, so both must exist first.
func (c *Container) InitializeProfiles(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AuthModule == nil || c.PostModule == nil {
		return errors.New("auth and post modules must be initialized before profile module")
	}

	profileModule, err := profile.NewProfileModule(
		ctx,
		c.Mongo.DB,
		c.PostModule.GetRepository(),
		c.AuthModule.GetUserRepository(),
		c.Logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile module: %w", err)
	}
	c.ProfileModule = profileModule
	return nil
}

// RegisterRoutes mounts every initialized module on router.
func (c *Container) RegisterRoutes(router fiber.Router) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.AuthModule == nil {
		return errors.New("auth module is not initialized")
	}
	c.AuthModule.RegisterRoutes(router)

	mw := c.AuthModule.GetMiddleware()
	if c.ProfileModule != nil {
		c.ProfileModule.RegisterRoutes(router, mw.Protect())
	}
	if c.PostModule != nil {
		c.PostModule.RegisterRoutes(router, mw.Protect(), mw.ProtectWebSocket())
	}
	return nil
}

// HealthCheck pings the databases.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Mongo != nil {
		if err := c.Mongo.Ping(ctx); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}
	return nil
}

// Cleanup releases modules and connections in reverse order of initialization.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	// Drain queued activity while its subscribers are still open.
	if c.EventBus != nil {
		c.EventBus.Close()
	}

	c.ProfileModule = nil
	if c.PostModule != nil {
		c.PostModule.Close()
		c.PostModule = nil
	}
	c.AuthModule = nil

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		c.Redis = nil
	}
	if c.Mongo != nil {
		if err := c.Mongo.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close MongoDB: %w", err))
		}
		c.Mongo = nil
	}

	return errors.Join(errs...)
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	c.Logger.Info("Closing DI container resources...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("cleanup errors occurred: %v", err)
		return err
	}

	c.Logger.Info("DI container resources closed")
	return nil
}
