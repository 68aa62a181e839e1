package database

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI            string        `env:"MONGODB_URI,required"`
	DatabaseName   string        `env:"DATABASE_NAME" envDefault:"devconnector"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"30s"`
}

// RedisConfig holds the optional activity stream connection settings.
type RedisConfig struct {
	Enabled         bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Host            string `env:"REDIS_HOST" envDefault:"localhost"`
	Port            string `env:"REDIS_PORT" envDefault:"6379"`
	Password        string `env:"REDIS_PASSWORD"`
	Database        int    `env:"REDIS_DB" envDefault:"0"`
	MaxRetries      int    `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool   `env:"REDIS_TLS" envDefault:"false"`
	StreamMaxLength int64  `env:"ACTIVITY_STREAM_MAX_LEN" envDefault:"1000"`
}

// GetAddr returns the host:port pair for the redis client.
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// LoadMongoConfig reads MongoConfig from the environment.
func LoadMongoConfig() (*MongoConfig, error) {
	cfg := &MongoConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	return cfg, nil
}

// LoadRedisConfig reads RedisConfig from the environment.
func LoadRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load redis configuration: %w", err)
	}
	if cfg.StreamMaxLength <= 0 {
		cfg.StreamMaxLength = 1000
	}
	return cfg, nil
}
