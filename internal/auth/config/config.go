package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// JWT Configuration
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"devconnector"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"100h"`
	TokenHeader    string        `env:"TOKEN_HEADER" envDefault:"x-auth-token"`

	// Password hashing
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Gravatar
	AvatarSize    int    `env:"AVATAR_SIZE" envDefault:"200"`
	AvatarRating  string `env:"AVATAR_RATING" envDefault:"pg"`
	AvatarDefault string `env:"AVATAR_DEFAULT" envDefault:"mm"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load auth configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values env.Parse cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return errors.New("jwt_secret_key is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access_token_ttl must be positive")
	}
	if c.TokenHeader == "" {
		c.TokenHeader = "x-auth-token"
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.AvatarSize <= 0 {
		c.AvatarSize = 200
	}
	return nil
}
