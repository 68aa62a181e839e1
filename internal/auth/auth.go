package auth

import (
	"context"
	"fmt"

	authhttp "devconnector/internal/auth/adapter/http"
	"devconnector/internal/auth/adapter/persistence/mongodb"
	"devconnector/internal/auth/adapter/security"
	"devconnector/internal/auth/config"
	"devconnector/internal/auth/domain/repository"
	"devconnector/internal/auth/usecase"
	"devconnector/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	repository repository.UserRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(ctx context.Context, db *mongo.Database, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	userRepo, err := mongodb.NewMongoUserRepository(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	return NewAuthModuleWithRepository(userRepo, cfg, log)
}

// NewAuthModuleWithRepository assembles the module around an existing user store.
func NewAuthModuleWithRepository(userRepo repository.UserRepository, cfg *config.Config, log logger.Logger) (*AuthModule, error) {
	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase := usecase.NewAuthUsecase(
		userRepo,
		tokenSvc,
		security.NewBcryptHasher(cfg.BcryptCost),
		security.NewGravatar(cfg.AvatarSize, cfg.AvatarRating, cfg.AvatarDefault),
		log,
	)

	return &AuthModule{
		repository: userRepo,
		tokenSvc:   tokenSvc,
		usecase:    authUsecase,
		handler:    authhttp.NewAuthHTTPHandler(authUsecase),
		middleware: authhttp.NewAuthMiddleware(authUsecase, cfg.TokenHeader),
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAuthRoutesWithMiddleware(router, am.middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// GetUserRepository exposes the user store to the profile and post modules.
func (am *AuthModule) GetUserRepository() repository.UserRepository {
	return am.repository
}

// GetTokenService returns the token service
func (am *AuthModule) GetTokenService() repository.TokenService {
	return am.tokenSvc
}
