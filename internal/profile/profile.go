package profile

import (
	"context"
	"fmt"

	profilehttp "devconnector/internal/profile/adapter/http"
	"devconnector/internal/profile/adapter/persistence/mongodb"
	"devconnector/internal/profile/domain/repository"
	"devconnector/internal/profile/usecase"
	"devconnector/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProfileModule wires the profile store, use cases and routes.
type ProfileModule struct {
	repository repository.ProfileRepository
	usecase    usecase.ProfileUsecaseInterface
	handler    *profilehttp.ProfileHTTPHandler
}

// NewProfileModule creates the profile module. posts and accounts are used
// when a user deletes their account.
func NewProfileModule(
	ctx context.Context,
	db *mongo.Database,
	posts repository.PostRemover,
	accounts repository.AccountRemover,
	log logger.Logger,
) (*ProfileModule, error) {
	profileRepo, err := mongodb.NewMongoProfileRepository(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile repository: %w", err)
	}

	profileUsecase := usecase.NewProfileUsecase(profileRepo, posts, accounts, log)
	return &ProfileModule{
		repository: profileRepo,
		usecase:    profileUsecase,
		handler:    profilehttp.NewProfileHTTPHandler(profileUsecase),
	}, nil
}

// RegisterRoutes mounts the profile routes. protect guards the private ones.
func (m *ProfileModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	m.handler.SetupProfileRoutes(router, protect)
}

// GetUsecase returns the profile usecase
func (m *ProfileModule) GetUsecase() usecase.ProfileUsecaseInterface {
	return m.usecase
}
