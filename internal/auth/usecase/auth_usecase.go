package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devconnector/internal/auth/domain/model"
	"devconnector/internal/auth/domain/repository"
	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/logger"
	"devconnector/internal/shared/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MsgUserExists is returned when registering an email that is already in use.
	MsgUserExists = "User already exists"
	// MsgPasswordTooLong is returned for passwords bcrypt cannot hash.
	MsgPasswordTooLong = "Please enter a password with 72 or fewer bytes"
)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetCurrentUser(ctx context.Context, userID string) (*model.User, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required,min=6" msg:"Please enter a password with 6 or more characters"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token string `json:"token"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	repo     repository.UserRepository
	tokenSvc repository.TokenService
	hasher   repository.PasswordHasher
	avatars  repository.AvatarResolver
	log      logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.UserRepository,
	tokenSvc repository.TokenService,
	hasher repository.PasswordHasher,
	avatars repository.AvatarResolver,
	log logger.Logger,
) *AuthUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &AuthUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		hasher:   hasher,
		avatars:  avatars,
		log:      log.WithComponent("auth"),
	}
}

// Register creates an account and returns a token for it.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if len(req.Password) > repository.MaxPasswordBytes {
		return nil, passwordTooLong()
	}

	email := model.NormalizeEmail(req.Email)
	_, err := uc.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.NewConflictError(MsgUserExists)
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrPasswordTooLong) {
			return nil, passwordTooLong()
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.NewUser(req.Name, email, hash, uc.avatars.AvatarURL(email))
	if err := uc.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflictError(MsgUserExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.log.WithContext(ctx).Infof("registered user %s", user.ID.Hex())
	return uc.issue(ctx, user.ID.Hex())
}

// Login verifies credentials and returns a token. Unknown email and wrong
// password produce the same error.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := uc.repo.FindByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewCredentialsError()
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if err := uc.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.NewCredentialsError()
	}

	return uc.issue(ctx, user.ID.Hex())
}

// GetCurrentUser loads the account identified by userID.
func (uc *AuthUsecase) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("User")
	}

	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("User")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// ValidateToken verifies tokenString and returns its claims.
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	if tokenString == "" {
		return nil, apperrors.NewAuthenticationError(apperrors.MsgNoToken)
	}
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, apperrors.NewAuthenticationError(apperrors.MsgInvalidToken).WithCause(err)
	}
	return claims, nil
}

func (uc *AuthUsecase) issue(ctx context.Context, userID string) (*AuthResponse, error) {
	token, err := uc.tokenSvc.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResponse{Token: token}, nil
}

func passwordTooLong() error {
	return apperrors.NewValidationErrors().Add("password", MsgPasswordTooLong, nil)
}
