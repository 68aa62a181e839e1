package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"devconnector/internal/profile/domain/model"
	"devconnector/internal/profile/domain/repository"
	apperrors "devconnector/internal/shared/errors"
	"devconnector/internal/shared/logger"
	"devconnector/internal/shared/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MsgNoProfile   = "There is no profile for this user"
	MsgUserDeleted = "User deleted"
)

// ProfileUsecaseInterface defines the profile use cases.
type ProfileUsecaseInterface interface {
	GetMine(ctx context.Context, userID string) (*model.Profile, error)
	Upsert(ctx context.Context, userID string, req ProfileRequest) (*model.Profile, error)
	List(ctx context.Context) ([]*model.Profile, error)
	GetByUser(ctx context.Context, userID string) (*model.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
	AddExperience(ctx context.Context, userID string, req ExperienceRequest) (*model.Profile, error)
	RemoveExperience(ctx context.Context, userID, experienceID string) (*model.Profile, error)
	AddEducation(ctx context.Context, userID string, req EducationRequest) (*model.Profile, error)
	RemoveEducation(ctx context.Context, userID, educationID string) (*model.Profile, error)
}

// ProfileRequest is the body of POST /api/profile.
type ProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website" validate:"omitempty,url" msg:"Please include a valid website URL"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required" msg:"Status is required"`
	GitHubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required" msg:"Skills is required"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// ExperienceRequest is the body of PUT /api/profile/experience.
type ExperienceRequest struct {
	Title       string `json:"title" validate:"required" msg:"Title is required"`
	Company     string `json:"company" validate:"required" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required" msg:"From date is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationRequest is the body of PUT /api/profile/education.
type EducationRequest struct {
	School       string `json:"school" validate:"required" msg:"School is required"`
	Degree       string `json:"degree" validate:"required" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required" msg:"Field of study is required"`
	From         string `json:"from" validate:"required" msg:"From date is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// ProfileUsecase implements the profile logic.
type ProfileUsecase struct {
	profiles repository.ProfileRepository
	posts    repository.PostRemover
	accounts repository.AccountRemover
	log      logger.Logger
}

// NewProfileUsecase creates a new ProfileUsecase.
func NewProfileUsecase(
	profiles repository.ProfileRepository,
	posts repository.PostRemover,
	accounts repository.AccountRemover,
	log logger.Logger,
) *ProfileUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ProfileUsecase{
		profiles: profiles,
		posts:    posts,
		accounts: accounts,
		log:      log.WithComponent("profile"),
	}
}

// GetMine returns the requester's profile.
func (uc *ProfileUsecase) GetMine(ctx context.Context, userID string) (*model.Profile, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, noProfile()
	}
	return uc.mustFind(ctx, id)
}

// Upsert creates or updates the requester's profile with the supplied fields.
func (uc *ProfileUsecase) Upsert(ctx context.Context, userID string, req ProfileRequest) (*model.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NewAuthenticationError(apperrors.MsgInvalidToken)
	}

	profile, err := uc.profiles.FindByUser(ctx, id)
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		profile = model.NewProfile(id)
	case err != nil:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile.Apply(model.Fields{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         req.Skills,
		Bio:            req.Bio,
		GitHubUsername: req.GitHubUsername,
		Social: model.Social{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	})

	if err := uc.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return uc.reload(ctx, profile)
}

// List returns all profiles.
func (uc *ProfileUsecase) List(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := uc.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// GetByUser returns the profile of userID. A malformed id is reported as not found.
func (uc *ProfileUsecase) GetByUser(ctx context.Context, userID string) (*model.Profile, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("Profile")
	}

	profile, err := uc.profiles.FindByUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperrors.NewNotFoundError("Profile")
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// DeleteAccount removes the requester's posts, profile and user, in that order.
func (uc *ProfileUsecase) DeleteAccount(ctx context.Context, userID string) error {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.NewAuthenticationError(apperrors.MsgInvalidToken)
	}

	removed, err := uc.posts.DeleteByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete posts: %w", err)
	}
	if err := uc.profiles.DeleteByUser(ctx, id); err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if err := uc.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	uc.log.WithContext(ctx).Infof("deleted account %s (%d posts)", userID, removed)
	return nil
}

// AddExperience prepends an experience entry to the requester's profile.
func (uc *ProfileUsecase) AddExperience(ctx context.Context, userID string, req ExperienceRequest) (*model.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	return uc.mutate(ctx, userID, func(p *model.Profile) error {
		p.AddExperience(model.Experience{
			Title:       strings.TrimSpace(req.Title),
			Company:     strings.TrimSpace(req.Company),
			Location:    strings.TrimSpace(req.Location),
			From:        from,
			To:          to,
			Current:     req.Current,
			Description: req.Description,
		})
		return nil
	})
}

// RemoveExperience deletes the experience entry experienceID.
func (uc *ProfileUsecase) RemoveExperience(ctx context.Context, userID, experienceID string) (*model.Profile, error) {
	return uc.mutate(ctx, userID, func(p *model.Profile) error {
		id, err := primitive.ObjectIDFromHex(experienceID)
		if err != nil {
			return apperrors.NewNotFoundError("Experience")
		}
		if err := p.RemoveExperience(id); err != nil {
			return apperrors.NewNotFoundError("Experience").WithCause(err)
		}
		return nil
	})
}

// AddEducation prepends an education entry to the requester's profile.
func (uc *ProfileUsecase) AddEducation(ctx context.Context, userID string, req EducationRequest) (*model.Profile, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	return uc.mutate(ctx, userID, func(p *model.Profile) error {
		p.AddEducation(model.Education{
			School:       strings.TrimSpace(req.School),
			Degree:       strings.TrimSpace(req.Degree),
			FieldOfStudy: strings.TrimSpace(req.FieldOfStudy),
			From:         from,
			To:           to,
			Current:      req.Current,
			Description:  req.Description,
		})
		return nil
	})
}

// RemoveEducation deletes the education entry educationID.
func (uc *ProfileUsecase) RemoveEducation(ctx context.Context, userID, educationID string) (*model.Profile, error) {
	return uc.mutate(ctx, userID, func(p *model.Profile) error {
		id, err := primitive.ObjectIDFromHex(educationID)
		if err != nil {
			return apperrors.NewNotFoundError("Education")
		}
		if err := p.RemoveEducation(id); err != nil {
			return apperrors.NewNotFoundError("Education").WithCause(err)
		}
		return nil
	})
}

// mutate runs the load-mutate-persist cycle on the requester's profile.
func (uc *ProfileUsecase) mutate(ctx context.Context, userID string, fn func(*model.Profile) error) (*model.Profile, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, noProfile()
	}
	profile, err := uc.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	if err := uc.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

func (uc *ProfileUsecase) mustFind(ctx context.Context, userID primitive.ObjectID) (*model.Profile, error) {
	profile, err := uc.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, noProfile()
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// reload re-reads profile so the response carries the populated owner.
func (uc *ProfileUsecase) reload(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	fresh, err := uc.profiles.FindByUser(ctx, profile.UserID)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("profile saved but reload failed: %v", err)
		profile.Normalize()
		return profile, nil
	}
	return fresh, nil
}

func noProfile() *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrorTypeNotFound, MsgNoProfile, http.StatusBadRequest).
		WithCause(apperrors.ErrNotFound)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewValidationErrors().
		Add(field, "Please include a valid "+field+" date", value).
		ToAppError()
}

func parseRange(fromValue, toValue string) (time.Time, *time.Time, error) {
	from, err := parseDate("from", fromValue)
	if err != nil {
		return time.Time{}, nil, err
	}
	if strings.TrimSpace(toValue) == "" {
		return from, nil, nil
	}
	to, err := parseDate("to", toValue)
	if err != nil {
		return time.Time{}, nil, err
	}
	return from, &to, nil
}
