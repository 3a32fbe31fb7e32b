package services

import (
	"context"
	"errors"
	"strings"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	// UpdateProfile меняет поля профиля, навыки (если переданы) и фото (если передано)
	UpdateProfile(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.UpdateUserProfileRequest, photo *media.FileInput) (*dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.ChangePasswordRequest) error

	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.User], error)
	SetActive(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, active bool) (*models.User, error)
}

type userService struct {
	crud      *CrudService[models.User]
	userRepo  repositories.UserRepository
	media     *media.Manager
	validator *validator.Validator
}

func NewUserService(userRepo repositories.UserRepository, mediaManager *media.Manager, bus events.Bus, v *validator.Validator) UserService {
	return &userService{
		crud:      NewCrudService[models.User](userRepo, bus, "user"),
		userRepo:  userRepo,
		media:     mediaManager,
		validator: v,
	}
}

func (s *userService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.crud.Get(db, userID, repositories.FindOptions{Preload: []string{"Skills", "Admin", "Vendor"}})
	if err != nil {
		return nil, err
	}
	return s.present(ctx, db, user)
}

func (s *userService) present(ctx context.Context, db *gorm.DB, user *models.User) (*dto.ProfileResponse, error) {
	photo, err := presentPrimary(ctx, db, s.media, user)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{User: user, Photo: photo}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.UpdateUserProfileRequest, photo *media.FileInput) (*dto.ProfileResponse, error) {
	req.Normalize()
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	if req.Name != nil {
		values["name"] = *req.Name
	}
	if req.Phone != nil {
		values["phone"] = optionalString(*req.Phone)
	}
	setIf(values, "blood_group", req.BloodGroup)
	setIf(values, "gender", req.Gender)

	err := withTx(db, func(tx *gorm.DB) error {
		updated, err := s.crud.UpdateTx(tx, rc, userID, values)
		if err != nil {
			return handleUserError(err)
		}
		if req.SkillIDs != nil {
			if err := s.userRepo.SyncSkills(tx, updated, req.SkillIDs); err != nil {
				return handleRepoError("skill", err)
			}
		}
		return replacePrimary(ctx, tx, s.media, rc, updated, photo, models.CollectionAvatars)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, db, userID)
}

func (s *userService) ChangePassword(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.ChangePasswordRequest) error {
	if err := validate(s.validator, req); err != nil {
		return err
	}

	user, err := s.crud.Get(db, userID, repositories.FindOptions{})
	if err != nil {
		return err
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.crud.Update(db, rc, userID, map[string]any{"password": hash})
	return err
}

func (s *userService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.User], error) {
	return s.crud.List(db, spec)
}

func (s *userService) SetActive(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, active bool) (*models.User, error) {
	return s.crud.Update(db, rc, userID, map[string]any{"is_active": active})
}

// hashPassword проверяет сложность и возвращает bcrypt хеш
func hashPassword(password string) (string, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return "", apperrors.FieldError("password", err.Error())
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return hash, nil
}

// optionalString - пустая строка пишется как NULL (уникальные колонки)
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func handleUserError(err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperrors.ErrConflict(err, "user", "Email or phone is already in use")
	}
	return handleRepoError("user", err)
}
