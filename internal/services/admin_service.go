package services

import (
	"context"
	"errors"

	"github.com/fahadjdy/business-point/internal/audit"
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

type AdminService interface {
	// CreateAdmin создает пользователя с ролью admin и профиль администратора
	CreateAdmin(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateAdminRequest) (*models.Admin, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, rc audit.RequestContext, adminID string, req *dto.UpdateAdminProfileRequest, photo *media.FileInput) (*dto.AdminResponse, error)
	Get(ctx context.Context, db *gorm.DB, adminID string) (*dto.AdminResponse, error)
	GetByUser(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminResponse, error)
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Admin], error)
	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, adminID, reason string) error
}

type adminService struct {
	crud      *CrudService[models.Admin]
	users     *CrudService[models.User]
	adminRepo repositories.AdminRepository
	userRepo  repositories.UserRepository
	media     *media.Manager
	validator *validator.Validator
}

func NewAdminService(
	adminRepo repositories.AdminRepository,
	userRepo repositories.UserRepository,
	mediaManager *media.Manager,
	bus events.Bus,
	v *validator.Validator,
) AdminService {
	return &adminService{
		crud:      NewCrudService[models.Admin](adminRepo, bus, "admin"),
		users:     NewCrudService[models.User](userRepo, bus, "user"),
		adminRepo: adminRepo,
		userRepo:  userRepo,
		media:     mediaManager,
		validator: v,
	}
}

func (s *adminService) CreateAdmin(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateAdminRequest) (*models.Admin, error) {
	req.Normalize()
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	email := req.Email

	admin := &models.Admin{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		IsSuperAdmin: req.IsSuperAdmin,
		IsActive:     true,
	}

	err = withTx(db, func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByEmail(tx, email); err == nil {
			return apperrors.ErrEmailAlreadyExists
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.DatabaseError(err)
		}

		user := &models.User{
			Name:         admin.Name,
			Email:        email,
			Phone:        optionalString(req.Phone),
			PasswordHash: hash,
			Role:         models.UserRoleAdmin,
			IsActive:     true,
		}
		if err := s.users.CreateTx(tx, rc, user); err != nil {
			return handleUserError(err)
		}

		admin.UserID = user.ID
		return s.crud.CreateTx(tx, rc, admin)
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdateProfile синхронизирует имя и телефон в учетную запись пользователя.
// Пустой пароль не меняет пароль.
func (s *adminService) UpdateProfile(ctx context.Context, db *gorm.DB, rc audit.RequestContext, adminID string, req *dto.UpdateAdminProfileRequest, photo *media.FileInput) (*dto.AdminResponse, error) {
	req.Normalize()
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	adminValues := map[string]any{}
	userValues := map[string]any{}
	if req.Name != nil {
		adminValues["name"] = *req.Name
		userValues["name"] = *req.Name
	}
	if req.Phone != nil {
		adminValues["phone"] = *req.Phone
		userValues["phone"] = optionalString(*req.Phone)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		userValues["password"] = hash
	}

	err := withTx(db, func(tx *gorm.DB) error {
		admin, err := s.crud.UpdateTx(tx, rc, adminID, adminValues)
		if err != nil {
			return err
		}
		if len(userValues) > 0 {
			if _, err := s.users.UpdateTx(tx, rc, admin.UserID, userValues); err != nil {
				return handleUserError(err)
			}
		}
		return replacePrimary(ctx, tx, s.media, rc, admin, photo, models.CollectionAvatars)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, db, adminID)
}

func (s *adminService) Get(ctx context.Context, db *gorm.DB, adminID string) (*dto.AdminResponse, error) {
	admin, err := s.crud.Get(db, adminID, repositories.FindOptions{})
	if err != nil {
		return nil, err
	}
	return s.present(ctx, db, admin)
}

func (s *adminService) GetByUser(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminResponse, error) {
	admin, err := s.adminRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleRepoError("admin", err)
	}
	return s.present(ctx, db, admin)
}

func (s *adminService) present(ctx context.Context, db *gorm.DB, admin *models.Admin) (*dto.AdminResponse, error) {
	photo, err := presentPrimary(ctx, db, s.media, admin)
	if err != nil {
		return nil, err
	}
	return &dto.AdminResponse{Admin: admin, Photo: photo}, nil
}

func (s *adminService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Admin], error) {
	return s.crud.List(db, spec)
}

// Delete снимает права: профиль удаляется мягко, учетная запись
// возвращается к роли user
func (s *adminService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, adminID, reason string) error {
	if rc.ActorID != "" {
		if own, err := s.adminRepo.FindByUserID(db, rc.ActorID); err == nil && own.ID == adminID {
			return apperrors.ErrInvalidOperation("admin", "Admins cannot delete their own profile")
		}
	}

	return withTx(db, func(tx *gorm.DB) error {
		admin, err := s.crud.DeleteTx(tx, rc, adminID, repositories.DeleteOptions{ActorID: rc.ActorID, Reason: reason})
		if err != nil {
			return err
		}
		_, err = s.users.UpdateTx(tx, rc, admin.UserID, map[string]any{"role": models.UserRoleUser})
		return err
	})
}
