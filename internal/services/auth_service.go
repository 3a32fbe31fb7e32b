package services

import (
	"context"
	"errors"
	"strings"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	authModule = "auth"
	tokenType  = "Bearer"
)

type AuthService interface {
	// Register - самостоятельная регистрация, если ее разрешает настройка
	Register(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login принимает email или телефон
	Login(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, db *gorm.DB, rc audit.RequestContext) error
}

type authService struct {
	users     *CrudService[models.User]
	userRepo  repositories.UserRepository
	adminRepo repositories.AdminRepository
	settings  SettingService
	tokens    *auth.TokenManager
	auditor   AuditRecorder
	validator *validator.Validator
}

func NewAuthService(
	userRepo repositories.UserRepository,
	adminRepo repositories.AdminRepository,
	settings SettingService,
	tokens *auth.TokenManager,
	auditor AuditRecorder,
	bus events.Bus,
	v *validator.Validator,
) AuthService {
	return &authService{
		users:     NewCrudService[models.User](userRepo, bus, "user"),
		userRepo:  userRepo,
		adminRepo: adminRepo,
		settings:  settings,
		tokens:    tokens,
		auditor:   auditor,
		validator: v,
	}
}

func (s *authService) Register(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	allowed, err := s.settings.GetBool(ctx, db, models.SettingAllowRegistration, true)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.ErrRegistrationClosed
	}

	req.Normalize()
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	email := req.Email
	user := &models.User{
		Name:         req.Name,
		Email:        email,
		Phone:        optionalString(req.Phone),
		PasswordHash: hash,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}

	err = withTx(db, func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByEmail(tx, email); err == nil {
			return apperrors.ErrEmailAlreadyExists
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.DatabaseError(err)
		}
		if err := s.users.CreateTx(tx, rc.WithActor(""), user); err != nil {
			return handleUserError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID)
	return s.issue(ctx, db, rc, user)
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	login := strings.TrimSpace(req.Login)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	user, err := s.userRepo.FindByLogin(db, login)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.recordLogin(ctx, db, rc.WithActor(user.ID), user.ID, models.AuditStatusFailed, "invalid password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.recordLogin(ctx, db, rc.WithActor(user.ID), user.ID, models.AuditStatusFailed, "account deactivated")
		return nil, apperrors.ErrAccountDeactivated
	}

	return s.issue(ctx, db, rc.WithActor(user.ID), user)
}

// issue выдает токен и пишет вход в журнал.
// Администратор получает роль admin независимо от роли учетной записи.
func (s *authService) issue(ctx context.Context, db *gorm.DB, rc audit.RequestContext, user *models.User) (*dto.AuthResponse, error) {
	isAdmin, err := s.adminRepo.IsAdmin(db, user.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	role := auth.TokenRole(user.Role, isAdmin)
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.auditor.Record(db, rc.WithActor(user.ID), audit.Entry{
		Module:     authModule,
		Action:     models.AuditActionLogin,
		EntityType: "User",
		EntityID:   user.ID,
		New:        map[string]any{"role": role},
	}); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// recordLogin - неудачный вход; ошибка записи только логируется
func (s *authService) recordLogin(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, status models.AuditStatus, reason string) {
	err := s.auditor.Record(db, rc, audit.Entry{
		Module:     authModule,
		Action:     models.AuditActionLogin,
		EntityType: "User",
		EntityID:   userID,
		Status:     status,
		Error:      reason,
	})
	if err != nil {
		logger.CtxWarn(ctx, "failed to record login attempt", "user_id", userID, "error", err)
	}
}

// Logout - токены без состояния, выход только пишется в журнал
func (s *authService) Logout(ctx context.Context, db *gorm.DB, rc audit.RequestContext) error {
	if rc.IsSystem() {
		return apperrors.NewUnauthorizedError("not authenticated")
	}
	if err := s.auditor.Record(db, rc, audit.Entry{
		Module:     authModule,
		Action:     models.AuditActionLogout,
		EntityType: "User",
		EntityID:   rc.ActorID,
	}); err != nil {
		return apperrors.DatabaseError(err)
	}
	return nil
}
