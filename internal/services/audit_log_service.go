package services

import (
	"context"
	"strings"

	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

// AuditLogService - только чтение журнала
type AuditLogService interface {
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.AuditLog], error)
	ByModule(ctx context.Context, db *gorm.DB, module string, spec query.Spec) (*query.Page[models.AuditLog], error)
	ForEntity(ctx context.Context, db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error)
}

type auditLogService struct {
	repo repositories.AuditLogRepository
}

func NewAuditLogService(repo repositories.AuditLogRepository) AuditLogService {
	return &auditLogService{repo: repo}
}

func (s *auditLogService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.AuditLog], error) {
	page, err := s.repo.Paginate(db, spec)
	if err != nil {
		return nil, handleRepoError("audit log", err)
	}
	return page, nil
}

func (s *auditLogService) ByModule(ctx context.Context, db *gorm.DB, module string, spec query.Spec) (*query.Page[models.AuditLog], error) {
	module = strings.TrimSpace(module)
	if module == "" {
		return nil, apperrors.FieldError("module", "module is required")
	}
	return s.List(ctx, db, spec.Where("module", query.OpEq, module))
}

func (s *auditLogService) ForEntity(ctx context.Context, db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error) {
	logs, err := s.repo.ForEntity(db, entityType, entityID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return logs, nil
}
