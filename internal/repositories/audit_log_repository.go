package repositories

import (
	"time"

	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"

	"gorm.io/gorm"
)

// AuditLogRepository - вставка и чтение. Записи не обновляются, удаляются только по сроку хранения.
type AuditLogRepository interface {
	Create(db *gorm.DB, entry *models.AuditLog) error
	Paginate(db *gorm.DB, spec query.Spec) (*query.Page[models.AuditLog], error)
	ForEntity(db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error)
	PurgeBefore(db *gorm.DB, cutoff time.Time) (int64, error)
	// Recent - последние записи вместе с именем автора
	Recent(db *gorm.DB, limit int) ([]AuditActivity, error)
}

// AuditActivity - запись журнала с именем пользователя, если автор известен
type AuditActivity struct {
	models.AuditLog
	ActorName *string
}

type AuditLogRepositoryImpl struct{}

func NewAuditLogRepository() AuditLogRepository {
	return &AuditLogRepositoryImpl{}
}

func (r *AuditLogRepositoryImpl) Create(db *gorm.DB, entry *models.AuditLog) error {
	return db.Create(entry).Error
}

func (r *AuditLogRepositoryImpl) Paginate(db *gorm.DB, spec query.Spec) (*query.Page[models.AuditLog], error) {
	return query.Paginate[models.AuditLog](db, spec, AuditLogSchema)
}

func (r *AuditLogRepositoryImpl) ForEntity(db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error) {
	logs := make([]models.AuditLog, 0)
	err := db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}

// PurgeBefore удаляет записи журнала старше cutoff
func (r *AuditLogRepositoryImpl) PurgeBefore(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}

func (r *AuditLogRepositoryImpl) Recent(db *gorm.DB, limit int) ([]AuditActivity, error) {
	out := make([]AuditActivity, 0, limit)
	err := db.Model(&models.AuditLog{}).
		Select("audit_logs.*, users.name AS actor_name").
		Joins("LEFT JOIN users ON users.id = audit_logs.actor_id").
		Order("audit_logs.created_at DESC").
		Order("audit_logs.id DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
