package repositories

import (
	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
)

type TypeCount struct {
	Type  models.ContactType `json:"type"`
	Count int64              `json:"count"`
}

type ContactStats struct {
	Total  int64                `json:"total"`
	Active int64                `json:"active"`
	ByType []TypeCount          `json:"by_type"`
	ByTag  []TagUsage           `json:"by_tag"`
	Recent []models.ContactBook `json:"recent"`
}

type ContactBookRepository interface {
	Repository[models.ContactBook]

	ReplaceNumbers(db *gorm.DB, contactID string, numbers []models.ContactNumber) error
	SyncTags(db *gorm.DB, contact *models.ContactBook, tagIDs []string) error
	// BulkUpdateStatus возвращает число измененных записей
	BulkUpdateStatus(db *gorm.DB, ids []string, active bool) (int64, error)
	Stats(db *gorm.DB) (*ContactStats, error)
}

type ContactBookRepositoryImpl struct {
	*GormRepository[models.ContactBook]
	tags TagRepository
}

func NewContactBookRepository(tags TagRepository) ContactBookRepository {
	return &ContactBookRepositoryImpl{
		GormRepository: NewRepository[models.ContactBook](ContactBookSchema),
		tags:           tags,
	}
}

// ContactRelations - связи, которые отдаются вместе с контактом
var ContactRelations = []string{"Tags", "ContactNumbers"}

func (r *ContactBookRepositoryImpl) ReplaceNumbers(db *gorm.DB, contactID string, numbers []models.ContactNumber) error {
	if err := db.Where("contact_book_id = ?", contactID).Delete(&models.ContactNumber{}).Error; err != nil {
		return err
	}
	if len(numbers) == 0 {
		return nil
	}
	for i := range numbers {
		numbers[i].ID = ""
		numbers[i].ContactBookID = contactID
	}
	return db.Create(&numbers).Error
}

func (r *ContactBookRepositoryImpl) SyncTags(db *gorm.DB, contact *models.ContactBook, tagIDs []string) error {
	return syncTags(db, contact, "Tags", tagIDs)
}

func (r *ContactBookRepositoryImpl) BulkUpdateStatus(db *gorm.DB, ids []string, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.Model(&models.ContactBook{}).
		Where("id IN ? AND deleted_at IS NULL", ids).
		Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (r *ContactBookRepositoryImpl) Stats(db *gorm.DB) (*ContactStats, error) {
	stats := &ContactStats{ByType: []TypeCount{}}

	live := func() *gorm.DB {
		return db.Model(&models.ContactBook{}).Where("deleted_at IS NULL")
	}

	if err := live().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := live().Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := live().
		Select("type, COUNT(*) AS count").
		Group("type").
		Order("type ASC").
		Scan(&stats.ByType).Error; err != nil {
		return nil, err
	}

	byTag, err := r.tags.Popular(db, 10)
	if err != nil {
		return nil, err
	}
	stats.ByTag = byTag

	recent := make([]models.ContactBook, 0, 5)
	if err := live().Order("created_at DESC").Order("id ASC").Limit(5).Find(&recent).Error; err != nil {
		return nil, err
	}
	stats.Recent = recent

	return stats, nil
}
