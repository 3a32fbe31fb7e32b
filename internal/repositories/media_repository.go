package repositories

import (
	"errors"

	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
)

var ErrMediaNotFound = errors.New("media not found")

type MediaRepository interface {
	Create(db *gorm.DB, media *models.Media) error
	FindByID(db *gorm.DB, id string) (*models.Media, error)
	// ForOwner - файлы владельца в порядке загрузки
	ForOwner(db *gorm.DB, ownerType, ownerID string) ([]models.Media, error)
	ByIDsForOwner(db *gorm.DB, ownerType, ownerID string, ids []string) ([]models.Media, error)
	UnsetPrimary(db *gorm.DB, ownerType, ownerID, exceptID string) error
	Delete(db *gorm.DB, id string) error
}

type MediaRepositoryImpl struct{}

func NewMediaRepository() MediaRepository {
	return &MediaRepositoryImpl{}
}

func (r *MediaRepositoryImpl) Create(db *gorm.DB, media *models.Media) error {
	return db.Create(media).Error
}

func (r *MediaRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Media, error) {
	var media models.Media
	if err := db.First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &media, nil
}

func (r *MediaRepositoryImpl) ForOwner(db *gorm.DB, ownerType, ownerID string) ([]models.Media, error) {
	items := make([]models.Media, 0)
	err := db.Where("model_type = ? AND model_id = ?", ownerType, ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *MediaRepositoryImpl) ByIDsForOwner(db *gorm.DB, ownerType, ownerID string, ids []string) ([]models.Media, error) {
	items := make([]models.Media, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := db.Where("model_type = ? AND model_id = ? AND id IN ?", ownerType, ownerID, ids).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *MediaRepositoryImpl) UnsetPrimary(db *gorm.DB, ownerType, ownerID, exceptID string) error {
	return db.Model(&models.Media{}).
		Where("model_type = ? AND model_id = ? AND id <> ? AND is_primary = ?", ownerType, ownerID, exceptID, true).
		Update("is_primary", false).Error
}

func (r *MediaRepositoryImpl) Delete(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Media{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMediaNotFound
	}
	return nil
}
