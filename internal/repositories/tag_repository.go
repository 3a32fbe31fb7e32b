package repositories

import (
	"errors"

	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
)

var ErrTagNotFound = errors.New("tag not found")

// TagUsage - тег с количеством активных контактов, к которым он привязан
type TagUsage struct {
	models.Tag
	ContactsCount int64 `json:"contacts_count"`
}

type CategoryCount struct {
	Category models.TagCategory `json:"category"`
	Count    int64              `json:"count"`
}

type TagStats struct {
	Total      int64           `json:"total"`
	Active     int64           `json:"active"`
	ByCategory []CategoryCount `json:"by_category"`
	MostUsed   []TagUsage      `json:"most_used"`
}

type TagRepository interface {
	Repository[models.Tag]

	FindBySlug(db *gorm.DB, slug string) (*models.Tag, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Tag, error)
	SlugExists(db *gorm.DB, slug, exceptID string) (bool, error)
	ActiveOrdered(db *gorm.DB) ([]models.Tag, error)
	Popular(db *gorm.DB, limit int) ([]TagUsage, error)
	Stats(db *gorm.DB) (*TagStats, error)
}

type TagRepositoryImpl struct {
	*GormRepository[models.Tag]
}

func NewTagRepository() TagRepository {
	return &TagRepositoryImpl{GormRepository: NewRepository[models.Tag](TagSchema)}
}

func (r *TagRepositoryImpl) FindBySlug(db *gorm.DB, slug string) (*models.Tag, error) {
	var tag models.Tag
	err := db.Where("slug = ? AND deleted_at IS NULL", slug).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	err := db.Where("id IN ? AND deleted_at IS NULL", ids).Order("name ASC").Find(&tags).Error
	return tags, err
}

// SlugExists учитывает и удаленные теги: уникальный индекс на slug общий
func (r *TagRepositoryImpl) SlugExists(db *gorm.DB, slug, exceptID string) (bool, error) {
	q := db.Model(&models.Tag{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *TagRepositoryImpl) ActiveOrdered(db *gorm.DB) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	err := db.Where("is_active = ? AND deleted_at IS NULL", true).
		Order("name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *TagRepositoryImpl) usage(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Tag{}).
		Select("tags.*, COUNT(contact_books.id) AS contacts_count").
		Joins("JOIN contact_book_tag ON contact_book_tag.tag_id = tags.id").
		Joins("JOIN contact_books ON contact_books.id = contact_book_tag.contact_book_id AND contact_books.deleted_at IS NULL AND contact_books.is_active = ?", true).
		Where("tags.deleted_at IS NULL").
		Group("tags.id")
}

// Popular - активные теги, которые используются активными контактами
func (r *TagRepositoryImpl) Popular(db *gorm.DB, limit int) ([]TagUsage, error) {
	out := make([]TagUsage, 0)
	err := r.usage(db).
		Where("tags.is_active = ?", true).
		Order("contacts_count DESC").
		Order("tags.name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *TagRepositoryImpl) Stats(db *gorm.DB) (*TagStats, error) {
	stats := &TagStats{ByCategory: []CategoryCount{}}

	live := func() *gorm.DB {
		return db.Model(&models.Tag{}).Where("deleted_at IS NULL")
	}

	if err := live().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := live().Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := live().
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category ASC").
		Scan(&stats.ByCategory).Error; err != nil {
		return nil, err
	}

	mostUsed := make([]TagUsage, 0)
	if err := r.usage(db).
		Order("contacts_count DESC").
		Order("tags.name ASC").
		Limit(10).
		Scan(&mostUsed).Error; err != nil {
		return nil, err
	}
	stats.MostUsed = mostUsed

	return stats, nil
}
