package repositories

import (
	"errors"

	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository - справочник видов магазинов и разделы витрин.
type CategoryRepository interface {
	ShopCategories() Repository[models.ShopCategory]
	ProductCategories() Repository[models.ShopProductCategory]

	ActiveShopCategories(db *gorm.DB) ([]models.ShopCategory, error)
	// FindActiveShopCategory - живая и включенная категория
	FindActiveShopCategory(db *gorm.DB, id string) (*models.ShopCategory, error)
	ShopCategorySlugExists(db *gorm.DB, slug, exceptID string) (bool, error)

	// FindProductCategory - живой раздел именно этого магазина
	FindProductCategory(db *gorm.DB, shopID, id string) (*models.ShopProductCategory, error)
	ProductCategorySlugExists(db *gorm.DB, shopID, slug, exceptID string) (bool, error)
}

type CategoryRepositoryImpl struct {
	shops    *GormRepository[models.ShopCategory]
	products *GormRepository[models.ShopProductCategory]
}

func NewCategoryRepository() CategoryRepository {
	return &CategoryRepositoryImpl{
		shops:    NewRepository[models.ShopCategory](ShopCategorySchema),
		products: NewRepository[models.ShopProductCategory](ShopProductCategorySchema),
	}
}

func (r *CategoryRepositoryImpl) ShopCategories() Repository[models.ShopCategory] {
	return r.shops
}

func (r *CategoryRepositoryImpl) ProductCategories() Repository[models.ShopProductCategory] {
	return r.products
}

func (r *CategoryRepositoryImpl) ActiveShopCategories(db *gorm.DB) ([]models.ShopCategory, error) {
	var items []models.ShopCategory
	err := db.Where("is_active = ? AND deleted_at IS NULL", true).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *CategoryRepositoryImpl) FindActiveShopCategory(db *gorm.DB, id string) (*models.ShopCategory, error) {
	var category models.ShopCategory
	err := db.Where("id = ? AND is_active = ? AND deleted_at IS NULL", id, true).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// ShopCategorySlugExists - среди живых категорий
func (r *CategoryRepositoryImpl) ShopCategorySlugExists(db *gorm.DB, slug, exceptID string) (bool, error) {
	q := db.Model(&models.ShopCategory{}).Where("slug = ? AND deleted_at IS NULL", slug)
	return countExcept(q, exceptID)
}

func (r *CategoryRepositoryImpl) FindProductCategory(db *gorm.DB, shopID, id string) (*models.ShopProductCategory, error) {
	var category models.ShopProductCategory
	err := db.Where("id = ? AND shop_id = ? AND deleted_at IS NULL", id, shopID).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) ProductCategorySlugExists(db *gorm.DB, shopID, slug, exceptID string) (bool, error) {
	q := db.Model(&models.ShopProductCategory{}).Where("shop_id = ? AND slug = ? AND deleted_at IS NULL", shopID, slug)
	return countExcept(q, exceptID)
}

func countExcept(q *gorm.DB, exceptID string) (bool, error) {
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}
