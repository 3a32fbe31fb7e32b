package services

import (
	"context"
	"strings"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/slug"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

// ============================================
// Виды магазинов
// ============================================

type ShopCategoryService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateShopCategoryRequest) (*models.ShopCategory, error)
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string, req *dto.UpdateShopCategoryRequest) (*models.ShopCategory, error)
	Get(ctx context.Context, db *gorm.DB, categoryID string) (*models.ShopCategory, error)
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.ShopCategory], error)
	// Active - публичный список для формы регистрации магазина
	Active(ctx context.Context, db *gorm.DB) ([]models.ShopCategory, error)
	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string) (*models.ShopCategory, error)
}

type shopCategoryService struct {
	crud      *CrudService[models.ShopCategory]
	repo      repositories.CategoryRepository
	validator *validator.Validator
}

func NewShopCategoryService(repo repositories.CategoryRepository, bus events.Bus, v *validator.Validator) ShopCategoryService {
	return &shopCategoryService{
		crud:      NewCrudService[models.ShopCategory](repo.ShopCategories(), bus, "shop_category"),
		repo:      repo,
		validator: v,
	}
}

func (s *shopCategoryService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateShopCategoryRequest) (*models.ShopCategory, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	category := &models.ShopCategory{
		Name:     strings.TrimSpace(req.Name),
		Slug:     slug.Make(req.Slug),
		Icon:     req.Icon,
		IsActive: boolOr(req.IsActive, true),
	}
	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}
	if category.Slug == "" {
		return nil, apperrors.FieldError("slug", "slug cannot be derived from name")
	}

	err := withTx(db, func(tx *gorm.DB) error {
		if err := slugFree(s.repo.ShopCategorySlugExists(tx, category.Slug, "")); err != nil {
			return err
		}
		return s.crud.CreateTx(tx, rc, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *shopCategoryService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string, req *dto.UpdateShopCategoryRequest) (*models.ShopCategory, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	if req.Name != nil {
		values["name"] = strings.TrimSpace(*req.Name)
	}
	setIf(values, "icon", req.Icon)
	setIf(values, "is_active", req.IsActive)

	var updated *models.ShopCategory
	err := withTx(db, func(tx *gorm.DB) error {
		if req.Slug != nil {
			newSlug := slug.Make(*req.Slug)
			if newSlug == "" && req.Name != nil {
				newSlug = slug.Make(*req.Name)
			}
			if newSlug == "" {
				return apperrors.FieldError("slug", "slug cannot be empty")
			}
			if err := slugFree(s.repo.ShopCategorySlugExists(tx, newSlug, categoryID)); err != nil {
				return err
			}
			values["slug"] = newSlug
		}

		var err error
		updated, err = s.crud.UpdateTx(tx, rc, categoryID, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *shopCategoryService) Get(ctx context.Context, db *gorm.DB, categoryID string) (*models.ShopCategory, error) {
	return s.crud.Get(db, categoryID, repositories.FindOptions{})
}

func (s *shopCategoryService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.ShopCategory], error) {
	return s.crud.List(db, spec)
}

func (s *shopCategoryService) Active(ctx context.Context, db *gorm.DB) ([]models.ShopCategory, error) {
	items, err := s.repo.ActiveShopCategories(db)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return items, nil
}

func (s *shopCategoryService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID, reason string) error {
	return s.crud.Delete(db, rc, categoryID, reason)
}

// Restore - slug мог занять кто-то другой, пока категория лежала в корзине
func (s *shopCategoryService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string) (*models.ShopCategory, error) {
	var restored *models.ShopCategory
	err := withTx(db, func(tx *gorm.DB) error {
		var err error
		restored, err = s.crud.RestoreTx(tx, rc, categoryID)
		if err != nil {
			return err
		}
		return slugFree(s.repo.ShopCategorySlugExists(tx, restored.Slug, restored.ID))
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// ============================================
// Разделы витрины магазина
// ============================================

type ShopProductCategoryService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateProductCategoryRequest) (*models.ShopProductCategory, error)
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string, req *dto.UpdateProductCategoryRequest) (*models.ShopProductCategory, error)
	Get(ctx context.Context, db *gorm.DB, categoryID string) (*models.ShopProductCategory, error)
	// ListForShop - без магазина список не отдается
	ListForShop(ctx context.Context, db *gorm.DB, shopID string, spec query.Spec) (*query.Page[models.ShopProductCategory], error)
	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string) (*models.ShopProductCategory, error)
}

type shopProductCategoryService struct {
	crud       *CrudService[models.ShopProductCategory]
	repo       repositories.CategoryRepository
	vendorRepo repositories.VendorRepository
	validator  *validator.Validator
}

func NewShopProductCategoryService(
	repo repositories.CategoryRepository,
	vendorRepo repositories.VendorRepository,
	bus events.Bus,
	v *validator.Validator,
) ShopProductCategoryService {
	return &shopProductCategoryService{
		crud:       NewCrudService[models.ShopProductCategory](repo.ProductCategories(), bus, "product_category"),
		repo:       repo,
		vendorRepo: vendorRepo,
		validator:  v,
	}
}

func (s *shopProductCategoryService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, req *dto.CreateProductCategoryRequest) (*models.ShopProductCategory, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	category := &models.ShopProductCategory{
		ShopID:    req.ShopID,
		Name:      strings.TrimSpace(req.Name),
		Slug:      slug.Make(req.Name),
		SortOrder: req.SortOrder,
		IsActive:  boolOr(req.IsActive, true),
	}
	if category.Slug == "" {
		return nil, apperrors.FieldError("name", "slug cannot be derived from name")
	}

	err := withTx(db, func(tx *gorm.DB) error {
		if _, err := s.vendorRepo.FindShop(tx, req.ShopID); err != nil {
			return handleRepoError("shop", err)
		}
		if err := slugFree(s.repo.ProductCategorySlugExists(tx, category.ShopID, category.Slug, "")); err != nil {
			return err
		}
		return s.crud.CreateTx(tx, rc, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Update - slug следует за названием
func (s *shopProductCategoryService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string, req *dto.UpdateProductCategoryRequest) (*models.ShopProductCategory, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	setIf(values, "sort_order", req.SortOrder)
	setIf(values, "is_active", req.IsActive)

	var updated *models.ShopProductCategory
	err := withTx(db, func(tx *gorm.DB) error {
		if req.Name != nil {
			current, err := s.crud.Get(tx, categoryID, repositories.FindOptions{})
			if err != nil {
				return err
			}
			name := strings.TrimSpace(*req.Name)
			newSlug := slug.Make(name)
			if newSlug == "" {
				return apperrors.FieldError("name", "slug cannot be derived from name")
			}
			if err := slugFree(s.repo.ProductCategorySlugExists(tx, current.ShopID, newSlug, categoryID)); err != nil {
				return err
			}
			values["name"] = name
			values["slug"] = newSlug
		}

		var err error
		updated, err = s.crud.UpdateTx(tx, rc, categoryID, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *shopProductCategoryService) Get(ctx context.Context, db *gorm.DB, categoryID string) (*models.ShopProductCategory, error) {
	return s.crud.Get(db, categoryID, repositories.FindOptions{})
}

func (s *shopProductCategoryService) ListForShop(ctx context.Context, db *gorm.DB, shopID string, spec query.Spec) (*query.Page[models.ShopProductCategory], error) {
	if shopID == "" {
		return nil, apperrors.FieldError("shop_id", "shop_id is required")
	}
	return s.crud.List(db, spec.Where("shop_id", query.OpEq, shopID))
}

func (s *shopProductCategoryService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID, reason string) error {
	return s.crud.Delete(db, rc, categoryID, reason)
}

func (s *shopProductCategoryService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, categoryID string) (*models.ShopProductCategory, error) {
	var restored *models.ShopProductCategory
	err := withTx(db, func(tx *gorm.DB) error {
		var err error
		restored, err = s.crud.RestoreTx(tx, rc, categoryID)
		if err != nil {
			return err
		}
		return slugFree(s.repo.ProductCategorySlugExists(tx, restored.ShopID, restored.Slug, restored.ID))
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// slugFree принимает результат проверки slug прямо из репозитория
func slugFree(taken bool, err error) error {
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if taken {
		return apperrors.ErrCategorySlugTaken
	}
	return nil
}
