package services

import (
	"context"
	"errors"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"gorm.io/gorm"
)

type ShopProductService interface {
	Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, shopID string, req *dto.CreateProductRequest) (*models.ShopProduct, error)
	Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, productID string, req *dto.UpdateProductRequest) (*models.ShopProduct, error)
	Get(ctx context.Context, db *gorm.DB, productID string) (*models.ShopProduct, error)
	// List - фильтры price_min/price_max, is_active, поиск по name/description
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.ShopProduct], error)
	ListForShop(ctx context.Context, db *gorm.DB, shopID string, spec query.Spec) (*query.Page[models.ShopProduct], error)
	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, productID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, productID string) (*models.ShopProduct, error)

	// ShopForVendor - магазин вендора (для маршрутов "мои товары")
	ShopForVendor(ctx context.Context, db *gorm.DB, vendorID string) (*models.Shop, error)
}

type shopProductService struct {
	crud         *CrudService[models.ShopProduct]
	vendorRepo   repositories.VendorRepository
	categoryRepo repositories.CategoryRepository
	validator    *validator.Validator
}

func NewShopProductService(
	productRepo repositories.Repository[models.ShopProduct],
	vendorRepo repositories.VendorRepository,
	categoryRepo repositories.CategoryRepository,
	bus events.Bus,
	v *validator.Validator,
) ShopProductService {
	return &shopProductService{
		crud:         NewCrudService[models.ShopProduct](productRepo, bus, "product"),
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		validator:    v,
	}
}

func (s *shopProductService) Create(ctx context.Context, db *gorm.DB, rc audit.RequestContext, shopID string, req *dto.CreateProductRequest) (*models.ShopProduct, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	product := &models.ShopProduct{
		ShopID:       shopID,
		CategoryID:   emptyToNil(req.CategoryID),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		IsActive:     boolOr(req.IsActive, true),
	}

	err := withTx(db, func(tx *gorm.DB) error {
		if _, err := s.vendorRepo.FindShop(tx, shopID); err != nil {
			return handleRepoError("shop", err)
		}
		if err := s.checkCategory(tx, shopID, product.CategoryID); err != nil {
			return err
		}
		return s.crud.CreateTx(tx, rc, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *shopProductService) Update(ctx context.Context, db *gorm.DB, rc audit.RequestContext, productID string, req *dto.UpdateProductRequest) (*models.ShopProduct, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	values := map[string]any{}
	setIf(values, "name", req.Name)
	setIf(values, "description", req.Description)
	setIf(values, "price", req.Price)
	setIf(values, "compare_price", req.ComparePrice)
	setIf(values, "is_active", req.IsActive)

	var updated *models.ShopProduct
	err := withTx(db, func(tx *gorm.DB) error {
		if req.CategoryID != nil {
			categoryID := emptyToNil(req.CategoryID)
			product, err := s.crud.Get(tx, productID, repositories.FindOptions{})
			if err != nil {
				return err
			}
			if err := s.checkCategory(tx, product.ShopID, categoryID); err != nil {
				return err
			}
			values["category_id"] = categoryID
		}

		var err error
		updated, err = s.crud.UpdateTx(tx, rc, productID, values)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// checkCategory - раздел должен принадлежать тому же магазину
func (s *shopProductService) checkCategory(tx *gorm.DB, shopID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindProductCategory(tx, shopID, *categoryID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.FieldError("category_id", "category does not belong to this shop")
		}
		return apperrors.DatabaseError(err)
	}
	return nil
}

func (s *shopProductService) Get(ctx context.Context, db *gorm.DB, productID string) (*models.ShopProduct, error) {
	return s.crud.Get(db, productID, repositories.FindOptions{Preload: []string{"Shop"}})
}

func (s *shopProductService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.ShopProduct], error) {
	return s.crud.List(db, spec)
}

func (s *shopProductService) ListForShop(ctx context.Context, db *gorm.DB, shopID string, spec query.Spec) (*query.Page[models.ShopProduct], error) {
	return s.crud.List(db, spec.Where("shop_id", query.OpEq, shopID))
}

func (s *shopProductService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, productID, reason string) error {
	return s.crud.Delete(db, rc, productID, reason)
}

func (s *shopProductService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, productID string) (*models.ShopProduct, error) {
	return s.crud.Restore(db, rc, productID)
}

func (s *shopProductService) ShopForVendor(ctx context.Context, db *gorm.DB, vendorID string) (*models.Shop, error) {
	shop, err := s.vendorRepo.FindShopByVendor(db, vendorID)
	if err != nil {
		return nil, handleRepoError("shop", err)
	}
	return shop, nil
}
