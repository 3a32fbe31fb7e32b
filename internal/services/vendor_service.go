package services

import (
	"context"
	"errors"
	"fmt"

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

type VendorService interface {
	Register(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.RegisterVendorRequest) (*dto.VendorResponse, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string, req *dto.UpdateVendorStatusRequest) (*models.Vendor, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string, req *dto.UpdateVendorRequest) (*dto.VendorResponse, error)
	GetProfile(ctx context.Context, db *gorm.DB, vendorID string, includeDeleted bool) (*dto.VendorResponse, error)
	GetByUser(ctx context.Context, db *gorm.DB, userID string) (*dto.VendorResponse, error)
	// RegistrationStatus - последняя заявка пользователя; nil, если заявок не было
	RegistrationStatus(ctx context.Context, db *gorm.DB, userID string) (*dto.RegistrationStatus, error)

	// ListPublic - только одобренные, активные и публичные вендоры
	ListPublic(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Vendor], error)
	List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Vendor], error)

	Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID, reason string) error
	Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string) (*models.Vendor, error)

	UploadMedia(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string, file media.FileInput, isPrimary bool) (*media.View, error)
}

type vendorService struct {
	crud         *CrudService[models.Vendor]
	shops        *CrudService[models.Shop]
	users        *CrudService[models.User]
	vendorRepo   repositories.VendorRepository
	userRepo     repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	media        *media.Manager
	validator    *validator.Validator
}

func NewVendorService(
	vendorRepo repositories.VendorRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	mediaManager *media.Manager,
	bus events.Bus,
	v *validator.Validator,
) VendorService {
	return &vendorService{
		crud:         NewCrudService[models.Vendor](vendorRepo, bus, "vendor"),
		shops:        NewCrudService[models.Shop](vendorRepo.Shops(), bus, "shop"),
		users:        NewCrudService[models.User](userRepo, bus, "user"),
		vendorRepo:   vendorRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		media:        mediaManager,
		validator:    v,
	}
}

// Переходы статуса верификации
var verificationTransitions = map[models.VerificationStatus][]models.VerificationStatus{
	models.VerificationPending:  {models.VerificationApproved, models.VerificationRejected},
	models.VerificationApproved: {models.VerificationRejected, models.VerificationPending},
	models.VerificationRejected: {models.VerificationApproved, models.VerificationPending},
}

func canTransition(from, to models.VerificationStatus) bool {
	for _, next := range verificationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ============================================
// Регистрация
// ============================================

func (s *vendorService) Register(ctx context.Context, db *gorm.DB, rc audit.RequestContext, userID string, req *dto.RegisterVendorRequest) (*dto.VendorResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	req.ShopCategoryID = emptyToNil(req.ShopCategoryID)

	var vendorID string
	err := withTx(db, func(tx *gorm.DB) error {
		user, err := s.userRepo.Find(tx, userID, repositories.FindOptions{})
		if err != nil {
			return handleRepoError("user", err)
		}
		if req.VendorType == models.VendorTypeShop {
			if err := s.checkShopCategory(tx, req.ShopCategoryID); err != nil {
				return err
			}
		}

		if _, err := s.vendorRepo.FindByUserID(tx, userID); err == nil {
			return apperrors.ErrVendorAlreadyRegistered
		} else if !errors.Is(err, repositories.ErrVendorNotFound) {
			return apperrors.DatabaseError(err)
		}

		vendor := &models.Vendor{
			UserID:             userID,
			VendorType:         req.VendorType,
			BusinessName:       req.BusinessName,
			Description:        req.Description,
			Phone:              req.Phone,
			Email:              req.Email,
			Website:            req.Website,
			Address:            req.Address,
			City:               req.City,
			State:              req.State,
			Latitude:           req.Latitude,
			Longitude:          req.Longitude,
			IsVerified:         false,
			IsPublic:           boolOr(req.IsPublic, true),
			IsActive:           false,
			VerificationStatus: models.VerificationPending,
			Status:             models.VendorStatusActive,
		}
		if err := s.crud.CreateTx(tx, rc, vendor); err != nil {
			return err
		}

		profile, err := newProfile(vendor, req)
		if err != nil {
			return err
		}
		if shop, ok := profile.(*models.Shop); ok {
			if err := s.shops.CreateTx(tx, rc, shop); err != nil {
				return err
			}
		} else if err := s.vendorRepo.CreateProfile(tx, profile); err != nil {
			return apperrors.DatabaseError(err)
		}

		if len(req.OpeningTimes) > 0 {
			if err := s.vendorRepo.ReplaceOpeningTimes(tx, vendor.ID, openingTimes(req.OpeningTimes)); err != nil {
				return apperrors.DatabaseError(err)
			}
		}
		if len(req.TagIDs) > 0 {
			if err := s.vendorRepo.SyncTags(tx, vendor, req.TagIDs); err != nil {
				return apperrors.DatabaseError(err)
			}
		}

		if user.Role == models.UserRoleUser {
			if _, err := s.users.UpdateTx(tx, rc, userID, map[string]any{"role": models.UserRoleVendor}); err != nil {
				return err
			}
		}

		vendorID = vendor.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, db, vendorID, false)
}

// newProfile - под-профиль по типу вендора
func newProfile(vendor *models.Vendor, req *dto.RegisterVendorRequest) (any, error) {
	switch vendor.VendorType {
	case models.VendorTypeShop:
		return &models.Shop{
			VendorID:            vendor.ID,
			ShopName:            vendor.BusinessName,
			ShopCategoryID:      req.ShopCategoryID,
			Description:         vendor.Description,
			Address:             vendor.FullAddress(),
			PriceDisplayEnabled: req.PriceDisplayEnabled,
		}, nil
	case models.VendorTypeDoctor:
		doctor := &models.Doctor{
			VendorID:        vendor.ID,
			ClinicName:      req.ClinicName,
			Specialization:  req.Specialization,
			Qualification:   req.Qualification,
			ClinicAddress:   vendor.FullAddress(),
			ExperienceYears: req.ExperienceYears,
		}
		if doctor.ClinicName == "" {
			doctor.ClinicName = vendor.BusinessName
		}
		if doctor.Specialization == "" {
			doctor.Specialization = "General"
		}
		if doctor.Qualification == "" {
			doctor.Qualification = "N/A"
		}
		return doctor, nil
	case models.VendorTypeBarber:
		return &models.Barber{
			VendorID: vendor.ID,
			ShopName: vendor.BusinessName,
			Services: req.Services,
			Address:  vendor.FullAddress(),
		}, nil
	}
	return nil, apperrors.FieldError("vendor_type", fmt.Sprintf("unknown vendor type %q", vendor.VendorType))
}

// checkShopCategory - категория необязательна, но если указана, должна быть активной
func (s *vendorService) checkShopCategory(tx *gorm.DB, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindActiveShopCategory(tx, *categoryID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return apperrors.FieldError("shop_category_id", "shop category does not exist or is inactive")
		}
		return apperrors.DatabaseError(err)
	}
	return nil
}

func openingTimes(in []dto.OpeningTimeInput) []models.VendorOpeningTime {
	out := make([]models.VendorOpeningTime, 0, len(in))
	for _, t := range in {
		item := models.VendorOpeningTime{
			DayOfWeek: t.DayOfWeek,
			IsClosed:  t.IsClosed,
		}
		if !t.IsClosed {
			item.OpenTime = t.OpenTime
			item.CloseTime = t.CloseTime
		}
		out = append(out, item)
	}
	return out
}

// ============================================
// Статус верификации
// ============================================

func (s *vendorService) UpdateStatus(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string, req *dto.UpdateVendorStatusRequest) (*models.Vendor, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}

	var updated *models.Vendor
	err := withTx(db, func(tx *gorm.DB) error {
		vendor, err := s.vendorRepo.Find(tx, vendorID, repositories.FindOptions{})
		if err != nil {
			return handleVendorError(err)
		}

		if vendor.VerificationStatus == req.Status {
			return apperrors.ErrSameVerificationStatus
		}
		if !canTransition(vendor.VerificationStatus, req.Status) {
			return apperrors.ErrInvalidStatus("vendor",
				fmt.Sprintf("cannot change status from %s to %s", vendor.VerificationStatus, req.Status))
		}

		approved := req.Status == models.VerificationApproved
		updated, err = s.crud.UpdateTx(tx, rc, vendorID, map[string]any{
			"verification_status": req.Status,
			"is_verified":         approved,
			"is_active":           approved,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ============================================
// Профиль
// ============================================

func (s *vendorService) UpdateProfile(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string, req *dto.UpdateVendorRequest) (*dto.VendorResponse, error) {
	if err := validate(s.validator, req); err != nil {
		return nil, err
	}
	req.ShopCategoryID = emptyToNil(req.ShopCategoryID)

	err := withTx(db, func(tx *gorm.DB) error {
		values := map[string]any{}
		setIf(values, "business_name", req.BusinessName)
		setIf(values, "description", req.Description)
		setIf(values, "phone", req.Phone)
		setIf(values, "email", req.Email)
		setIf(values, "website", req.Website)
		setIf(values, "address", req.Address)
		setIf(values, "city", req.City)
		setIf(values, "state", req.State)
		setIf(values, "latitude", req.Latitude)
		setIf(values, "longitude", req.Longitude)
		setIf(values, "is_public", req.IsPublic)

		vendor, err := s.crud.UpdateTx(tx, rc, vendorID, values)
		if err != nil {
			return err
		}

		if err := s.updateProfile(tx, rc, vendor, req); err != nil {
			return err
		}

		if req.OpeningTimes != nil {
			if err := s.vendorRepo.ReplaceOpeningTimes(tx, vendor.ID, openingTimes(req.OpeningTimes)); err != nil {
				return apperrors.DatabaseError(err)
			}
		}
		if req.TagIDs != nil {
			if err := s.vendorRepo.SyncTags(tx, vendor, req.TagIDs); err != nil {
				return apperrors.DatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, db, vendorID, false)
}

// updateProfile - магазин меняется через CrudService, чтобы изменение попало в журнал
func (s *vendorService) updateProfile(tx *gorm.DB, rc audit.RequestContext, vendor *models.Vendor, req *dto.UpdateVendorRequest) error {
	values := profileValues(vendor, req)
	if vendor.VendorType != models.VendorTypeShop {
		if err := s.vendorRepo.UpdateProfile(tx, vendor.VendorType, vendor.ID, values); err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				return handleVendorError(err)
			}
			return apperrors.DatabaseError(err)
		}
		return nil
	}

	if req.ShopCategoryID != nil {
		if err := s.checkShopCategory(tx, req.ShopCategoryID); err != nil {
			return err
		}
		values["shop_category_id"] = *req.ShopCategoryID
	}
	shop, err := s.vendorRepo.FindShopByVendor(tx, vendor.ID)
	if err != nil {
		return handleVendorError(err)
	}
	_, err = s.shops.UpdateTx(tx, rc, shop.ID, values)
	return err
}

// profileValues - изменения под-профиля: название и адрес всегда
// синхронизируются с вендором, остальное по типу
func profileValues(vendor *models.Vendor, req *dto.UpdateVendorRequest) map[string]any {
	values := map[string]any{}
	switch vendor.VendorType {
	case models.VendorTypeShop:
		values["shop_name"] = vendor.BusinessName
		values["address"] = vendor.FullAddress()
		setIf(values, "description", req.Description)
		setIf(values, "price_display_enabled", req.PriceDisplayEnabled)
	case models.VendorTypeDoctor:
		values["clinic_address"] = vendor.FullAddress()
		setIf(values, "clinic_name", req.ClinicName)
		setIf(values, "specialization", req.Specialization)
		setIf(values, "qualification", req.Qualification)
		setIf(values, "experience_years", req.ExperienceYears)
	case models.VendorTypeBarber:
		values["shop_name"] = vendor.BusinessName
		values["address"] = vendor.FullAddress()
		setIf(values, "services", req.Services)
	}
	return values
}

func (s *vendorService) GetProfile(ctx context.Context, db *gorm.DB, vendorID string, includeDeleted bool) (*dto.VendorResponse, error) {
	vendor, err := s.vendorRepo.FindWithRelations(db, vendorID, includeDeleted)
	if err != nil {
		return nil, handleVendorError(err)
	}

	views, err := presentAll(ctx, db, s.media, vendor)
	if err != nil {
		return nil, err
	}
	return &dto.VendorResponse{Vendor: vendor, Media: views}, nil
}

func (s *vendorService) GetByUser(ctx context.Context, db *gorm.DB, userID string) (*dto.VendorResponse, error) {
	vendor, err := s.vendorRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleVendorError(err)
	}
	return s.GetProfile(ctx, db, vendor.ID, false)
}

// RegistrationStatus видит и удаленную заявку: причина удаления
// отдается пользователю как причина отказа
func (s *vendorService) RegistrationStatus(ctx context.Context, db *gorm.DB, userID string) (*dto.RegistrationStatus, error) {
	vendor, err := s.vendorRepo.LatestByUser(db, userID)
	if errors.Is(err, repositories.ErrVendorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return &dto.RegistrationStatus{
		Status:       vendor.VerificationStatus,
		IsVerified:   vendor.IsVerified,
		Reason:       vendor.DeleteReason,
		BusinessName: vendor.BusinessName,
	}, nil
}

// ============================================
// Списки
// ============================================

var vendorListPreloads = []string{"Shop", "Doctor", "Barber", "Tags"}

func (s *vendorService) ListPublic(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Vendor], error) {
	spec = spec.
		Where("verification_status", query.OpEq, string(models.VerificationApproved)).
		Where("is_active", query.OpEq, true).
		Where("is_public", query.OpEq, true)
	spec.IncludeDeleted = false
	spec.OnlyDeleted = false
	return s.crud.List(db, spec, vendorListPreloads...)
}

func (s *vendorService) List(ctx context.Context, db *gorm.DB, spec query.Spec) (*query.Page[models.Vendor], error) {
	return s.crud.List(db, spec, vendorListPreloads...)
}

// ============================================
// Удаление
// ============================================

// Delete - мягкое удаление вендора вместе с под-профилем
func (s *vendorService) Delete(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID, reason string) error {
	return withTx(db, func(tx *gorm.DB) error {
		opts := repositories.DeleteOptions{ActorID: rc.ActorID, Reason: reason}
		vendor, err := s.crud.DeleteTx(tx, rc, vendorID, opts)
		if err != nil {
			return err
		}
		if vendor.VendorType == models.VendorTypeShop {
			shop, err := s.vendorRepo.FindShopByVendor(tx, vendor.ID)
			if err != nil {
				return handleVendorError(err)
			}
			_, err = s.shops.DeleteTx(tx, rc, shop.ID, opts)
			return err
		}
		if err := s.vendorRepo.DeleteProfile(tx, vendor.VendorType, vendor.ID, rc.ActorID, reason); err != nil {
			return apperrors.DatabaseError(err)
		}
		return nil
	})
}

func (s *vendorService) Restore(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string) (*models.Vendor, error) {
	var restored *models.Vendor
	err := withTx(db, func(tx *gorm.DB) error {
		var err error
		restored, err = s.crud.RestoreTx(tx, rc, vendorID)
		if err != nil {
			return err
		}
		if err := s.restoreProfile(tx, rc, restored); err != nil {
			return err
		}

		// активен только одобренный вендор
		approved := restored.VerificationStatus == models.VerificationApproved
		if restored.IsActive != approved || restored.IsVerified != approved {
			restored, err = s.crud.UpdateTx(tx, rc, vendorID, map[string]any{
				"is_verified": approved,
				"is_active":   approved,
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

func (s *vendorService) restoreProfile(tx *gorm.DB, rc audit.RequestContext, vendor *models.Vendor) error {
	if vendor.VendorType != models.VendorTypeShop {
		if err := s.vendorRepo.RestoreProfile(tx, vendor.VendorType, vendor.ID); err != nil {
			return apperrors.DatabaseError(err)
		}
		return nil
	}

	shopID, err := s.vendorRepo.ShopIDByVendor(tx, vendor.ID)
	if err != nil {
		return handleVendorError(err)
	}
	if _, err := s.vendorRepo.FindShop(tx, shopID); err == nil {
		return nil
	}
	_, err = s.shops.RestoreTx(tx, rc, shopID)
	return err
}

// ============================================
// Медиа
// ============================================

func (s *vendorService) UploadMedia(ctx context.Context, db *gorm.DB, rc audit.RequestContext, vendorID string, file media.FileInput, isPrimary bool) (*media.View, error) {
	vendor, err := s.vendorRepo.Find(db, vendorID, repositories.FindOptions{})
	if err != nil {
		return nil, handleVendorError(err)
	}

	uploaded, err := s.media.Upload(ctx, db, rc, file, vendor, media.Options{
		Collection: models.CollectionVendors,
		IsPrimary:  isPrimary,
		WithResize: true,
	})
	if err != nil {
		return nil, err
	}
	return s.media.Present(ctx, uploaded)
}

func handleVendorError(err error) error {
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return notFound("vendor profile", err)
	}
	return handleRepoError("vendor", err)
}
