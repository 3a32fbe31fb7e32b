package repositories

import (
	"errors"
	"time"

	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVendorNotFound  = errors.New("vendor not found")
	ErrProfileNotFound = errors.New("vendor profile not found")
	ErrUnknownVendor   = errors.New("unknown vendor type")
)

type VendorRepository interface {
	Repository[models.Vendor]

	FindByUserID(db *gorm.DB, userID string) (*models.Vendor, error)
	FindWithRelations(db *gorm.DB, id string, includeDeleted bool) (*models.Vendor, error)

	// Под-профиль (shop/doctor/barber)
	CreateProfile(db *gorm.DB, profile any) error
	UpdateProfile(db *gorm.DB, vendorType models.VendorType, vendorID string, values map[string]any) error
	DeleteProfile(db *gorm.DB, vendorType models.VendorType, vendorID, actorID, reason string) error
	RestoreProfile(db *gorm.DB, vendorType models.VendorType, vendorID string) error

	ReplaceOpeningTimes(db *gorm.DB, vendorID string, times []models.VendorOpeningTime) error
	SyncTags(db *gorm.DB, vendor *models.Vendor, tagIDs []string) error

	FindShop(db *gorm.DB, shopID string) (*models.Shop, error)
	FindShopByVendor(db *gorm.DB, vendorID string) (*models.Shop, error)
	// ShopIDByVendor ищет и среди удаленных магазинов
	ShopIDByVendor(db *gorm.DB, vendorID string) (string, error)
	Shops() Repository[models.Shop]

	// LatestByUser - последняя заявка пользователя, включая удаленные
	LatestByUser(db *gorm.DB, userID string) (*models.Vendor, error)
	Stats(db *gorm.DB) (*VendorStats, error)
}

// VendorStats - счетчики по живым записям
type VendorStats struct {
	Total          int64
	Pending        int64
	ActiveServices int64 // магазины, врачи и барберы
}

type VendorRepositoryImpl struct {
	*GormRepository[models.Vendor]
	shops *GormRepository[models.Shop]
}

func NewVendorRepository() VendorRepository {
	return &VendorRepositoryImpl{
		GormRepository: NewRepository[models.Vendor](VendorSchema),
		shops:          NewRepository[models.Shop](ShopSchema),
	}
}

// VendorRelations - связи, которые отдаются вместе с профилем вендора
var VendorRelations = []string{"Shop", "Doctor", "Barber", "OpeningTimes", "Tags", "User"}

func (r *VendorRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := db.Where("user_id = ? AND deleted_at IS NULL", userID).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepositoryImpl) FindWithRelations(db *gorm.DB, id string, includeDeleted bool) (*models.Vendor, error) {
	vendor, err := r.Find(db, id, FindOptions{Preload: VendorRelations, IncludeDeleted: includeDeleted})
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrVendorNotFound
	}
	return vendor, err
}

func (r *VendorRepositoryImpl) CreateProfile(db *gorm.DB, profile any) error {
	return translate(db.Create(profile).Error)
}

// profileModel - модель под-профиля по типу вендора
func profileModel(vendorType models.VendorType) (any, error) {
	switch vendorType {
	case models.VendorTypeShop:
		return &models.Shop{}, nil
	case models.VendorTypeDoctor:
		return &models.Doctor{}, nil
	case models.VendorTypeBarber:
		return &models.Barber{}, nil
	}
	return nil, ErrUnknownVendor
}

func (r *VendorRepositoryImpl) UpdateProfile(db *gorm.DB, vendorType models.VendorType, vendorID string, values map[string]any) error {
	model, err := profileModel(vendorType)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	res := db.Model(model).Where("vendor_id = ? AND deleted_at IS NULL", vendorID).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *VendorRepositoryImpl) DeleteProfile(db *gorm.DB, vendorType models.VendorType, vendorID, actorID, reason string) error {
	model, err := profileModel(vendorType)
	if err != nil {
		return err
	}
	return db.Model(model).
		Where("vendor_id = ? AND deleted_at IS NULL", vendorID).
		Updates(map[string]any{
			"deleted_at":    time.Now(),
			"deleted_by":    nullable(actorID),
			"delete_reason": nullable(reason),
		}).Error
}

func (r *VendorRepositoryImpl) RestoreProfile(db *gorm.DB, vendorType models.VendorType, vendorID string) error {
	model, err := profileModel(vendorType)
	if err != nil {
		return err
	}
	return db.Model(model).
		Where("vendor_id = ? AND deleted_at IS NOT NULL", vendorID).
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil, "delete_reason": nil}).Error
}

// ReplaceOpeningTimes - удалить все и создать заново
func (r *VendorRepositoryImpl) ReplaceOpeningTimes(db *gorm.DB, vendorID string, times []models.VendorOpeningTime) error {
	if err := db.Where("vendor_id = ?", vendorID).Delete(&models.VendorOpeningTime{}).Error; err != nil {
		return err
	}
	if len(times) == 0 {
		return nil
	}
	for i := range times {
		times[i].ID = ""
		times[i].VendorID = vendorID
	}
	return db.Create(&times).Error
}

func (r *VendorRepositoryImpl) SyncTags(db *gorm.DB, vendor *models.Vendor, tagIDs []string) error {
	return syncTags(db, vendor, "Tags", tagIDs)
}

func (r *VendorRepositoryImpl) FindShop(db *gorm.DB, shopID string) (*models.Shop, error) {
	return findShop(db.Where("id = ? AND deleted_at IS NULL", shopID))
}

func (r *VendorRepositoryImpl) FindShopByVendor(db *gorm.DB, vendorID string) (*models.Shop, error) {
	return findShop(db.Where("vendor_id = ? AND deleted_at IS NULL", vendorID))
}

func (r *VendorRepositoryImpl) ShopIDByVendor(db *gorm.DB, vendorID string) (string, error) {
	var ids []string
	if err := db.Model(&models.Shop{}).Where("vendor_id = ?", vendorID).Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", ErrProfileNotFound
	}
	return ids[0], nil
}

func (r *VendorRepositoryImpl) Shops() Repository[models.Shop] {
	return r.shops
}

func (r *VendorRepositoryImpl) LatestByUser(db *gorm.DB, userID string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := db.Where("user_id = ?", userID).Order("created_at DESC").First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepositoryImpl) Stats(db *gorm.DB) (*VendorStats, error) {
	stats := &VendorStats{}

	live := func(model any) *gorm.DB {
		return db.Model(model).Where("deleted_at IS NULL")
	}

	if err := live(&models.Vendor{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := live(&models.Vendor{}).
		Where("verification_status = ?", models.VerificationPending).
		Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	for _, model := range []any{&models.Shop{}, &models.Doctor{}, &models.Barber{}} {
		var n int64
		if err := live(model).Count(&n).Error; err != nil {
			return nil, err
		}
		stats.ActiveServices += n
	}
	return stats, nil
}

func findShop(q *gorm.DB) (*models.Shop, error) {
	var shop models.Shop
	if err := q.First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// syncTags заменяет many2many-связь с тегами на указанный набор
func syncTags(db *gorm.DB, owner any, association string, tagIDs []string) error {
	tags := make([]models.Tag, 0, len(tagIDs))
	if len(tagIDs) > 0 {
		if err := db.Where("id IN ? AND deleted_at IS NULL", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}
	return db.Model(owner).Omit(association + ".*").Association(association).Replace(tags)
}
