package repositories

import (
	"errors"

	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAdminNotFound = errors.New("admin not found")
)

type UserRepository interface {
	Repository[models.User]

	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	// FindByLogin ищет по email или телефону
	FindByLogin(db *gorm.DB, login string) (*models.User, error)
	SyncSkills(db *gorm.DB, user *models.User, tagIDs []string) error
}

type UserRepositoryImpl struct {
	*GormRepository[models.User]
}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{GormRepository: NewRepository[models.User](UserSchema)}
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ? AND deleted_at IS NULL", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByLogin(db *gorm.DB, login string) (*models.User, error) {
	var user models.User
	err := db.Where("(email = ? OR phone = ?) AND deleted_at IS NULL", login, login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) SyncSkills(db *gorm.DB, user *models.User, tagIDs []string) error {
	return syncTags(db, user, "Skills", tagIDs)
}

// =====================================================================
// Admins
// =====================================================================

type AdminRepository interface {
	Repository[models.Admin]

	FindByUserID(db *gorm.DB, userID string) (*models.Admin, error)
	// IsAdmin - есть ли у пользователя активный профиль администратора
	IsAdmin(db *gorm.DB, userID string) (bool, error)
}

type AdminRepositoryImpl struct {
	*GormRepository[models.Admin]
}

func NewAdminRepository() AdminRepository {
	return &AdminRepositoryImpl{GormRepository: NewRepository[models.Admin](AdminSchema)}
}

func (r *AdminRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Admin, error) {
	var admin models.Admin
	err := db.Where("user_id = ? AND deleted_at IS NULL", userID).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepositoryImpl) IsAdmin(db *gorm.DB, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.Admin{}).
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Count(&count).Error
	return count > 0, err
}

// =====================================================================
// User settings
// =====================================================================

type UserSettingRepository interface {
	ForUser(db *gorm.DB, userID string) ([]models.UserSetting, error)
	Find(db *gorm.DB, userID, key string) (*models.UserSetting, error)
	Create(db *gorm.DB, setting *models.UserSetting) error
	UpdateValue(db *gorm.DB, id, value string) error
}

type UserSettingRepositoryImpl struct{}

func NewUserSettingRepository() UserSettingRepository {
	return &UserSettingRepositoryImpl{}
}

func (r *UserSettingRepositoryImpl) ForUser(db *gorm.DB, userID string) ([]models.UserSetting, error) {
	settings := make([]models.UserSetting, 0)
	err := db.Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&settings).Error
	return settings, err
}

func (r *UserSettingRepositoryImpl) Find(db *gorm.DB, userID, key string) (*models.UserSetting, error) {
	var setting models.UserSetting
	err := db.Where(&models.UserSetting{UserID: userID, Key: key}).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *UserSettingRepositoryImpl) Create(db *gorm.DB, setting *models.UserSetting) error {
	return translate(db.Create(setting).Error)
}

func (r *UserSettingRepositoryImpl) UpdateValue(db *gorm.DB, id, value string) error {
	return db.Model(&models.UserSetting{}).Where("id = ?", id).Update("value", value).Error
}
