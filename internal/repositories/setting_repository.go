package repositories

import (
	"errors"

	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingRepository interface {
	FindByKey(db *gorm.DB, key string) (*models.Setting, error)
	All(db *gorm.DB) ([]models.Setting, error)
	Create(db *gorm.DB, setting *models.Setting) error
	Update(db *gorm.DB, id string, values map[string]any) error
}

type SettingRepositoryImpl struct{}

func NewSettingRepository() SettingRepository {
	return &SettingRepositoryImpl{}
}

func (r *SettingRepositoryImpl) FindByKey(db *gorm.DB, key string) (*models.Setting, error) {
	var setting models.Setting
	err := db.Where(&models.Setting{Key: key}).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *SettingRepositoryImpl) All(db *gorm.DB) ([]models.Setting, error) {
	settings := make([]models.Setting, 0)
	err := db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error
	return settings, err
}

func (r *SettingRepositoryImpl) Create(db *gorm.DB, setting *models.Setting) error {
	return translate(db.Create(setting).Error)
}

func (r *SettingRepositoryImpl) Update(db *gorm.DB, id string, values map[string]any) error {
	res := db.Model(&models.Setting{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return nil
}
