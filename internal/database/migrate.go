package database

import (
	"fmt"

	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"

	"gorm.io/gorm"
)

// Models - все таблицы приложения в порядке зависимостей
func Models() []any {
	return []any{
		&models.Tag{},
		&models.User{},
		&models.Admin{},
		&models.UserSetting{},
		&models.Vendor{},
		&models.ShopCategory{},
		&models.Shop{},
		&models.Doctor{},
		&models.Barber{},
		&models.VendorOpeningTime{},
		&models.ShopProductCategory{},
		&models.ShopProduct{},
		&models.ContactBook{},
		&models.ContactNumber{},
		&models.Notification{},
		&models.Banner{},
		&models.EmergencyContact{},
		&models.Setting{},
		&models.Media{},
		&models.AuditLog{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("AutoMigrate completed")
	return nil
}
