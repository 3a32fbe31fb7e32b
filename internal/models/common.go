package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - общий префикс всех таблиц.
// ID генерируется в приложении, чтобы схема не зависела от расширений конкретной СУБД.
type BaseModel struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *BaseModel) GetID() string {
	return m.ID
}

// SoftDelete - явные маркеры мягкого удаления.
// Глобального scope нет: каждый запрос сам решает, нужны ли удаленные записи.
type SoftDelete struct {
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	DeletedBy    *string    `gorm:"size:36" json:"deleted_by,omitempty"`
	DeleteReason *string    `gorm:"size:500" json:"delete_reason,omitempty"`
}

func (s *SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}

// Коллекции медиа-файлов
const (
	CollectionDefault       = "default"
	CollectionBanners       = "banners"
	CollectionNotifications = "notifications"
	CollectionVendors       = "vendors"
	CollectionProducts      = "products"
	CollectionAvatars       = "avatars"
	CollectionEmergency     = "emergency_contacts"
)
