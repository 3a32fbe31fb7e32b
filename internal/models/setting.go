package models

// Setting - глобальная настройка сайта. Value хранится строкой,
// смысл задает Type.
type Setting struct {
	BaseModel
	Key         string      `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value       string      `gorm:"type:text" json:"value"`
	Type        SettingType `gorm:"size:20;not null;default:string" json:"type"`
	Description string      `gorm:"size:500" json:"description,omitempty"`
}

func (Setting) TableName() string { return "settings" }

// Ключи настроек, которые читает код
const (
	SettingSiteLogo          = "site_logo"
	SettingSiteFavicon       = "site_favicon"
	SettingMaintenanceMode   = "maintenance_mode"
	SettingMaintenanceNote   = "maintenance_note"
	SettingAllowRegistration = "allow_self_registration"
	DefaultMaintenanceNote   = "We are currently performing scheduled maintenance. Please check back later."
)
