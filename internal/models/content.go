package models

import "time"

type Notification struct {
	BaseModel
	SoftDelete
	Title       string     `gorm:"size:255;not null" json:"title"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Priority    Priority   `gorm:"size:10;not null;default:normal" json:"priority"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	SortOrder   int        `gorm:"default:0" json:"sort_order"`
	IsScheduled bool       `gorm:"not null" json:"is_scheduled"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

func (Notification) AuditModule() string     { return "notifications" }
func (Notification) AuditExcludes() []string { return nil }

func (Notification) MediaOwnerType() string { return "notification" }

// VisibleAt - активно, не удалено и (если запланировано) время показа наступило
func (n *Notification) VisibleAt(now time.Time) bool {
	if !n.IsActive || n.DeletedAt != nil {
		return false
	}
	return !n.IsScheduled || (n.ScheduledAt != nil && !n.ScheduledAt.After(now))
}

type Banner struct {
	BaseModel
	SoftDelete
	Title    string `gorm:"size:255;not null" json:"title"`
	Link     string `gorm:"size:500" json:"link,omitempty"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

func (Banner) TableName() string { return "banners" }

func (Banner) AuditModule() string     { return "banners" }
func (Banner) AuditExcludes() []string { return nil }

func (Banner) MediaOwnerType() string { return "banner" }

type EmergencyContact struct {
	BaseModel
	SoftDelete
	Name          string `gorm:"size:255;not null" json:"name"`
	ContactNumber string `gorm:"size:20;not null" json:"contact_number"`
	Icon          string `gorm:"size:100" json:"icon,omitempty"`
	Badge         string `gorm:"size:100" json:"badge,omitempty"`
	Color         string `gorm:"size:20" json:"color,omitempty"`
	SortOrder     int    `gorm:"default:0" json:"sort_order"`
	Description   string `gorm:"type:text" json:"description,omitempty"`
	IsActive      bool   `gorm:"not null" json:"is_active"`
}

func (EmergencyContact) TableName() string { return "emergency_contacts" }

func (EmergencyContact) AuditModule() string     { return "emergency_contacts" }
func (EmergencyContact) AuditExcludes() []string { return nil }

func (EmergencyContact) MediaOwnerType() string { return "emergency_contact" }
