package dto

import (
	"time"

	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
)

// ======================
// Products
// ======================

type CreateProductRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description" validate:"omitempty,max=5000"`
	Price        float64  `json:"price" validate:"min=0"`
	ComparePrice *float64 `json:"compare_price,omitempty" validate:"omitempty,min=0"`
	CategoryID   *string  `json:"category_id,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	ComparePrice *float64 `json:"compare_price,omitempty" validate:"omitempty,min=0"`
	CategoryID   *string  `json:"category_id,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// ======================
// Categories
// ======================

type CreateShopCategoryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Slug     string `json:"slug" validate:"omitempty,max=120"`
	Icon     string `json:"icon" validate:"omitempty,max=100"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type UpdateShopCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Slug     *string `json:"slug,omitempty" validate:"omitempty,max=120"`
	Icon     *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type CreateProductCategoryRequest struct {
	ShopID    string `json:"shop_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=100"`
	SortOrder int    `json:"sort_order" validate:"omitempty,min=0"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

type UpdateProductCategoryRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	SortOrder *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// ======================
// Contact book
// ======================

type ContactNumberInput struct {
	Number string            `json:"number" validate:"required,max=20"`
	Type   models.NumberType `json:"type" validate:"omitempty,is-number-type"`
}

type CreateContactRequest struct {
	Name        string               `json:"name" validate:"required,max=255"`
	Designation string               `json:"designation" validate:"omitempty,max=255"`
	Department  string               `json:"department" validate:"omitempty,max=255"`
	Email       string               `json:"email" validate:"omitempty,email"`
	Address     string               `json:"address" validate:"omitempty,max=2000"`
	Description string               `json:"description" validate:"omitempty,max=5000"`
	Type        models.ContactType   `json:"type" validate:"omitempty,is-contact-type"`
	IsActive    *bool                `json:"is_active,omitempty"`
	SortOrder   int                  `json:"sort_order" validate:"omitempty,min=0"`
	Numbers     []ContactNumberInput `json:"numbers,omitempty" validate:"omitempty,dive"`
	TagIDs      []string             `json:"tag_ids,omitempty" validate:"omitempty,dive,required"`
}

// UpdateContactRequest - Numbers и TagIDs заменяются целиком, если переданы
type UpdateContactRequest struct {
	Name        *string              `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Designation *string              `json:"designation,omitempty" validate:"omitempty,max=255"`
	Department  *string              `json:"department,omitempty" validate:"omitempty,max=255"`
	Email       *string              `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string              `json:"address,omitempty" validate:"omitempty,max=2000"`
	Description *string              `json:"description,omitempty" validate:"omitempty,max=5000"`
	Type        *models.ContactType  `json:"type,omitempty" validate:"omitempty,is-contact-type"`
	IsActive    *bool                `json:"is_active,omitempty"`
	SortOrder   *int                 `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	Numbers     []ContactNumberInput `json:"numbers,omitempty" validate:"omitempty,dive"`
	TagIDs      []string             `json:"tag_ids,omitempty" validate:"omitempty,dive,required"`
}

type BulkStatusRequest struct {
	IDs      []string `json:"ids" validate:"required,min=1,dive,required"`
	IsActive *bool    `json:"is_active" validate:"required"`
}

type BulkStatusResponse struct {
	Updated int64 `json:"updated"`
}

type ContactResponse struct {
	*models.ContactBook
	Image *media.View `json:"image,omitempty"`
}

// ======================
// Tags
// ======================

type CreateTagRequest struct {
	Name     string             `json:"name" validate:"required,max=100"`
	Slug     string             `json:"slug" validate:"omitempty,max=120"`
	Category models.TagCategory `json:"category" validate:"required,is-tag-category"`
	IsActive *bool              `json:"is_active,omitempty"`
}

type UpdateTagRequest struct {
	Name     *string             `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Slug     *string             `json:"slug,omitempty" validate:"omitempty,max=120"`
	Category *models.TagCategory `json:"category,omitempty" validate:"omitempty,is-tag-category"`
	IsActive *bool               `json:"is_active,omitempty"`
}

type TagGroup struct {
	Category models.TagCategory `json:"category"`
	Tags     []models.Tag       `json:"tags"`
}

// ======================
// Banners
// ======================

type CreateBannerRequest struct {
	Title    string `json:"title" form:"title" validate:"required,max=255"`
	Link     string `json:"link" form:"link" validate:"omitempty,url,max=500"`
	IsActive *bool  `json:"is_active,omitempty" form:"is_active"`
}

type UpdateBannerRequest struct {
	Title    *string `json:"title,omitempty" form:"title" validate:"omitempty,min=1,max=255"`
	Link     *string `json:"link,omitempty" form:"link" validate:"omitempty,url,max=500"`
	IsActive *bool   `json:"is_active,omitempty" form:"is_active"`
}

type BannerResponse struct {
	*models.Banner
	Image *media.View `json:"image,omitempty"`
}

// ======================
// Notifications
// ======================

type CreateNotificationRequest struct {
	Title       string          `json:"title" form:"title" validate:"required,max=255"`
	Message     string          `json:"message" form:"message" validate:"required"`
	Priority    models.Priority `json:"priority" form:"priority" validate:"omitempty,is-priority"`
	IsActive    *bool           `json:"is_active,omitempty" form:"is_active"`
	SortOrder   int             `json:"sort_order" form:"sort_order" validate:"omitempty,min=0"`
	IsScheduled bool            `json:"is_scheduled" form:"is_scheduled"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty" form:"scheduled_at" time_format:"2006-01-02T15:04:05Z07:00" validate:"required_if=IsScheduled true"`
}

type UpdateNotificationRequest struct {
	Title       *string          `json:"title,omitempty" form:"title" validate:"omitempty,min=1,max=255"`
	Message     *string          `json:"message,omitempty" form:"message" validate:"omitempty,min=1"`
	Priority    *models.Priority `json:"priority,omitempty" form:"priority" validate:"omitempty,is-priority"`
	IsActive    *bool            `json:"is_active,omitempty" form:"is_active"`
	SortOrder   *int             `json:"sort_order,omitempty" form:"sort_order" validate:"omitempty,min=0"`
	IsScheduled *bool            `json:"is_scheduled,omitempty" form:"is_scheduled"`
	ScheduledAt *time.Time       `json:"scheduled_at,omitempty" form:"scheduled_at" time_format:"2006-01-02T15:04:05Z07:00"`
	// DeleteImages - id медиа-файлов уведомления, которые нужно удалить
	DeleteImages []string `json:"delete_images,omitempty" form:"delete_images"`
}

// NotificationRange - публичный фильтр по дате создания (включительно)
type NotificationRange struct {
	DateFrom *time.Time
	DateTo   *time.Time
}

type NotificationResponse struct {
	*models.Notification
	Images []media.View `json:"images"`
}

// ======================
// Emergency contacts
// ======================

type CreateEmergencyContactRequest struct {
	Name          string `json:"name" form:"name" validate:"required,max=255"`
	ContactNumber string `json:"contact_number" form:"contact_number" validate:"required,max=20"`
	Icon          string `json:"icon" form:"icon" validate:"omitempty,max=100"`
	Badge         string `json:"badge" form:"badge" validate:"omitempty,max=100"`
	Color         string `json:"color" form:"color" validate:"omitempty,max=20"`
	SortOrder     int    `json:"sort_order" form:"sort_order" validate:"omitempty,min=0"`
	Description   string `json:"description" form:"description" validate:"omitempty,max=2000"`
	IsActive      *bool  `json:"is_active,omitempty" form:"is_active"`
}

type UpdateEmergencyContactRequest struct {
	Name          *string `json:"name,omitempty" form:"name" validate:"omitempty,min=1,max=255"`
	ContactNumber *string `json:"contact_number,omitempty" form:"contact_number" validate:"omitempty,min=1,max=20"`
	Icon          *string `json:"icon,omitempty" form:"icon" validate:"omitempty,max=100"`
	Badge         *string `json:"badge,omitempty" form:"badge" validate:"omitempty,max=100"`
	Color         *string `json:"color,omitempty" form:"color" validate:"omitempty,max=20"`
	SortOrder     *int    `json:"sort_order,omitempty" form:"sort_order" validate:"omitempty,min=0"`
	Description   *string `json:"description,omitempty" form:"description" validate:"omitempty,max=2000"`
	IsActive      *bool   `json:"is_active,omitempty" form:"is_active"`
}

type EmergencyContactResponse struct {
	*models.EmergencyContact
	Image *media.View `json:"image,omitempty"`
}
