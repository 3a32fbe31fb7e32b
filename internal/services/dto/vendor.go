package dto

import (
	"time"

	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
)

// ======================
// Request DTOs
// ======================

type OpeningTimeInput struct {
	DayOfWeek models.DayOfWeek `json:"day_of_week" validate:"required,is-day-of-week"`
	OpenTime  *string          `json:"open_time,omitempty" validate:"omitempty,is-clock-time"`
	CloseTime *string          `json:"close_time,omitempty" validate:"omitempty,is-clock-time"`
	IsClosed  bool             `json:"is_closed"`
}

// RegisterVendorRequest - регистрация бизнеса. Поля под-профиля
// используются в зависимости от VendorType.
type RegisterVendorRequest struct {
	VendorType   models.VendorType `json:"vendor_type" validate:"required,is-vendor-type"`
	BusinessName string            `json:"business_name" validate:"required,max=255"`
	Description  string            `json:"description" validate:"omitempty,max=5000"`
	Phone        string            `json:"phone" validate:"omitempty,max=20"`
	Email        string            `json:"email" validate:"omitempty,email"`
	Website      string            `json:"website" validate:"omitempty,url"`
	Address      string            `json:"address" validate:"omitempty,max=500"`
	City         string            `json:"city" validate:"omitempty,max=100"`
	State        string            `json:"state" validate:"omitempty,max=100"`
	Latitude     *float64          `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64          `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	IsPublic     *bool             `json:"is_public,omitempty"`

	// shop
	ShopCategoryID      *string `json:"shop_category_id,omitempty"`
	PriceDisplayEnabled bool    `json:"price_display_enabled"`
	// doctor
	ClinicName      string `json:"clinic_name" validate:"omitempty,max=255"`
	Specialization  string `json:"specialization" validate:"omitempty,max=255"`
	Qualification   string `json:"qualification" validate:"omitempty,max=255"`
	ExperienceYears int    `json:"experience_years" validate:"omitempty,min=0,max=80"`
	// barber
	Services string `json:"services" validate:"omitempty,max=5000"`

	OpeningTimes []OpeningTimeInput `json:"opening_times,omitempty" validate:"omitempty,max=7,dive"`
	TagIDs       []string           `json:"tag_ids,omitempty" validate:"omitempty,dive,required"`
}

// UpdateVendorRequest - nil-поля и nil-списки не меняются
type UpdateVendorRequest struct {
	BusinessName *string  `json:"business_name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Phone        *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email        *string  `json:"email,omitempty" validate:"omitempty,email"`
	Website      *string  `json:"website,omitempty" validate:"omitempty,url"`
	Address      *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	City         *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State        *string  `json:"state,omitempty" validate:"omitempty,max=100"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
	IsPublic     *bool    `json:"is_public,omitempty"`

	ShopCategoryID      *string `json:"shop_category_id,omitempty"`
	PriceDisplayEnabled *bool   `json:"price_display_enabled,omitempty"`
	ClinicName          *string `json:"clinic_name,omitempty" validate:"omitempty,max=255"`
	Specialization      *string `json:"specialization,omitempty" validate:"omitempty,max=255"`
	Qualification       *string `json:"qualification,omitempty" validate:"omitempty,max=255"`
	ExperienceYears     *int    `json:"experience_years,omitempty" validate:"omitempty,min=0,max=80"`
	Services            *string `json:"services,omitempty" validate:"omitempty,max=5000"`

	OpeningTimes []OpeningTimeInput `json:"opening_times,omitempty" validate:"omitempty,max=7,dive"`
	TagIDs       []string           `json:"tag_ids,omitempty" validate:"omitempty,dive,required"`
}

type UpdateVendorStatusRequest struct {
	Status models.VerificationStatus `json:"status" validate:"required,is-verification-status"`
	Reason string                    `json:"reason" validate:"omitempty,max=500"`
}

type DeleteRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// ======================
// Response DTOs
// ======================

type VendorResponse struct {
	*models.Vendor
	Media []media.View `json:"media"`
}

// RegistrationStatus - состояние заявки пользователя на регистрацию бизнеса
type RegistrationStatus struct {
	Status       models.VerificationStatus `json:"status"`
	IsVerified   bool                      `json:"is_verified"`
	Reason       *string                   `json:"reason"`
	BusinessName string                    `json:"business_name"`
}

// DashboardStats - сводка для главной страницы админки
type DashboardStats struct {
	TotalVendors     int64            `json:"total_vendors"`
	PendingApprovals int64            `json:"pending_approvals"`
	ActiveServices   int64            `json:"active_services"`
	RecentActivity   []RecentActivity `json:"recent_activity"`
}

type RecentActivity struct {
	ID        string    `json:"id"`
	ActorName string    `json:"actor_name"`
	Module    string    `json:"module"`
	Action    string    `json:"action"`
	Time      time.Time `json:"time"`
}
