package services

import (
	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/cache"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/validator"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	VendorService           VendorService
	ShopProductService      ShopProductService
	ShopCategoryService     ShopCategoryService
	ProductCategoryService  ShopProductCategoryService
	ContactBookService      ContactBookService
	TagService              TagService
	BannerService           BannerService
	NotificationService     NotificationService
	EmergencyContactService EmergencyContactService
	SettingService          SettingService
	UserSettingService      UserSettingService
	AdminService            AdminService
	UserService             UserService
	AuthService             AuthService
	AuditLogService         AuditLogService
	DashboardService        DashboardService

	Media     *media.Manager
	Auditor   *audit.Auditor
	Bus       events.Bus
	Cache     cache.Store
	Validator *validator.Validator
}
