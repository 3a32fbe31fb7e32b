package services_test

import (
	"testing"
	"time"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/cache"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/imageprocessor"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/testutil"
	"github.com/fahadjdy/business-point/internal/validator"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// env - сервисы, собранные так же, как в приложении, поверх sqlite
type env struct {
	db    *gorm.DB
	cache *cache.MemoryStore
	*services.ServiceContainer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	v := validator.New()

	userRepo := repositories.NewUserRepository()
	adminRepo := repositories.NewAdminRepository()
	vendorRepo := repositories.NewVendorRepository()
	categoryRepo := repositories.NewCategoryRepository()
	tagRepo := repositories.NewTagRepository()
	auditLogRepo := repositories.NewAuditLogRepository()

	mediaManager := media.NewManager(
		repositories.NewMediaRepository(),
		testutil.NewLocalStorage(t),
		imageprocessor.NewProcessor(85, false),
		media.Config{MaxSize: 10 << 20},
	)

	bus := events.NewBus()
	auditor := audit.NewAuditor(auditLogRepo, adminRepo)
	auditor.Register(bus)

	store := cache.NewMemoryStore()
	settingService := services.NewSettingService(repositories.NewSettingRepository(), store, mediaManager, bus, v)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return &env{
		db:    db,
		cache: store,
		ServiceContainer: &services.ServiceContainer{
			VendorService:          services.NewVendorService(vendorRepo, userRepo, categoryRepo, mediaManager, bus, v),
			ShopProductService:     services.NewShopProductService(repositories.NewRepository[models.ShopProduct](repositories.ShopProductSchema), vendorRepo, categoryRepo, bus, v),
			ShopCategoryService:    services.NewShopCategoryService(categoryRepo, bus, v),
			ProductCategoryService: services.NewShopProductCategoryService(categoryRepo, vendorRepo, bus, v),
			ContactBookService:     services.NewContactBookService(repositories.NewContactBookRepository(tagRepo), tagRepo, mediaManager, auditor, bus, v),
			TagService:             services.NewTagService(tagRepo, bus, v),
			NotificationService:    services.NewNotificationService(repositories.NewRepository[models.Notification](repositories.NotificationSchema), mediaManager, bus, v),
			SettingService:         settingService,
			AuthService:            services.NewAuthService(userRepo, adminRepo, settingService, tokens, auditor, bus, v),
			AuditLogService:        services.NewAuditLogService(auditLogRepo),
			DashboardService:       services.NewDashboardService(vendorRepo, auditLogRepo),
			AdminService:           services.NewAdminService(adminRepo, userRepo, mediaManager, bus, v),
			UserService:            services.NewUserService(userRepo, mediaManager, bus, v),

			Media:     mediaManager,
			Auditor:   auditor,
			Bus:       bus,
			Cache:     store,
			Validator: v,
		},
	}
}

// adminContext - запрос от имени нового администратора
func (e *env) adminContext(t *testing.T) audit.RequestContext {
	t.Helper()
	user, _ := testutil.CreateAdmin(t, e.db, "admin@test.com")
	return audit.RequestContext{
		RequestID: "req-1",
		ActorID:   user.ID,
		IP:        "127.0.0.1",
		UserAgent: "go-test",
		URL:       "/api/v1/admin",
		Method:    "PUT",
	}
}

// logs - записи журнала по сущности и действию
func (e *env) logs(t *testing.T, entityID string, action models.AuditAction) []models.AuditLog {
	t.Helper()
	var out []models.AuditLog
	require.NoError(t, e.db.Where("entity_id = ? AND action = ?", entityID, action).Find(&out).Error)
	return out
}

func ptr[T any](v T) *T {
	return &v
}
