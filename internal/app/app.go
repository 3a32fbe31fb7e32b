package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/cache"
	"github.com/fahadjdy/business-point/internal/config"
	"github.com/fahadjdy/business-point/internal/database"
	"github.com/fahadjdy/business-point/internal/events"
	"github.com/fahadjdy/business-point/internal/handlers"
	"github.com/fahadjdy/business-point/internal/imageprocessor"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/middleware"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/routes"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/storage"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/internal/workers"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	if err := config.LoadConfig(); err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDebug())

	gormDB, err := database.Open(cfg.Database, cfg.IsDebug())
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	seed, err := database.LoadSeed(cfg.Seed.Path)
	if err != nil {
		logger.Fatal("Failed to load seed data", "error", err)
	}
	if err := database.Seed(gormDB, seed); err != nil {
		logger.Fatal("Failed to seed database", "error", err)
	}

	if err := database.SeedFirstAdmin(gormDB, cfg.FirstAdmin); err != nil {
		// без администратора сервер не запускаем
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, err := SetupRouter(cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workers.NewAuditRetentionWorker(gormDB, repositories.NewAuditLogRepository(), cfg.Audit.RetentionDays).Start(ctx)

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// SetupRouter собирает зависимости и возвращает готовый *gin.Engine
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, error) {
	if !cfg.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL())

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, storageInstance, tokens)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Делегируем регистрацию маршрутов пакету routes
	routes.RegisterRoutes(ginRouter, appHandlers, tokens, serviceContainer.SettingService)

	return ginRouter, nil
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, tokens *auth.TokenManager) *services.ServiceContainer {
	customValidator := validator.New()

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	adminRepo := repositories.NewAdminRepository()
	userSettingRepo := repositories.NewUserSettingRepository()
	vendorRepo := repositories.NewVendorRepository()
	categoryRepo := repositories.NewCategoryRepository()
	tagRepo := repositories.NewTagRepository()
	contactRepo := repositories.NewContactBookRepository(tagRepo)
	settingRepo := repositories.NewSettingRepository()
	mediaRepo := repositories.NewMediaRepository()
	auditLogRepo := repositories.NewAuditLogRepository()
	productRepo := repositories.NewRepository[models.ShopProduct](repositories.ShopProductSchema)
	bannerRepo := repositories.NewRepository[models.Banner](repositories.BannerSchema)
	notificationRepo := repositories.NewRepository[models.Notification](repositories.NotificationSchema)
	emergencyRepo := repositories.NewRepository[models.EmergencyContact](repositories.EmergencyContactSchema)

	// --- Инфраструктура ---
	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.ResizeEnabled)
	mediaManager := media.NewManager(mediaRepo, storageInstance, processor, media.Config{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})

	bus := events.NewBus()
	auditor := audit.NewAuditor(auditLogRepo, adminRepo)
	auditor.Register(bus)

	settingsCache := cache.NewMemoryStore()

	// --- Сервисы ---
	settingService := services.NewSettingService(settingRepo, settingsCache, mediaManager, bus, customValidator)

	return &services.ServiceContainer{
		VendorService:           services.NewVendorService(vendorRepo, userRepo, categoryRepo, mediaManager, bus, customValidator),
		ShopProductService:      services.NewShopProductService(productRepo, vendorRepo, categoryRepo, bus, customValidator),
		ShopCategoryService:     services.NewShopCategoryService(categoryRepo, bus, customValidator),
		ProductCategoryService:  services.NewShopProductCategoryService(categoryRepo, vendorRepo, bus, customValidator),
		ContactBookService:      services.NewContactBookService(contactRepo, tagRepo, mediaManager, auditor, bus, customValidator),
		TagService:              services.NewTagService(tagRepo, bus, customValidator),
		BannerService:           services.NewBannerService(bannerRepo, mediaManager, bus, customValidator),
		NotificationService:     services.NewNotificationService(notificationRepo, mediaManager, bus, customValidator),
		EmergencyContactService: services.NewEmergencyContactService(emergencyRepo, mediaManager, bus, customValidator),
		SettingService:          settingService,
		UserSettingService:      services.NewUserSettingService(userSettingRepo, bus, customValidator),
		AdminService:            services.NewAdminService(adminRepo, userRepo, mediaManager, bus, customValidator),
		UserService:             services.NewUserService(userRepo, mediaManager, bus, customValidator),
		AuthService:             services.NewAuthService(userRepo, adminRepo, settingService, tokens, auditor, bus, customValidator),
		AuditLogService:         services.NewAuditLogService(auditLogRepo),
		DashboardService:        services.NewDashboardService(vendorRepo, auditLogRepo),

		Media:     mediaManager,
		Auditor:   auditor,
		Bus:       bus,
		Cache:     settingsCache,
		Validator: customValidator,
	}
}

func initializeHandlers(s *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(s.Validator)

	return &handlers.AppHandlers{
		AuthHandler:             handlers.NewAuthHandler(baseHandler, s.AuthService),
		UserHandler:             handlers.NewUserHandler(baseHandler, s.UserService, s.UserSettingService, s.AdminService),
		VendorHandler:           handlers.NewVendorHandler(baseHandler, s.VendorService, s.ShopProductService),
		CategoryHandler:         handlers.NewCategoryHandler(baseHandler, s.ShopCategoryService, s.ProductCategoryService, s.VendorService, s.ShopProductService),
		ContactHandler:          handlers.NewContactHandler(baseHandler, s.ContactBookService),
		TagHandler:              handlers.NewTagHandler(baseHandler, s.TagService),
		BannerHandler:           handlers.NewBannerHandler(baseHandler, s.BannerService),
		NotificationHandler:     handlers.NewNotificationHandler(baseHandler, s.NotificationService),
		EmergencyContactHandler: handlers.NewEmergencyContactHandler(baseHandler, s.EmergencyContactService),
		SettingHandler:          handlers.NewSettingHandler(baseHandler, s.SettingService, s.AuditLogService, s.DashboardService),
		FileHandler:             handlers.NewFileHandler(baseHandler, s.Media),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS))
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.SessionMiddleware(cfg.Session, !cfg.IsDebug()))
	router.MaxMultipartMemory = cfg.Upload.MaxSize
	return router
}
