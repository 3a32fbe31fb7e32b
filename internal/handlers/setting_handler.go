package handlers

import (
	"net/http"

	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// SettingHandler - настройки сайта, журнал аудита и сводка для администраторов
type SettingHandler struct {
	*BaseHandler
	settingService   services.SettingService
	auditLogService  services.AuditLogService
	dashboardService services.DashboardService
}

func NewSettingHandler(
	base *BaseHandler,
	settingService services.SettingService,
	auditLogService services.AuditLogService,
	dashboardService services.DashboardService,
) *SettingHandler {
	return &SettingHandler{
		BaseHandler:      base,
		settingService:   settingService,
		auditLogService:  auditLogService,
		dashboardService: dashboardService,
	}
}

func (h *SettingHandler) RegisterRoutes(g RouteGroups) {
	settings := g.Public.Group("/settings")
	{
		settings.GET("", h.All)
		settings.GET("/maintenance", h.Maintenance)
	}

	admin := g.Admin.Group("/settings")
	{
		admin.GET("", h.List)
		admin.PUT("", h.UpdateMany)
		admin.POST("/key", h.Set)
		admin.POST("/assets/:key", h.UploadAsset)
	}

	g.Admin.GET("/dashboard", h.Dashboard)

	logs := g.Admin.Group("/audit-logs")
	{
		logs.GET("", h.AuditLogs)
		logs.GET("/module/:module", h.AuditLogsByModule)
		logs.GET("/entity/:type/:id", h.AuditLogsForEntity)
	}
}

// All - публичные настройки сайта (логотип и иконка абсолютными URL)
func (h *SettingHandler) All(c *gin.Context) {
	settings, err := h.settingService.All(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *SettingHandler) Maintenance(c *gin.Context) {
	status, err := h.settingService.MaintenanceStatus(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ============================================
// Администрирование
// ============================================

func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingService.List(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": settings})
}

func (h *SettingHandler) UpdateMany(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	settings, err := h.settingService.UpdateMany(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *SettingHandler) Set(c *gin.Context) {
	var req dto.SetSettingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	setting, err := h.settingService.Set(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// UploadAsset - логотип или иконка сайта (multipart, поле file)
func (h *SettingHandler) UploadAsset(c *gin.Context) {
	file := h.FormFile(c, "file")
	if file == nil {
		apperrors.HandleError(c, apperrors.FieldError("file", "file is required"))
		return
	}
	settings, err := h.settingService.UploadAsset(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("key"), *file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *SettingHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ============================================
// Журнал аудита
// ============================================

func (h *SettingHandler) AuditLogs(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.AuditLogSchema)
	if !ok {
		return
	}
	page, err := h.auditLogService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *SettingHandler) AuditLogsByModule(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.AuditLogSchema)
	if !ok {
		return
	}
	page, err := h.auditLogService.ByModule(c.Request.Context(), h.GetDB(c), c.Param("module"), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *SettingHandler) AuditLogsForEntity(c *gin.Context) {
	logs, err := h.auditLogService.ForEntity(c.Request.Context(), h.GetDB(c), c.Param("type"), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
