package handlers

import (
	"net/http"

	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ============================================
// Баннеры
// ============================================

type BannerHandler struct {
	*BaseHandler
	bannerService services.BannerService
}

func NewBannerHandler(base *BaseHandler, bannerService services.BannerService) *BannerHandler {
	return &BannerHandler{
		BaseHandler:   base,
		bannerService: bannerService,
	}
}

func (h *BannerHandler) RegisterRoutes(g RouteGroups) {
	g.Public.GET("/banners", h.Active)

	admin := g.Admin.Group("/banners")
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/restore", h.Restore)
	}
}

func (h *BannerHandler) Active(c *gin.Context) {
	banners, err := h.bannerService.Active(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": banners})
}

func (h *BannerHandler) List(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.BannerSchema)
	if !ok {
		return
	}
	page, err := h.bannerService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BannerHandler) Get(c *gin.Context) {
	banner, err := h.bannerService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *BannerHandler) Create(c *gin.Context) {
	var req dto.CreateBannerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	banner, err := h.bannerService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req, h.FormFile(c, "image"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *BannerHandler) Update(c *gin.Context) {
	var req dto.UpdateBannerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	banner, err := h.bannerService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), &req, h.FormFile(c, "image"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *BannerHandler) Delete(c *gin.Context) {
	if err := h.bannerService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BannerHandler) Restore(c *gin.Context) {
	banner, err := h.bannerService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

// ============================================
// Экстренные контакты
// ============================================

type EmergencyContactHandler struct {
	*BaseHandler
	emergencyService services.EmergencyContactService
}

func NewEmergencyContactHandler(base *BaseHandler, emergencyService services.EmergencyContactService) *EmergencyContactHandler {
	return &EmergencyContactHandler{
		BaseHandler:      base,
		emergencyService: emergencyService,
	}
}

func (h *EmergencyContactHandler) RegisterRoutes(g RouteGroups) {
	g.Public.GET("/emergency-contacts", h.Active)

	admin := g.Admin.Group("/emergency-contacts")
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/restore", h.Restore)
	}
}

func (h *EmergencyContactHandler) Active(c *gin.Context) {
	contacts, err := h.emergencyService.Active(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": contacts})
}

func (h *EmergencyContactHandler) List(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.EmergencyContactSchema)
	if !ok {
		return
	}
	page, err := h.emergencyService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *EmergencyContactHandler) Get(c *gin.Context) {
	contact, err := h.emergencyService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *EmergencyContactHandler) Create(c *gin.Context) {
	var req dto.CreateEmergencyContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	contact, err := h.emergencyService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req, h.FormFile(c, "image"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *EmergencyContactHandler) Update(c *gin.Context) {
	var req dto.UpdateEmergencyContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	contact, err := h.emergencyService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), &req, h.FormFile(c, "image"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *EmergencyContactHandler) Delete(c *gin.Context) {
	if err := h.emergencyService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EmergencyContactHandler) Restore(c *gin.Context) {
	contact, err := h.emergencyService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}
