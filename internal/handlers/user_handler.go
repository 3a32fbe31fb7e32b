package handlers

import (
	"net/http"

	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler - профиль текущего пользователя, его настройки и
// управление учетными записями для администраторов
type UserHandler struct {
	*BaseHandler
	userService        services.UserService
	userSettingService services.UserSettingService
	adminService       services.AdminService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, userSettingService services.UserSettingService, adminService services.AdminService) *UserHandler {
	return &UserHandler{
		BaseHandler:        base,
		userService:        userService,
		userSettingService: userSettingService,
		adminService:       adminService,
	}
}

func (h *UserHandler) RegisterRoutes(g RouteGroups) {
	me := g.Authed.Group("/me")
	{
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe)
		me.PUT("/password", h.ChangePassword)
		me.GET("/settings", h.GetSettings)
		me.PUT("/settings", h.UpdateSettings)
	}

	users := g.Admin.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.POST("/:id/activate", h.setActive(true))
		users.POST("/:id/deactivate", h.setActive(false))
	}

	admins := g.Admin.Group("/admins")
	{
		admins.GET("", h.ListAdmins)
		admins.POST("", h.CreateAdmin)
		admins.GET("/me", h.GetAdminProfile)
		admins.PUT("/me", h.UpdateAdminProfile)
		admins.GET("/:id", h.GetAdmin)
		admins.DELETE("/:id", h.DeleteAdmin)
	}
}

// ============================================
// Текущий пользователь
// ============================================

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	profile, err := h.userService.GetProfile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), h.GetDB(c), h.RequestContext(c), userID, &req, h.FormFile(c, "photo"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), h.GetDB(c), h.RequestContext(c), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

func (h *UserHandler) GetSettings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	settings, err := h.userSettingService.GetSettings(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateUserSettingsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	settings, err := h.userSettingService.UpdateSettings(c.Request.Context(), h.GetDB(c), h.RequestContext(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ============================================
// Пользователи (admin)
// ============================================

func (h *UserHandler) ListUsers(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.UserSchema)
	if !ok {
		return
	}
	page, err := h.userService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.userService.SetActive(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), active)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ============================================
// Администраторы
// ============================================

func (h *UserHandler) ListAdmins(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.AdminSchema)
	if !ok {
		return
	}
	page, err := h.adminService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	admin, err := h.adminService.CreateAdmin(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (h *UserHandler) GetAdmin(c *gin.Context) {
	admin, err := h.adminService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *UserHandler) GetAdminProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	admin, err := h.adminService.GetByUser(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *UserHandler) UpdateAdminProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateAdminProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	ctx, db := c.Request.Context(), h.GetDB(c)
	current, err := h.adminService.GetByUser(ctx, db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	admin, err := h.adminService.UpdateProfile(ctx, db, h.RequestContext(c), current.ID, &req, h.FormFile(c, "photo"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *UserHandler) DeleteAdmin(c *gin.Context) {
	if err := h.adminService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
