package handlers

import (
	"net/http"

	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/middleware"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует все маршруты для аутентификации
func (h *AuthHandler) RegisterRoutes(g RouteGroups) {
	auth := g.Public.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
	g.Authed.POST("/auth/logout", h.Logout)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Register(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.rememberToken(c, response.AccessToken)

	c.JSON(http.StatusCreated, response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Login(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.rememberToken(c, response.AccessToken)

	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), h.GetDB(c), h.RequestContext(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if err := middleware.ClearSession(c); err != nil {
		logger.CtxWarn(c.Request.Context(), "failed to clear session", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// rememberToken - токен дублируется в cookie-сессию для веб-клиента
func (h *AuthHandler) rememberToken(c *gin.Context, token string) {
	if err := middleware.SaveSessionToken(c, token); err != nil {
		logger.CtxWarn(c.Request.Context(), "failed to save session", "error", err)
	}
}
