package routes

import (
	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/handlers"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/middleware"
	"github.com/fahadjdy/business-point/internal/models"

	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

// Пути, доступные в режиме обслуживания
var maintenanceAllowed = []string{
	apiPrefix + "/auth/login",
	apiPrefix + "/settings/maintenance",
	apiPrefix + "/files",
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenManager,
	maintenance middleware.MaintenanceChecker,
) {
	api := ginRouter.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(tokens))
	if maintenance != nil {
		api.Use(middleware.MaintenanceMiddleware(maintenance, maintenanceAllowed...))
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokens))

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRoles(models.UserRoleAdmin))

	appHandlers.RegisterRoutes(handlers.RouteGroups{
		Public: api,
		Authed: authed,
		Admin:  admin,
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
