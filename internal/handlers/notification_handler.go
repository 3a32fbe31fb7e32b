package handlers

import (
	"net/http"
	"time"

	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(g RouteGroups) {
	notifications := g.Public.Group("/notifications")
	{
		notifications.GET("", h.ListPublic)
		notifications.GET("/:notificationId", h.GetPublic)
	}

	admin := g.Admin.Group("/notifications")
	{
		admin.GET("", h.List)
		admin.POST("", h.CreateNotification)
		admin.GET("/:notificationId", h.GetNotification)
		admin.PUT("/:notificationId", h.UpdateNotification)
		admin.DELETE("/:notificationId", h.DeleteNotification)
		admin.POST("/:notificationId/restore", h.RestoreNotification)
	}
}

// ListPublic - активные уведомления, запланированные показываются с наступлением времени.
// date_from / date_to (YYYY-MM-DD) ограничивают дату создания включительно.
func (h *NotificationHandler) ListPublic(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}
	spec, ok := h.ParseSpec(c, repositories.NotificationSchema, "date_from", "date_to")
	if !ok {
		return
	}
	page, err := h.notificationService.ListPublic(c.Request.Context(), h.GetDB(c), spec, rng)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *NotificationHandler) parseRange(c *gin.Context) (dto.NotificationRange, bool) {
	var rng dto.NotificationRange
	for key, dst := range map[string]**time.Time{"date_from": &rng.DateFrom, "date_to": &rng.DateTo} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			apperrors.HandleError(c, apperrors.FieldError(key, "expected date in format YYYY-MM-DD"))
			return rng, false
		}
		*dst = &t
	}
	return rng, true
}

// GetPublic отдает уведомление, только если оно видно в публичной ленте
func (h *NotificationHandler) GetPublic(c *gin.Context) {
	notification, err := h.notificationService.Get(c.Request.Context(), h.GetDB(c), c.Param("notificationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !notification.VisibleAt(time.Now()) {
		apperrors.HandleError(c, apperrors.New(apperrors.CodeNotFound, "notification", "Notification not found", http.StatusNotFound))
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	notification, err := h.notificationService.Get(c.Request.Context(), h.GetDB(c), c.Param("notificationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

// ============================================
// Администрирование
// ============================================

func (h *NotificationHandler) List(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.NotificationSchema)
	if !ok {
		return
	}
	page, err := h.notificationService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	notification, err := h.notificationService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req, h.FormFiles(c, "images"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) UpdateNotification(c *gin.Context) {
	var req dto.UpdateNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	notification, err := h.notificationService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("notificationId"), &req, h.FormFiles(c, "images"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	if err := h.notificationService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("notificationId"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) RestoreNotification(c *gin.Context) {
	notification, err := h.notificationService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("notificationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}
