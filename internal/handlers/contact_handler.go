package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ContactHandler - справочник контактов: публичный поиск и администрирование
type ContactHandler struct {
	*BaseHandler
	contactService services.ContactBookService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactBookService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

func (h *ContactHandler) RegisterRoutes(g RouteGroups) {
	contacts := g.Public.Group("/contacts")
	{
		contacts.GET("", h.List)
		contacts.GET("/search", h.Search)
		contacts.GET("/tag/:slug", h.ByTagSlug)
		contacts.GET("/:id", h.Get)
	}

	admin := g.Admin.Group("/contacts")
	{
		admin.GET("", h.AdminList)
		admin.GET("/stats", h.Stats)
		admin.GET("/export", h.Export)
		admin.POST("", h.Create)
		admin.POST("/bulk-status", h.BulkStatus)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/restore", h.Restore)
	}
}

func (h *ContactHandler) List(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.ContactBookSchema)
	if !ok {
		return
	}
	page, err := h.contactService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search - ?q= обязателен, остальные параметры работают как в List
func (h *ContactHandler) Search(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.ContactBookSchema, "q")
	if !ok {
		return
	}
	page, err := h.contactService.Search(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Query("q"), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ContactHandler) ByTagSlug(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.ContactBookSchema)
	if !ok {
		return
	}
	page, err := h.contactService.ByTagSlug(c.Request.Context(), h.GetDB(c), c.Param("slug"), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.contactService.Get(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// ============================================
// Администрирование
// ============================================

func (h *ContactHandler) AdminList(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.ContactBookSchema)
	if !ok {
		return
	}
	page, err := h.contactService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.CreateContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	contact, err := h.contactService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req, h.FormFile(c, "image"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var req dto.UpdateContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	contact, err := h.contactService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), &req, h.FormFile(c, "image"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) BulkStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	result, err := h.contactService.BulkUpdateStatus(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ContactHandler) Stats(c *gin.Context) {
	stats, err := h.contactService.Stats(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export - все подходящие контакты без пагинации. ?format=csv отдает файл.
func (h *ContactHandler) Export(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.ContactBookSchema, "format")
	if !ok {
		return
	}
	contacts, err := h.contactService.Export(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if c.Query("format") != "csv" {
		c.JSON(http.StatusOK, gin.H{"items": contacts, "total": len(contacts)})
		return
	}

	filename := "contacts-" + time.Now().Format("20060102-150405") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(contactCSVHeader)
	for i := range contacts {
		_ = w.Write(contactCSVRow(&contacts[i]))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.CtxWarn(c.Request.Context(), "csv export interrupted", "error", err)
	}
}

var contactCSVHeader = []string{
	"id", "name", "designation", "department", "phone", "numbers", "email",
	"address", "type", "tags", "is_active", "sort_order", "created_at",
}

func contactCSVRow(cb *models.ContactBook) []string {
	numbers := make([]string, 0, len(cb.ContactNumbers))
	for _, n := range cb.ContactNumbers {
		numbers = append(numbers, n.Number)
	}
	tags := make([]string, 0, len(cb.Tags))
	for _, t := range cb.Tags {
		tags = append(tags, t.Name)
	}
	return []string{
		cb.ID,
		cb.Name,
		cb.Designation,
		cb.Department,
		cb.Phone,
		strings.Join(numbers, "; "),
		cb.Email,
		cb.Address,
		string(cb.Type),
		strings.Join(tags, "; "),
		strconv.FormatBool(cb.IsActive),
		strconv.Itoa(cb.SortOrder),
		cb.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contactService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContactHandler) Restore(c *gin.Context) {
	contact, err := h.contactService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}
