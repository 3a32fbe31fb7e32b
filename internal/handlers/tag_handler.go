package handlers

import (
	"net/http"

	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"

	"github.com/gin-gonic/gin"
)

const defaultPopularTags = 10

type TagHandler struct {
	*BaseHandler
	tagService services.TagService
}

func NewTagHandler(base *BaseHandler, tagService services.TagService) *TagHandler {
	return &TagHandler{
		BaseHandler: base,
		tagService:  tagService,
	}
}

func (h *TagHandler) RegisterRoutes(g RouteGroups) {
	tags := g.Public.Group("/tags")
	{
		tags.GET("", h.List)
		tags.GET("/all", h.All)
		tags.GET("/grouped", h.Grouped)
		tags.GET("/search", h.Search)
		tags.GET("/popular", h.Popular)
		tags.GET("/slug/:slug", h.GetBySlug)
	}

	admin := g.Admin.Group("/tags")
	{
		admin.GET("", h.AdminList)
		admin.GET("/stats", h.Stats)
		admin.POST("", h.Create)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/restore", h.Restore)
	}
}

func (h *TagHandler) List(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.TagSchema)
	if !ok {
		return
	}
	page, err := h.tagService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *TagHandler) All(c *gin.Context) {
	tags, err := h.tagService.All(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tags})
}

func (h *TagHandler) Grouped(c *gin.Context) {
	groups, err := h.tagService.GroupedByCategory(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *TagHandler) Search(c *gin.Context) {
	tags, err := h.tagService.Search(c.Request.Context(), h.GetDB(c), c.Query("q"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tags})
}

func (h *TagHandler) Popular(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", defaultPopularTags)
	tags, err := h.tagService.Popular(c.Request.Context(), h.GetDB(c), limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": tags})
}

func (h *TagHandler) GetBySlug(c *gin.Context) {
	tag, err := h.tagService.GetBySlug(c.Request.Context(), h.GetDB(c), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// ============================================
// Администрирование
// ============================================

func (h *TagHandler) AdminList(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.TagSchema)
	if !ok {
		return
	}
	page, err := h.tagService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *TagHandler) Stats(c *gin.Context) {
	stats, err := h.tagService.Stats(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *TagHandler) Get(c *gin.Context) {
	tag, err := h.tagService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Create(c *gin.Context) {
	var req dto.CreateTagRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	tag, err := h.tagService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) Update(c *gin.Context) {
	var req dto.UpdateTagRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	tag, err := h.tagService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.tagService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TagHandler) Restore(c *gin.Context) {
	tag, err := h.tagService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
