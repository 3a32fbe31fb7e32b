package handlers

import (
	"net/http"

	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CategoryHandler - виды магазинов и разделы витрин.
// Владелец магазина ведет свои разделы сам, администратор - любые.
type CategoryHandler struct {
	*BaseHandler
	shopCategoryService    services.ShopCategoryService
	productCategoryService services.ShopProductCategoryService
	vendorService          services.VendorService
	productService         services.ShopProductService
}

func NewCategoryHandler(
	base *BaseHandler,
	shopCategoryService services.ShopCategoryService,
	productCategoryService services.ShopProductCategoryService,
	vendorService services.VendorService,
	productService services.ShopProductService,
) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler:            base,
		shopCategoryService:    shopCategoryService,
		productCategoryService: productCategoryService,
		vendorService:          vendorService,
		productService:         productService,
	}
}

func (h *CategoryHandler) RegisterRoutes(g RouteGroups) {
	g.Public.GET("/shop-categories", h.ActiveShopCategories)
	g.Public.GET("/shop-product-categories", h.ListProductCategories)

	mine := g.Authed.Group("/shop-product-categories")
	{
		mine.POST("", h.CreateMyProductCategory)
		mine.PUT("/:id", h.UpdateMyProductCategory)
		mine.DELETE("/:id", h.DeleteMyProductCategory)
	}

	shopCategories := g.Admin.Group("/shop-categories")
	{
		shopCategories.GET("", h.ListShopCategories)
		shopCategories.POST("", h.CreateShopCategory)
		shopCategories.GET("/:id", h.GetShopCategory)
		shopCategories.PUT("/:id", h.UpdateShopCategory)
		shopCategories.DELETE("/:id", h.DeleteShopCategory)
		shopCategories.POST("/:id/restore", h.RestoreShopCategory)
	}

	productCategories := g.Admin.Group("/shop-product-categories")
	{
		productCategories.GET("", h.AdminListProductCategories)
		productCategories.POST("", h.CreateProductCategory)
		productCategories.PUT("/:id", h.UpdateProductCategory)
		productCategories.DELETE("/:id", h.DeleteProductCategory)
		productCategories.POST("/:id/restore", h.RestoreProductCategory)
	}
}

// ============================================
// Виды магазинов
// ============================================

func (h *CategoryHandler) ActiveShopCategories(c *gin.Context) {
	items, err := h.shopCategoryService.Active(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{"id": item.ID, "name": item.Name, "slug": item.Slug})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *CategoryHandler) ListShopCategories(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.ShopCategorySchema)
	if !ok {
		return
	}
	page, err := h.shopCategoryService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CategoryHandler) CreateShopCategory(c *gin.Context) {
	var req dto.CreateShopCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	category, err := h.shopCategoryService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) GetShopCategory(c *gin.Context) {
	category, err := h.shopCategoryService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) UpdateShopCategory(c *gin.Context) {
	var req dto.UpdateShopCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	category, err := h.shopCategoryService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteShopCategory(c *gin.Context) {
	if err := h.shopCategoryService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) RestoreShopCategory(c *gin.Context) {
	category, err := h.shopCategoryService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// ============================================
// Разделы витрины
// ============================================

// ListProductCategories - ?shop_id= обязателен; выключенные разделы скрыты
func (h *CategoryHandler) ListProductCategories(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.ShopProductCategorySchema, "shop_id")
	if !ok {
		return
	}
	if !spec.Has("is_active") {
		spec = spec.Where("is_active", query.OpEq, true)
	}
	page, err := h.productCategoryService.ListForShop(c.Request.Context(), h.GetDB(c), c.Query("shop_id"), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CategoryHandler) AdminListProductCategories(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.ShopProductCategorySchema, "shop_id")
	if !ok {
		return
	}
	page, err := h.productCategoryService.ListForShop(c.Request.Context(), h.GetDB(c), c.Query("shop_id"), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// myShopID - магазин вендора текущего пользователя
func (h *CategoryHandler) myShopID(c *gin.Context) (string, bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return "", false
	}
	vendor, err := h.vendorService.GetByUser(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return "", false
	}
	shop, err := h.productService.ShopForVendor(c.Request.Context(), h.GetDB(c), vendor.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return "", false
	}
	return shop.ID, true
}

// ownProductCategory проверяет, что раздел принадлежит магазину текущего вендора
func (h *CategoryHandler) ownProductCategory(c *gin.Context) (string, bool) {
	shopID, ok := h.myShopID(c)
	if !ok {
		return "", false
	}
	category, err := h.productCategoryService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return "", false
	}
	if category.ShopID != shopID {
		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
		return "", false
	}
	return category.ID, true
}

func (h *CategoryHandler) CreateMyProductCategory(c *gin.Context) {
	var req dto.CreateProductCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	shopID, ok := h.myShopID(c)
	if !ok {
		return
	}
	if req.ShopID != shopID {
		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
		return
	}
	h.createProductCategory(c, &req)
}

func (h *CategoryHandler) UpdateMyProductCategory(c *gin.Context) {
	categoryID, ok := h.ownProductCategory(c)
	if !ok {
		return
	}
	h.updateProductCategory(c, categoryID)
}

func (h *CategoryHandler) DeleteMyProductCategory(c *gin.Context) {
	categoryID, ok := h.ownProductCategory(c)
	if !ok {
		return
	}
	h.deleteProductCategory(c, categoryID)
}

func (h *CategoryHandler) CreateProductCategory(c *gin.Context) {
	var req dto.CreateProductCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	h.createProductCategory(c, &req)
}

func (h *CategoryHandler) createProductCategory(c *gin.Context, req *dto.CreateProductCategoryRequest) {
	category, err := h.productCategoryService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateProductCategory(c *gin.Context) {
	h.updateProductCategory(c, c.Param("id"))
}

func (h *CategoryHandler) updateProductCategory(c *gin.Context, categoryID string) {
	var req dto.UpdateProductCategoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	category, err := h.productCategoryService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), categoryID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteProductCategory(c *gin.Context) {
	h.deleteProductCategory(c, c.Param("id"))
}

func (h *CategoryHandler) deleteProductCategory(c *gin.Context, categoryID string) {
	if err := h.productCategoryService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), categoryID, h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) RestoreProductCategory(c *gin.Context) {
	category, err := h.productCategoryService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}
