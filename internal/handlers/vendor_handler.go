package handlers

import (
	"net/http"
	"strconv"

	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/services"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// VendorHandler - каталог бизнесов, личный кабинет вендора (профиль, товары)
// и модерация
type VendorHandler struct {
	*BaseHandler
	vendorService  services.VendorService
	productService services.ShopProductService
}

func NewVendorHandler(base *BaseHandler, vendorService services.VendorService, productService services.ShopProductService) *VendorHandler {
	return &VendorHandler{
		BaseHandler:    base,
		vendorService:  vendorService,
		productService: productService,
	}
}

func (h *VendorHandler) RegisterRoutes(g RouteGroups) {
	vendors := g.Public.Group("/vendors")
	{
		vendors.GET("", h.ListPublic)
		vendors.GET("/:id", h.GetPublic)
	}
	shops := g.Public.Group("/shops")
	{
		shops.GET("/:shopId/products", h.ListShopProducts)
	}
	g.Public.GET("/products/:id", h.GetProduct)

	g.Authed.POST("/vendors/register", h.Register)
	g.Authed.GET("/register-business/status", h.RegistrationStatus)
	mine := g.Authed.Group("/vendor")
	{
		mine.GET("", h.GetMine)
		mine.PUT("", h.UpdateMine)
		mine.POST("/media", h.UploadMine)
		mine.GET("/products", h.ListMyProducts)
		mine.POST("/products", h.CreateMyProduct)
		mine.PUT("/products/:id", h.UpdateMyProduct)
		mine.DELETE("/products/:id", h.DeleteMyProduct)
	}

	admin := g.Admin.Group("/vendors")
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.PUT("/:id", h.Update)
		admin.PUT("/:id/status", h.UpdateStatus)
		admin.POST("/:id/media", h.UploadMedia)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/restore", h.Restore)
	}
	products := g.Admin.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
		products.POST("/:id/restore", h.RestoreProduct)
	}
	g.Admin.POST("/shops/:shopId/products", h.CreateProduct)
}

// ============================================
// Публичный каталог
// ============================================

func (h *VendorHandler) ListPublic(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.VendorSchema)
	if !ok {
		return
	}
	page, err := h.vendorService.ListPublic(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPublic отдает только видимый в каталоге профиль
func (h *VendorHandler) GetPublic(c *gin.Context) {
	vendor, err := h.vendorService.GetProfile(c.Request.Context(), h.GetDB(c), c.Param("id"), false)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !vendor.IsListed() {
		h.HandleServiceError(c, apperrors.New(apperrors.CodeNotFound, "vendor", "Vendor not found", http.StatusNotFound))
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) ListShopProducts(c *gin.Context) {
	spec, ok := h.ParseSpec(c, repositories.ShopProductSchema)
	if !ok {
		return
	}
	if !spec.Has("is_active") {
		spec = spec.Where("is_active", query.OpEq, true)
	}
	page, err := h.productService.ListForShop(c.Request.Context(), h.GetDB(c), c.Param("shopId"), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VendorHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ============================================
// Кабинет вендора
// ============================================

func (h *VendorHandler) Register(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	var req dto.RegisterVendorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Register(c.Request.Context(), h.GetDB(c), h.RequestContext(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

// RegistrationStatus - {"data": null}, если пользователь еще не подавал заявку
func (h *VendorHandler) RegistrationStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	status, err := h.vendorService.RegistrationStatus(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": status})
}

// myVendor - профиль вендора текущего пользователя
func (h *VendorHandler) myVendor(c *gin.Context) (*dto.VendorResponse, bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return nil, false
	}
	vendor, err := h.vendorService.GetByUser(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	return vendor, true
}

func (h *VendorHandler) GetMine(c *gin.Context) {
	vendor, ok := h.myVendor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) UpdateMine(c *gin.Context) {
	vendor, ok := h.myVendor(c)
	if !ok {
		return
	}
	h.update(c, vendor.ID)
}

func (h *VendorHandler) UploadMine(c *gin.Context) {
	vendor, ok := h.myVendor(c)
	if !ok {
		return
	}
	h.upload(c, vendor.ID)
}

func (h *VendorHandler) myShopID(c *gin.Context) (string, bool) {
	vendor, ok := h.myVendor(c)
	if !ok {
		return "", false
	}
	shop, err := h.productService.ShopForVendor(c.Request.Context(), h.GetDB(c), vendor.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return "", false
	}
	return shop.ID, true
}

// ownProduct проверяет, что товар принадлежит магазину текущего вендора
func (h *VendorHandler) ownProduct(c *gin.Context) (string, bool) {
	shopID, ok := h.myShopID(c)
	if !ok {
		return "", false
	}
	product, err := h.productService.Get(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return "", false
	}
	if product.ShopID != shopID {
		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
		return "", false
	}
	return product.ID, true
}

func (h *VendorHandler) ListMyProducts(c *gin.Context) {
	shopID, ok := h.myShopID(c)
	if !ok {
		return
	}
	spec, ok := h.ParseSpec(c, repositories.ShopProductSchema)
	if !ok {
		return
	}
	page, err := h.productService.ListForShop(c.Request.Context(), h.GetDB(c), shopID, spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VendorHandler) CreateMyProduct(c *gin.Context) {
	shopID, ok := h.myShopID(c)
	if !ok {
		return
	}
	h.createProduct(c, shopID)
}

func (h *VendorHandler) UpdateMyProduct(c *gin.Context) {
	productID, ok := h.ownProduct(c)
	if !ok {
		return
	}
	h.updateProduct(c, productID)
}

func (h *VendorHandler) DeleteMyProduct(c *gin.Context) {
	productID, ok := h.ownProduct(c)
	if !ok {
		return
	}
	h.deleteProduct(c, productID)
}

// ============================================
// Модерация (admin)
// ============================================

func (h *VendorHandler) List(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.VendorSchema)
	if !ok {
		return
	}
	page, err := h.vendorService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VendorHandler) Get(c *gin.Context) {
	vendor, err := h.vendorService.GetProfile(c.Request.Context(), h.GetDB(c), c.Param("id"), ParseQueryBool(c, paramWithTrashed))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) Update(c *gin.Context) {
	h.update(c, c.Param("id"))
}

func (h *VendorHandler) update(c *gin.Context, vendorID string) {
	var req dto.UpdateVendorRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	vendor, err := h.vendorService.UpdateProfile(c.Request.Context(), h.GetDB(c), h.RequestContext(c), vendorID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateVendorStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	vendor, err := h.vendorService.UpdateStatus(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func (h *VendorHandler) UploadMedia(c *gin.Context) {
	h.upload(c, c.Param("id"))
}

func (h *VendorHandler) upload(c *gin.Context, vendorID string) {
	file := h.FormFile(c, "file")
	if file == nil {
		apperrors.HandleError(c, apperrors.FieldError("file", "file is required"))
		return
	}
	isPrimary, _ := strconv.ParseBool(c.PostForm("is_primary"))

	view, err := h.vendorService.UploadMedia(c.Request.Context(), h.GetDB(c), h.RequestContext(c), vendorID, *file, isPrimary)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *VendorHandler) Delete(c *gin.Context) {
	if err := h.vendorService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"), h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VendorHandler) Restore(c *gin.Context) {
	vendor, err := h.vendorService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// ============================================
// Товары (admin)
// ============================================

func (h *VendorHandler) ListProducts(c *gin.Context) {
	spec, ok := h.ParseAdminSpec(c, repositories.ShopProductSchema)
	if !ok {
		return
	}
	page, err := h.productService.List(c.Request.Context(), h.GetDB(c), spec)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VendorHandler) CreateProduct(c *gin.Context) {
	h.createProduct(c, c.Param("shopId"))
}

func (h *VendorHandler) createProduct(c *gin.Context, shopID string) {
	var req dto.CreateProductRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), h.GetDB(c), h.RequestContext(c), shopID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *VendorHandler) UpdateProduct(c *gin.Context) {
	h.updateProduct(c, c.Param("id"))
}

func (h *VendorHandler) updateProduct(c *gin.Context, productID string) {
	var req dto.UpdateProductRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), h.GetDB(c), h.RequestContext(c), productID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *VendorHandler) DeleteProduct(c *gin.Context) {
	h.deleteProduct(c, c.Param("id"))
}

func (h *VendorHandler) deleteProduct(c *gin.Context, productID string) {
	if err := h.productService.Delete(c.Request.Context(), h.GetDB(c), h.RequestContext(c), productID, h.DeleteReason(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VendorHandler) RestoreProduct(c *gin.Context) {
	product, err := h.productService.Restore(c.Request.Context(), h.GetDB(c), h.RequestContext(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
