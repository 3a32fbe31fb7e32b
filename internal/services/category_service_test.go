package services_test

import (
	"context"
	"testing"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/testutil"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShopCategory_CreateAndRegisterShop(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	grocery, err := e.ShopCategoryService.Create(ctx, e.db, rc, &dto.CreateShopCategoryRequest{Name: " Grocery Store "})
	require.NoError(t, err)
	hidden, err := e.ShopCategoryService.Create(ctx, e.db, rc, &dto.CreateShopCategoryRequest{Name: "Pharmacy", IsActive: ptr(false)})
	require.NoError(t, err)

	t.Run("slug derived from name", func(t *testing.T) {
		assert.Equal(t, "Grocery Store", grocery.Name)
		assert.Equal(t, "grocery-store", grocery.Slug)
		assert.True(t, grocery.IsActive)
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		_, err := e.ShopCategoryService.Create(ctx, e.db, rc, &dto.CreateShopCategoryRequest{Name: "Other", Slug: "Grocery Store"})
		assert.ErrorIs(t, err, apperrors.ErrCategorySlugTaken)
	})

	t.Run("public list has only active", func(t *testing.T) {
		items, err := e.ShopCategoryService.Active(ctx, e.db)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, grocery.ID, items[0].ID)
	})

	t.Run("register with inactive category fails", func(t *testing.T) {
		user := testutil.CreateUser(t, e.db, "late@test.com")
		_, err := e.VendorService.Register(ctx, e.db, audit.RequestContext{ActorID: user.ID}, user.ID, &dto.RegisterVendorRequest{
			VendorType:     models.VendorTypeShop,
			BusinessName:   "Night Pharmacy",
			ShopCategoryID: ptr(hidden.ID),
		})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})

	t.Run("register keeps category and audits shop", func(t *testing.T) {
		user := testutil.CreateUser(t, e.db, "owner@test.com")
		resp, err := e.VendorService.Register(ctx, e.db, audit.RequestContext{ActorID: user.ID}, user.ID, &dto.RegisterVendorRequest{
			VendorType:     models.VendorTypeShop,
			BusinessName:   "Corner Store",
			ShopCategoryID: ptr(grocery.ID),
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Shop)
		require.NotNil(t, resp.Shop.ShopCategoryID)
		assert.Equal(t, grocery.ID, *resp.Shop.ShopCategoryID)

		logs := e.logs(t, resp.Shop.ID, models.AuditActionCreate)
		require.Len(t, logs, 1)
		assert.Equal(t, "shops", logs[0].Module)
		assert.Equal(t, "Shop", logs[0].EntityType)
	})
}

func TestShopCategory_RestoreWithTakenSlug(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	first, err := e.ShopCategoryService.Create(ctx, e.db, rc, &dto.CreateShopCategoryRequest{Name: "Bakery"})
	require.NoError(t, err)
	require.NoError(t, e.ShopCategoryService.Delete(ctx, e.db, rc, first.ID, "renamed"))

	_, err = e.ShopCategoryService.Create(ctx, e.db, rc, &dto.CreateShopCategoryRequest{Name: "Bakery"})
	require.NoError(t, err, "deleted category frees its slug")

	_, err = e.ShopCategoryService.Restore(ctx, e.db, rc, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrCategorySlugTaken)

	_, err = e.ShopCategoryService.Get(ctx, e.db, first.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound), "failed restore is rolled back")
}

func TestProductCategory_ScopedToShop(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	_, shopA := testutil.CreateShop(t, e.db, "a@test.com", "Alpha")
	_, shopB := testutil.CreateShop(t, e.db, "b@test.com", "Beta")

	drinks, err := e.ProductCategoryService.Create(ctx, e.db, rc, &dto.CreateProductCategoryRequest{
		ShopID:    shopA.ID,
		Name:      "Cold Drinks",
		SortOrder: 2,
	})
	require.NoError(t, err)

	t.Run("create is audited", func(t *testing.T) {
		assert.Equal(t, "cold-drinks", drinks.Slug)
		logs := e.logs(t, drinks.ID, models.AuditActionCreate)
		require.Len(t, logs, 1)
		assert.Equal(t, "product_categories", logs[0].Module)
	})

	t.Run("same slug allowed in another shop", func(t *testing.T) {
		_, err := e.ProductCategoryService.Create(ctx, e.db, rc, &dto.CreateProductCategoryRequest{ShopID: shopB.ID, Name: "Cold Drinks"})
		require.NoError(t, err)

		_, err = e.ProductCategoryService.Create(ctx, e.db, rc, &dto.CreateProductCategoryRequest{ShopID: shopA.ID, Name: "cold drinks"})
		assert.ErrorIs(t, err, apperrors.ErrCategorySlugTaken)
	})

	t.Run("unknown shop", func(t *testing.T) {
		_, err := e.ProductCategoryService.Create(ctx, e.db, rc, &dto.CreateProductCategoryRequest{ShopID: "missing", Name: "Snacks"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	})

	t.Run("list requires shop", func(t *testing.T) {
		_, err := e.ProductCategoryService.ListForShop(ctx, e.db, "", query.Spec{})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

		page, err := e.ProductCategoryService.ListForShop(ctx, e.db, shopA.ID, query.Spec{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, drinks.ID, page.Items[0].ID)
	})

	t.Run("product takes only own shop category", func(t *testing.T) {
		_, err := e.ShopProductService.Create(ctx, e.db, rc, shopB.ID, &dto.CreateProductRequest{Name: "Cola", Price: 2, CategoryID: ptr(drinks.ID)})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

		product, err := e.ShopProductService.Create(ctx, e.db, rc, shopA.ID, &dto.CreateProductRequest{Name: "Cola", Price: 2, CategoryID: ptr(drinks.ID)})
		require.NoError(t, err)
		require.NotNil(t, product.CategoryID)

		updated, err := e.ShopProductService.Update(ctx, e.db, rc, product.ID, &dto.UpdateProductRequest{CategoryID: ptr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.CategoryID, "empty id clears category")
	})

	t.Run("rename moves slug", func(t *testing.T) {
		updated, err := e.ProductCategoryService.Update(ctx, e.db, rc, drinks.ID, &dto.UpdateProductCategoryRequest{Name: ptr("Juices")})
		require.NoError(t, err)
		assert.Equal(t, "juices", updated.Slug)
		assert.Equal(t, 2, updated.SortOrder)
	})
}

func TestVendorDeleteRestore_AuditsShop(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	vendor, shop := testutil.CreateShop(t, e.db, "owner@test.com", "Alpha")

	_, err := e.VendorService.UpdateProfile(ctx, e.db, rc, vendor.ID, &dto.UpdateVendorRequest{PriceDisplayEnabled: ptr(true)})
	require.NoError(t, err)
	require.NoError(t, e.VendorService.Delete(ctx, e.db, rc, vendor.ID, "closed"))
	_, err = e.VendorService.Restore(ctx, e.db, rc, vendor.ID)
	require.NoError(t, err)

	assert.Len(t, e.logs(t, shop.ID, models.AuditActionUpdate), 1)
	assert.Len(t, e.logs(t, shop.ID, models.AuditActionDelete), 1)
	assert.Len(t, e.logs(t, shop.ID, models.AuditActionRestore), 1)

	var reloaded models.Shop
	require.NoError(t, e.db.First(&reloaded, "id = ?", shop.ID).Error)
	assert.Nil(t, reloaded.DeletedAt)
	assert.True(t, reloaded.PriceDisplayEnabled)
}

func TestVendorRegistrationStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	user := testutil.CreateUser(t, e.db, "owner@test.com")

	status, err := e.VendorService.RegistrationStatus(ctx, e.db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, status, "no application yet")

	resp, err := e.VendorService.Register(ctx, e.db, audit.RequestContext{ActorID: user.ID}, user.ID, &dto.RegisterVendorRequest{
		VendorType:   models.VendorTypeDoctor,
		BusinessName: "City Clinic",
	})
	require.NoError(t, err)

	status, err = e.VendorService.RegistrationStatus(ctx, e.db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.VerificationPending, status.Status)
	assert.False(t, status.IsVerified)
	assert.Nil(t, status.Reason)
	assert.Equal(t, "City Clinic", status.BusinessName)

	require.NoError(t, e.VendorService.Delete(ctx, e.db, rc, resp.ID, "documents missing"))

	status, err = e.VendorService.RegistrationStatus(ctx, e.db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, status, "deleted application is still reported")
	require.NotNil(t, status.Reason)
	assert.Equal(t, "documents missing", *status.Reason)
}

func TestDashboardStats(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	_, shop := testutil.CreateShop(t, e.db, "shop@test.com", "Alpha")
	user := testutil.CreateUser(t, e.db, "barber@test.com")
	_, err := e.VendorService.Register(ctx, e.db, audit.RequestContext{ActorID: user.ID}, user.ID, &dto.RegisterVendorRequest{
		VendorType:   models.VendorTypeBarber,
		BusinessName: "Sharp Cuts",
	})
	require.NoError(t, err)
	for _, name := range []string{"One", "Two", "Three", "Four", "Five"} {
		_, err := e.ProductCategoryService.Create(ctx, e.db, rc, &dto.CreateProductCategoryRequest{ShopID: shop.ID, Name: name})
		require.NoError(t, err)
	}

	// Act
	stats, err := e.DashboardService.Stats(ctx, e.db)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, int64(2), stats.TotalVendors)
	assert.Equal(t, int64(1), stats.PendingApprovals)
	assert.Equal(t, int64(2), stats.ActiveServices)

	require.Len(t, stats.RecentActivity, 5)
	for _, item := range stats.RecentActivity {
		assert.Equal(t, "User admin@test.com", item.ActorName)
		assert.Equal(t, "product_categories", item.Module)
		assert.Equal(t, string(models.AuditActionCreate), item.Action)
	}
	assert.False(t, stats.RecentActivity[0].Time.Before(stats.RecentActivity[4].Time), "newest first")
}

func TestDashboardStats_SystemActor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, shop := testutil.CreateShop(t, e.db, "shop@test.com", "Alpha")
	_, err := e.ProductCategoryService.Create(ctx, e.db, audit.RequestContext{}, &dto.CreateProductCategoryRequest{ShopID: shop.ID, Name: "Seeded"})
	require.NoError(t, err)

	stats, err := e.DashboardService.Stats(ctx, e.db)
	require.NoError(t, err)
	require.Len(t, stats.RecentActivity, 1)
	assert.Equal(t, "System", stats.RecentActivity[0].ActorName)
}
