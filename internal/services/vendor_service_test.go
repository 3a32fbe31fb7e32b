package services_test

import (
	"context"
	"encoding/json"
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

func TestVendorRegister_CreatesPendingShop(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "owner@test.com")
	rc := audit.RequestContext{ActorID: user.ID}

	// Act
	resp, err := e.VendorService.Register(ctx, e.db, rc, user.ID, &dto.RegisterVendorRequest{
		VendorType:   models.VendorTypeShop,
		BusinessName: "Corner Store",
		City:         "Pune",
	})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, models.VerificationPending, resp.VerificationStatus)
	assert.False(t, resp.IsActive)
	assert.True(t, resp.IsPublic)
	require.NotNil(t, resp.Shop)
	assert.Equal(t, "Corner Store", resp.Shop.ShopName)

	var reloaded models.User
	require.NoError(t, e.db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, models.UserRoleVendor, reloaded.Role)

	assert.Len(t, e.logs(t, resp.ID, models.AuditActionCreate), 1)

	_, err = e.VendorService.Register(ctx, e.db, rc, user.ID, &dto.RegisterVendorRequest{
		VendorType:   models.VendorTypeShop,
		BusinessName: "Second Store",
	})
	assert.ErrorIs(t, err, apperrors.ErrVendorAlreadyRegistered)
}

func TestVendorUpdateProfile_AuditsOnlyChangedFields(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	vendor, _ := testutil.CreateShop(t, e.db, "owner@test.com", "Alpha")

	// Act
	_, err := e.VendorService.UpdateProfile(ctx, e.db, rc, vendor.ID, &dto.UpdateVendorRequest{BusinessName: ptr("Beta")})
	require.NoError(t, err)
	resp, err := e.VendorService.UpdateProfile(ctx, e.db, rc, vendor.ID, &dto.UpdateVendorRequest{BusinessName: ptr("Gamma")})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "Gamma", resp.BusinessName)
	assert.Equal(t, "Gamma", resp.Shop.ShopName)

	logs := e.logs(t, vendor.ID, models.AuditActionUpdate)
	require.Len(t, logs, 2)

	changes := map[string]string{}
	for _, log := range logs {
		var oldValues, newValues map[string]any
		require.NoError(t, json.Unmarshal(log.OldValues, &oldValues))
		require.NoError(t, json.Unmarshal(log.NewValues, &newValues))

		assert.Len(t, newValues, 1, "only business_name changes")
		assert.Equal(t, models.ActorTypeAdmin, log.ActorType)
		assert.Equal(t, "vendors", log.Module)
		assert.Equal(t, "Vendor", log.EntityType)
		changes[oldValues["business_name"].(string)] = newValues["business_name"].(string)
	}
	assert.Equal(t, map[string]string{"Alpha": "Beta", "Beta": "Gamma"}, changes)
}

func TestVendorUpdateProfile_NoChangesNoAudit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	vendor, _ := testutil.CreateShop(t, e.db, "owner@test.com", "Alpha")

	_, err := e.VendorService.UpdateProfile(ctx, e.db, rc, vendor.ID, &dto.UpdateVendorRequest{BusinessName: ptr("Alpha")})
	require.NoError(t, err)

	assert.Empty(t, e.logs(t, vendor.ID, models.AuditActionUpdate))
}

func TestVendorUpdateStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	user := testutil.CreateUser(t, e.db, "owner@test.com")
	resp, err := e.VendorService.Register(ctx, e.db, audit.RequestContext{ActorID: user.ID}, user.ID, &dto.RegisterVendorRequest{
		VendorType:   models.VendorTypeBarber,
		BusinessName: "Sharp Cuts",
	})
	require.NoError(t, err)

	t.Run("approve activates vendor", func(t *testing.T) {
		vendor, err := e.VendorService.UpdateStatus(ctx, e.db, rc, resp.ID, &dto.UpdateVendorStatusRequest{Status: models.VerificationApproved})
		require.NoError(t, err)
		assert.True(t, vendor.IsVerified)
		assert.True(t, vendor.IsActive)
		assert.True(t, vendor.IsListed())
	})

	t.Run("same status is rejected", func(t *testing.T) {
		_, err := e.VendorService.UpdateStatus(ctx, e.db, rc, resp.ID, &dto.UpdateVendorStatusRequest{Status: models.VerificationApproved})
		assert.ErrorIs(t, err, apperrors.ErrSameVerificationStatus)
	})

	t.Run("reject hides vendor", func(t *testing.T) {
		vendor, err := e.VendorService.UpdateStatus(ctx, e.db, rc, resp.ID, &dto.UpdateVendorStatusRequest{Status: models.VerificationRejected})
		require.NoError(t, err)
		assert.False(t, vendor.IsActive)

		page, err := e.VendorService.ListPublic(ctx, e.db, query.Spec{})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		_, err := e.VendorService.UpdateStatus(ctx, e.db, rc, resp.ID, &dto.UpdateVendorStatusRequest{Status: "archived"})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	})
}

func TestVendorDeleteRestore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	vendor, _ := testutil.CreateShop(t, e.db, "owner@test.com", "Alpha")

	require.NoError(t, e.VendorService.Delete(ctx, e.db, rc, vendor.ID, "duplicate listing"))

	_, err := e.VendorService.GetProfile(ctx, e.db, vendor.ID, false)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	trashed, err := e.VendorService.GetProfile(ctx, e.db, vendor.ID, true)
	require.NoError(t, err)
	require.NotNil(t, trashed.DeleteReason)
	assert.Equal(t, "duplicate listing", *trashed.DeleteReason)
	assert.True(t, trashed.IsActive)

	restored, err := e.VendorService.Restore(ctx, e.db, rc, vendor.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.True(t, restored.IsActive)
	assert.True(t, restored.IsVerified)

	assert.Len(t, e.logs(t, vendor.ID, models.AuditActionDelete), 1)
	assert.Len(t, e.logs(t, vendor.ID, models.AuditActionRestore), 1)
}

func TestVendorDeleteRestore_RejectedStaysInactive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	user := testutil.CreateUser(t, e.db, "barber@test.com")

	resp, err := e.VendorService.Register(ctx, e.db, audit.RequestContext{ActorID: user.ID}, user.ID, &dto.RegisterVendorRequest{
		VendorType:   models.VendorTypeBarber,
		BusinessName: "Sharp Cuts",
	})
	require.NoError(t, err)

	_, err = e.VendorService.UpdateStatus(ctx, e.db, rc, resp.ID, &dto.UpdateVendorStatusRequest{Status: models.VerificationRejected})
	require.NoError(t, err)

	require.NoError(t, e.VendorService.Delete(ctx, e.db, rc, resp.ID, "spam"))
	restored, err := e.VendorService.Restore(ctx, e.db, rc, resp.ID)
	require.NoError(t, err)

	assert.Equal(t, models.VerificationRejected, restored.VerificationStatus)
	assert.False(t, restored.IsActive)
	assert.False(t, restored.IsVerified)

	// флаги совпадали со статусом - лишнего обновления нет
	assert.Len(t, e.logs(t, resp.ID, models.AuditActionRestore), 1)
	assert.Len(t, e.logs(t, resp.ID, models.AuditActionUpdate), 1)
}

func TestShopProducts_PublicListing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	_, shop := testutil.CreateShop(t, e.db, "owner@test.com", "Alpha")

	created, err := e.ShopProductService.Create(ctx, e.db, rc, shop.ID, &dto.CreateProductRequest{Name: "Tea", Price: 12.5})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Len(t, e.logs(t, created.ID, models.AuditActionCreate), 1)
}
