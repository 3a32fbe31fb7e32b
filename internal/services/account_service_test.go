package services_test

import (
	"context"
	"testing"

	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/testutil"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_CreateUpdateDelete(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	// Act
	admin, err := e.AdminService.CreateAdmin(ctx, e.db, rc, &dto.CreateAdminRequest{
		Name:     "Second",
		Email:    " Second@Test.com ",
		Password: "Secret123",
	})
	require.NoError(t, err)

	// Assert
	var user models.User
	require.NoError(t, e.db.First(&user, "id = ?", admin.UserID).Error)
	assert.Equal(t, "second@test.com", user.Email)
	assert.Equal(t, models.UserRoleAdmin, user.Role)
	assert.True(t, auth.CheckPasswordHash("Secret123", user.PasswordHash))

	_, err = e.AdminService.CreateAdmin(ctx, e.db, rc, &dto.CreateAdminRequest{
		Name:     "Dup",
		Email:    "second@test.com",
		Password: "Secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	t.Run("update syncs user name", func(t *testing.T) {
		resp, err := e.AdminService.UpdateProfile(ctx, e.db, rc, admin.ID, &dto.UpdateAdminProfileRequest{Name: ptr("Renamed")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Name)

		require.NoError(t, e.db.First(&user, "id = ?", admin.UserID).Error)
		assert.Equal(t, "Renamed", user.Name)
		assert.True(t, auth.CheckPasswordHash("Secret123", user.PasswordHash))
	})

	t.Run("cannot delete own profile", func(t *testing.T) {
		own, err := e.AdminService.GetByUser(ctx, e.db, rc.ActorID)
		require.NoError(t, err)

		err = e.AdminService.Delete(ctx, e.db, rc, own.ID, "")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidOperation))
	})

	t.Run("delete demotes user", func(t *testing.T) {
		require.NoError(t, e.AdminService.Delete(ctx, e.db, rc, admin.ID, "left the team"))

		require.NoError(t, e.db.First(&user, "id = ?", admin.UserID).Error)
		assert.Equal(t, models.UserRoleUser, user.Role)

		_, err := e.AdminService.Get(ctx, e.db, admin.ID)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
		assert.Len(t, e.logs(t, admin.ID, models.AuditActionDelete), 1)
	})
}

func TestUserService_ProfileAndPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "jane@test.com")
	rc := e.adminContext(t)

	resp, err := e.UserService.UpdateProfile(ctx, e.db, rc, user.ID, &dto.UpdateUserProfileRequest{
		Name:       ptr(" Jane Doe "),
		BloodGroup: ptr("O+"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resp.Name)
	assert.Nil(t, resp.Photo)

	_, err = e.UserService.UpdateProfile(ctx, e.db, rc, user.ID, &dto.UpdateUserProfileRequest{BloodGroup: ptr("Z")}, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))

	err = e.UserService.ChangePassword(ctx, e.db, rc, user.ID, &dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "Another123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, e.UserService.ChangePassword(ctx, e.db, rc, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: testutil.TestPassword,
		NewPassword:     "Another123",
	}))
	var stored models.User
	require.NoError(t, e.db.First(&stored, "id = ?", user.ID).Error)
	assert.True(t, auth.CheckPasswordHash("Another123", stored.PasswordHash))

	deactivated, err := e.UserService.SetActive(ctx, e.db, rc, user.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
}

func TestAuditLogService_ByModuleAndEntity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	user := testutil.CreateUser(t, e.db, "jane@test.com")

	_, err := e.UserService.SetActive(ctx, e.db, rc, user.ID, false)
	require.NoError(t, err)

	page, err := e.AuditLogService.ByModule(ctx, e.db, "users", query.Spec{})
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	for _, entry := range page.Items {
		assert.Equal(t, "users", entry.Module)
	}

	logs, err := e.AuditLogService.ForEntity(ctx, e.db, "User", user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionUpdate, logs[0].Action)

	_, err = e.AuditLogService.ByModule(ctx, e.db, " ", query.Spec{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}
