package services_test

import (
	"context"
	"testing"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/testutil"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRegister_GatedBySetting(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := &dto.RegisterRequest{Name: " Jane ", Email: " Jane@Test.com ", Password: "Secret123"}

	resp, err := e.AuthService.Register(ctx, e.db, audit.RequestContext{}, req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "jane@test.com", resp.User.Email)
	assert.Equal(t, "Jane", resp.User.Name)
	assert.Equal(t, models.UserRoleUser, resp.User.Role)

	_, err = e.AuthService.Register(ctx, e.db, audit.RequestContext{}, req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = e.SettingService.Set(ctx, e.db, e.adminContext(t), &dto.SetSettingRequest{
		Key:   models.SettingAllowRegistration,
		Value: "false",
		Type:  models.SettingTypeBoolean,
	})
	require.NoError(t, err)

	_, err = e.AuthService.Register(ctx, e.db, audit.RequestContext{}, &dto.RegisterRequest{Name: "Bob", Email: "bob@test.com", Password: "Secret123"})
	assert.ErrorIs(t, err, apperrors.ErrRegistrationClosed)
}

func TestAuthLogin_AuditsAttempts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "jane@test.com")
	rc := audit.RequestContext{RequestID: "login-1", IP: "10.0.0.1"}

	t.Run("wrong password", func(t *testing.T) {
		_, err := e.AuthService.Login(ctx, e.db, rc, &dto.LoginRequest{Login: "jane@test.com", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

		logs := e.logs(t, user.ID, models.AuditActionLogin)
		require.Len(t, logs, 1)
		assert.Equal(t, models.AuditStatusFailed, logs[0].Status)
		assert.Equal(t, "invalid password", logs[0].ErrorMessage)
	})

	t.Run("unknown login", func(t *testing.T) {
		_, err := e.AuthService.Login(ctx, e.db, rc, &dto.LoginRequest{Login: "ghost@test.com", Password: "Secret123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("success is case insensitive", func(t *testing.T) {
		resp, err := e.AuthService.Login(ctx, e.db, rc, &dto.LoginRequest{Login: " JANE@test.com ", Password: testutil.TestPassword})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)

		var ok []models.AuditLog
		require.NoError(t, e.db.Where("entity_id = ? AND action = ? AND status = ?", user.ID, models.AuditActionLogin, models.AuditStatusSuccess).Find(&ok).Error)
		require.Len(t, ok, 1)
		require.NotNil(t, ok[0].ActorID)
		assert.Equal(t, user.ID, *ok[0].ActorID)
		assert.Equal(t, models.ActorTypeUser, ok[0].ActorType)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, e.db.Model(user).Update("is_active", false).Error)
		_, err := e.AuthService.Login(ctx, e.db, rc, &dto.LoginRequest{Login: "jane@test.com", Password: testutil.TestPassword})
		assert.ErrorIs(t, err, apperrors.ErrAccountDeactivated)
	})
}

func TestAuthLogin_AdminGetsAdminRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	testutil.CreateAdmin(t, e.db, "root@test.com")

	resp, err := e.AuthService.Login(ctx, e.db, audit.RequestContext{}, &dto.LoginRequest{Login: "root@test.com", Password: testutil.TestPassword})
	require.NoError(t, err)

	claims, err := auth.NewTokenManager("test-secret", 0).ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestAuthLogout_RequiresActor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "jane@test.com")

	err := e.AuthService.Logout(ctx, e.db, audit.RequestContext{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	require.NoError(t, e.AuthService.Logout(ctx, e.db, audit.RequestContext{ActorID: user.ID}))
	assert.Len(t, e.logs(t, user.ID, models.AuditActionLogout), 1)
}
