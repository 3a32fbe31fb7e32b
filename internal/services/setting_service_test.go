package services_test

import (
	"context"
	"testing"

	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/testutil"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_CacheFollowsWrites(t *testing.T) {
	// Arrange
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	_, err := e.SettingService.Set(ctx, e.db, rc, &dto.SetSettingRequest{Key: "site_name", Value: "Old Town"})
	require.NoError(t, err)

	first, err := e.SettingService.GetString(ctx, e.db, "site_name", "")
	require.NoError(t, err)
	require.Equal(t, "Old Town", first)
	require.Equal(t, 1, e.cache.Len())

	// Act
	_, err = e.SettingService.Set(ctx, e.db, rc, &dto.SetSettingRequest{Key: "site_name", Value: "New Town"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 0, e.cache.Len(), "write drops the cached value")
	second, err := e.SettingService.GetString(ctx, e.db, "site_name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Town", second)
}

func TestSettings_MissingKeyIsNotCached(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	enabled, err := e.SettingService.GetBool(ctx, e.db, models.SettingMaintenanceMode, false)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, 0, e.cache.Len())

	require.NoError(t, e.db.Create(&models.Setting{Key: models.SettingMaintenanceMode, Value: "true", Type: models.SettingTypeBoolean}).Error)

	enabled, err = e.SettingService.GetBool(ctx, e.db, models.SettingMaintenanceMode, false)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestSettings_UpdateManyInfersTypes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	all, err := e.SettingService.UpdateMany(ctx, e.db, rc, &dto.UpdateSettingsRequest{Settings: map[string]any{
		"maintenance_mode": true,
		"max_banners":      float64(5),
		"social":           map[string]any{"x": "@town"},
		"tagline":          "Everything local",
	}})
	require.NoError(t, err)

	assert.Equal(t, true, all["maintenance_mode"])
	assert.Equal(t, float64(5), all["max_banners"])
	assert.Equal(t, map[string]any{"x": "@town"}, all["social"])
	assert.Equal(t, "Everything local", all["tagline"])
	assert.Equal(t, models.DefaultMaintenanceNote, all["maintenance_note"])
	assert.Equal(t, true, all["allow_registration"])

	settings, err := e.SettingService.List(ctx, e.db)
	require.NoError(t, err)
	types := map[string]models.SettingType{}
	for _, s := range settings {
		types[s.Key] = s.Type
	}
	assert.Equal(t, models.SettingTypeBoolean, types["maintenance_mode"])
	assert.Equal(t, models.SettingTypeNumber, types["max_banners"])
	assert.Equal(t, models.SettingTypeJSON, types["social"])
	assert.Equal(t, models.SettingTypeString, types["tagline"])

	enabled, note, err := e.SettingService.Maintenance(ctx, e.db)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, models.DefaultMaintenanceNote, note)
}

func TestSettings_ExplicitTypeSwitchesBackToString(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	_, err := e.SettingService.UpdateMany(ctx, e.db, rc, &dto.UpdateSettingsRequest{Settings: map[string]any{
		"max_banners": float64(5),
	}})
	require.NoError(t, err)

	// выведенный строковый тип не сбрасывает number
	_, err = e.SettingService.UpdateMany(ctx, e.db, rc, &dto.UpdateSettingsRequest{Settings: map[string]any{
		"max_banners": "7",
	}})
	require.NoError(t, err)
	val, err := e.SettingService.Get(ctx, e.db, "max_banners", nil)
	require.NoError(t, err)
	assert.Equal(t, float64(7), val)

	saved, err := e.SettingService.Set(ctx, e.db, rc, &dto.SetSettingRequest{
		Key:   "max_banners",
		Value: "seven",
		Type:  models.SettingTypeString,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SettingTypeString, saved.Type)

	str, err := e.SettingService.GetString(ctx, e.db, "max_banners", "")
	require.NoError(t, err)
	assert.Equal(t, "seven", str)
}

func TestSettings_CachedJSONIsNotShared(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)

	_, err := e.SettingService.Set(ctx, e.db, rc, &dto.SetSettingRequest{
		Key:   "social",
		Value: `{"x":"@town","links":["a","b"]}`,
		Type:  models.SettingTypeJSON,
	})
	require.NoError(t, err)

	first, err := e.SettingService.Get(ctx, e.db, "social", nil)
	require.NoError(t, err)
	m, ok := first.(map[string]any)
	require.True(t, ok)
	m["x"] = "@changed"
	m["links"].([]any)[0] = "z"

	second, err := e.SettingService.Get(ctx, e.db, "social", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": "@town", "links": []any{"a", "b"}}, second)
	assert.Equal(t, 1, e.cache.Len())
}

func TestSettings_UploadAssetReplacesFile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	rc := e.adminContext(t)
	logo := func() media.FileInput {
		return media.FromBytes("logo.png", "image/png", testutil.PNGWithAlpha(t, 16, 16))
	}

	_, err := e.SettingService.UploadAsset(ctx, e.db, rc, models.SettingSiteLogo, logo())
	require.NoError(t, err)
	all, err := e.SettingService.UploadAsset(ctx, e.db, rc, models.SettingSiteLogo, logo())
	require.NoError(t, err)

	url, ok := all[models.SettingSiteLogo].(string)
	require.True(t, ok)
	assert.Contains(t, url, "http://localhost/storage/")

	var count int64
	require.NoError(t, e.db.Model(&models.Media{}).Where("model_type = ?", "setting").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = e.SettingService.UploadAsset(ctx, e.db, rc, "site_name", logo())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}
