package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/config"
	"github.com/fahadjdy/business-point/internal/database"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_DefaultIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	data, err := database.LoadSeed("")
	require.NoError(t, err)

	require.NoError(t, database.Seed(db, data))
	// правка администратора не перетирается повторным сидом
	require.NoError(t, db.Model(&models.Setting{}).Where("key = ?", "site_name").Update("value", "My Town").Error)
	require.NoError(t, database.Seed(db, data))

	var settings, tags, categories int64
	require.NoError(t, db.Model(&models.Setting{}).Count(&settings).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	require.NoError(t, db.Model(&models.ShopCategory{}).Count(&categories).Error)
	assert.EqualValues(t, len(data.Settings), settings)
	assert.EqualValues(t, len(data.Tags), tags)
	assert.NotEmpty(t, data.ShopCategories)
	assert.EqualValues(t, len(data.ShopCategories), categories)

	var name models.Setting
	require.NoError(t, db.Where("key = ?", "site_name").First(&name).Error)
	assert.Equal(t, "My Town", name.Value)
}

func TestSeed_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tags:
  - name: Home Delivery
    category: service
`), 0o600))

	db := testutil.NewDB(t)
	data, err := database.LoadSeed(path)
	require.NoError(t, err)
	require.NoError(t, database.Seed(db, data))

	var tag models.Tag
	require.NoError(t, db.Where("slug = ?", "home-delivery").First(&tag).Error)
	assert.True(t, tag.IsActive)

	bad := &database.SeedData{Tags: []database.SeedTag{{Name: "X", Category: "planet"}}}
	assert.Error(t, database.Seed(db, bad))
}

func TestSeedFirstAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := config.FirstAdminConfig{Email: "root@test.com", Password: "Secret123"}

	require.NoError(t, database.SeedFirstAdmin(db, cfg))
	require.NoError(t, database.SeedFirstAdmin(db, cfg))

	var users []models.User
	require.NoError(t, db.Where("email = ?", cfg.Email).Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, models.UserRoleAdmin, users[0].Role)
	assert.Equal(t, "Administrator", users[0].Name)
	assert.True(t, auth.CheckPasswordHash("Secret123", users[0].PasswordHash))

	var admin models.Admin
	require.NoError(t, db.Where("user_id = ?", users[0].ID).First(&admin).Error)
	assert.True(t, admin.IsSuperAdmin)

	// без пароля сидирование пропускается
	require.NoError(t, database.SeedFirstAdmin(db, config.FirstAdminConfig{Email: "other@test.com"}))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
