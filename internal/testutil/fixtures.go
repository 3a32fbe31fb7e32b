package testutil

import (
	"testing"

	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestPassword - пароль всех пользователей из фикстур
const TestPassword = "Secret123"

// CreateUser - активный пользователь с ролью user
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(TestPassword)
	require.NoError(t, err)

	user := &models.User{
		Name:         "User " + email,
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateAdmin - пользователь с ролью admin и профилем администратора
func CreateAdmin(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Admin) {
	t.Helper()
	user := CreateUser(t, db, email)
	require.NoError(t, db.Model(user).Update("role", models.UserRoleAdmin).Error)
	user.Role = models.UserRoleAdmin

	admin := &models.Admin{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		IsActive: true,
	}
	require.NoError(t, db.Create(admin).Error)
	return user, admin
}

// CreateShop - одобренный вендор-магазин вместе с владельцем
func CreateShop(t *testing.T, db *gorm.DB, email, name string) (*models.Vendor, *models.Shop) {
	t.Helper()
	user := CreateUser(t, db, email)

	vendor := &models.Vendor{
		UserID:             user.ID,
		VendorType:         models.VendorTypeShop,
		BusinessName:       name,
		IsVerified:         true,
		IsPublic:           true,
		IsActive:           true,
		VerificationStatus: models.VerificationApproved,
		Status:             models.VendorStatusActive,
	}
	require.NoError(t, db.Create(vendor).Error)

	shop := &models.Shop{VendorID: vendor.ID, ShopName: name}
	require.NoError(t, db.Create(shop).Error)
	return vendor, shop
}

// CreateProduct - активный товар магазина
func CreateProduct(t *testing.T, db *gorm.DB, shopID, name string, price float64) *models.ShopProduct {
	t.Helper()
	p := &models.ShopProduct{ShopID: shopID, Name: name, Price: price, IsActive: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateTag - активный тег
func CreateTag(t *testing.T, db *gorm.DB, name, slug string, category models.TagCategory) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug, Category: category, IsActive: true}
	require.NoError(t, db.Create(tag).Error)
	return tag
}
