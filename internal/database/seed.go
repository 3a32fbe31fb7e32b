package database

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/config"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/slug"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seeds/default.yaml
var defaultSeed []byte

type SeedData struct {
	Settings       []SeedSetting      `yaml:"settings"`
	Tags           []SeedTag          `yaml:"tags"`
	ShopCategories []SeedShopCategory `yaml:"shop_categories"`
}

type SeedSetting struct {
	Key         string             `yaml:"key"`
	Value       string             `yaml:"value"`
	Type        models.SettingType `yaml:"type"`
	Description string             `yaml:"description"`
}

type SeedTag struct {
	Name     string             `yaml:"name"`
	Slug     string             `yaml:"slug"`
	Category models.TagCategory `yaml:"category"`
}

type SeedShopCategory struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// LoadSeed читает seed-файл, пустой путь - встроенный набор
func LoadSeed(path string) (*SeedData, error) {
	raw := defaultSeed
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file %s: %w", path, err)
		}
		raw = data
	}

	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &data, nil
}

// Seed добавляет недостающие настройки, теги и виды магазинов. Существующие строки не трогает.
func Seed(db *gorm.DB, data *SeedData) error {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	created := 0
	for _, s := range data.Settings {
		if !s.Type.Valid() {
			return fmt.Errorf("seed setting %q: invalid type %q", s.Key, s.Type)
		}
		setting := models.Setting{Key: s.Key, Value: s.Value, Type: s.Type, Description: s.Description}
		res := tx.Where(models.Setting{Key: s.Key}).FirstOrCreate(&setting)
		if res.Error != nil {
			return fmt.Errorf("seed setting %q: %w", s.Key, res.Error)
		}
		created += int(res.RowsAffected)
	}

	for _, t := range data.Tags {
		if !t.Category.Valid() {
			return fmt.Errorf("seed tag %q: invalid category %q", t.Name, t.Category)
		}
		tagSlug := t.Slug
		if tagSlug == "" {
			tagSlug = slug.Make(t.Name)
		}
		tag := models.Tag{Name: t.Name, Slug: tagSlug, Category: t.Category, IsActive: true}
		res := tx.Where(models.Tag{Slug: tagSlug}).FirstOrCreate(&tag)
		if res.Error != nil {
			return fmt.Errorf("seed tag %q: %w", t.Name, res.Error)
		}
		created += int(res.RowsAffected)
	}

	for _, c := range data.ShopCategories {
		categorySlug := slug.Make(c.Name)
		if categorySlug == "" {
			return fmt.Errorf("seed shop category %q: empty slug", c.Name)
		}
		category := models.ShopCategory{Name: c.Name, Slug: categorySlug, Icon: c.Icon, IsActive: true}
		res := tx.Where(models.ShopCategory{Slug: categorySlug}).FirstOrCreate(&category)
		if res.Error != nil {
			return fmt.Errorf("seed shop category %q: %w", c.Name, res.Error)
		}
		created += int(res.RowsAffected)
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	logger.Info("Seed applied", "created", created)
	return nil
}

// SeedFirstAdmin создает пользователя и профиль администратора одной транзакцией.
// Если пользователь с таким email уже есть, ничего не делает.
func SeedFirstAdmin(db *gorm.DB, cfg config.FirstAdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var existing models.User
	err := tx.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", cfg.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}

	user := &models.User{
		Name:         name,
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	admin := &models.Admin{
		UserID:       user.ID,
		Name:         name,
		Email:        cfg.Email,
		IsSuperAdmin: true,
		IsActive:     true,
	}
	if err := tx.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}

	logger.Info("Created first admin", "email", cfg.Email)
	return tx.Commit().Error
}
