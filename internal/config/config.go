package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Session    SessionConfig    `yaml:"session"`
	Storage    StorageConfig    `yaml:"storage"`
	Upload     UploadConfig     `yaml:"upload"`
	FirstAdmin FirstAdminConfig `yaml:"first_admin"`
	Seed       SeedConfig       `yaml:"seed"`
	CORS       CORSConfig       `yaml:"cors"`
	Audit      AuditConfig      `yaml:"audit"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST"`
	Port int    `yaml:"port" env:"SERVER_PORT"`
	Env  string `yaml:"env" env:"SERVER_ENV"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"` // postgres, mysql, sqlite
	DSN    string `yaml:"url" env:"DATABASE_URL"`
}

type JWTConfig struct {
	Secret string `yaml:"secret" env:"JWT_SECRET"`
	TTL    int    `yaml:"ttl" env:"JWT_TTL"` // минуты
}

type SessionConfig struct {
	Name   string `yaml:"name" env:"SESSION_NAME"`
	Secret string `yaml:"secret" env:"SESSION_SECRET"`
}

type StorageConfig struct {
	Type       string `yaml:"type" env:"STORAGE_TYPE"`             // local, s3, cloudflare_r2
	BasePath   string `yaml:"base_path" env:"STORAGE_BASE_PATH"`   // For local storage
	BaseURL    string `yaml:"base_url" env:"STORAGE_BASE_URL"`     // Public URL base
	Bucket     string `yaml:"bucket" env:"STORAGE_BUCKET"`         // For S3/R2
	Region     string `yaml:"region" env:"STORAGE_REGION"`         // For S3
	AccessKey  string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"` // For S3/R2
	SecretKey  string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"` // For S3/R2
	Endpoint   string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`     // For R2 or custom S3
	PublicRead bool   `yaml:"public_read" env:"STORAGE_PUBLIC_READ"`
}

type UploadConfig struct {
	MaxSize       int64    `yaml:"max_size" env:"UPLOAD_MAX_SIZE"` // bytes
	AllowedTypes  []string `yaml:"allowed_types" env:"UPLOAD_ALLOWED_TYPES" envSeparator:","`
	ImageQuality  int      `yaml:"image_quality" env:"UPLOAD_IMAGE_QUALITY"`
	ResizeEnabled bool     `yaml:"resize_enabled" env:"UPLOAD_RESIZE_ENABLED"`
}

type FirstAdminConfig struct {
	Name     string `yaml:"name" env:"FIRST_ADMIN_NAME"`
	Email    string `yaml:"email" env:"FIRST_ADMIN_EMAIL"`
	Password string `yaml:"password" env:"FIRST_ADMIN_PASSWORD"`
}

type SeedConfig struct {
	Path string `yaml:"path" env:"SEED_PATH"` // пусто - встроенный seed
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type AuditConfig struct {
	RetentionDays int `yaml:"retention_days" env:"AUDIT_RETENTION_DAYS"` // 0 - хранить бессрочно
}

var AppConfig *Config

// Default возвращает конфигурацию, пригодную для локального запуска
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.Env = "development"

	cfg.Database.Driver = "postgres"

	cfg.JWT.TTL = 60 * 24

	cfg.Session.Name = "bp_session"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./storage/app/public"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	cfg.Upload.AllowedTypes = []string{
		"image/jpeg", "image/png", "image/gif", "image/webp",
		"application/pdf",
	}
	cfg.Upload.ImageQuality = 85
	cfg.Upload.ResizeEnabled = true

	cfg.CORS.AllowedOrigins = []string{"*"}

	return &cfg
}

// Load читает .env, затем YAML-файл (CONFIG_PATH), затем переменные окружения.
// Каждый следующий источник перекрывает предыдущий.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if err := loadFile(configPath, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// без файла работаем на дефолтах + окружении
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	// пустой файл - тоже дефолты
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		problems = append(problems, "database.url is required")
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.BasePath == "" {
			problems = append(problems, "storage.base_path is required for local storage")
		}
	case "s3", "cloudflare_r2":
		if c.Storage.Bucket == "" {
			problems = append(problems, "storage.bucket is required for "+c.Storage.Type)
		}
	default:
		problems = append(problems, fmt.Sprintf("storage.type %q is not supported", c.Storage.Type))
	}

	if c.Upload.ImageQuality < 1 || c.Upload.ImageQuality > 100 {
		problems = append(problems, "upload.image_quality must be within 1..100")
	}

	if c.Audit.RetentionDays < 0 {
		problems = append(problems, "audit.retention_days must not be negative")
	}

	if c.Server.Env == "production" && c.JWT.Secret == "" {
		problems = append(problems, "jwt.secret is required in production")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// TokenTTL - время жизни access-токена
func (c *Config) TokenTTL() time.Duration {
	if c.JWT.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWT.TTL) * time.Minute
}

// IsDebug - показывать ли клиенту детали внутренних ошибок
func (c *Config) IsDebug() bool {
	return c.Server.Env != "production"
}

// LoadConfig загружает конфиг в AppConfig
func LoadConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		if err := LoadConfig(); err != nil {
			AppConfig = Default()
		}
	}
	return AppConfig
}
