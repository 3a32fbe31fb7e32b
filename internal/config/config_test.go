package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  env: staging
database:
  driver: sqlite
  url: ./file.db
jwt:
  secret: from-file
  ttl: 30
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.IsDebug())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/bp")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, ""))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
}

func TestLoad_BrokenFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "server: [port"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database.DSN = "postgres://localhost/bp"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults with dsn", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: "database.driver"},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: "database.url"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Storage.Type = "s3" }, wantErr: "storage.bucket"},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "ftp" }, wantErr: "storage.type"},
		{name: "quality out of range", mutate: func(c *Config) { c.Upload.ImageQuality = 0 }, wantErr: "image_quality"},
		{name: "negative retention", mutate: func(c *Config) { c.Audit.RetentionDays = -1 }, wantErr: "retention_days"},
		{name: "production needs secret", mutate: func(c *Config) { c.Server.Env = "production" }, wantErr: "jwt.secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTokenTTL_Default(t *testing.T) {
	cfg := Default()
	cfg.JWT.TTL = 0
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}
