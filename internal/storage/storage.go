package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound   = errors.New("file not found")
	ErrInvalidKey = errors.New("invalid storage key")
)

// Storage - хранилище файлов с адресацией по ключу вида
// "{collection}/{owner_id}/{filename}"
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete идемпотентен: отсутствующий файл не ошибка
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// GetURL - публичный URL (для приватного S3 - подписанный)
	GetURL(ctx context.Context, key string) (string, error)
	GetSize(ctx context.Context, key string) (int64, error)
}

type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // local
	BaseURL    string // публичный префикс URL
	Bucket     string // s3/r2
	Region     string // s3
	AccessKey  string // s3/r2
	SecretKey  string // s3/r2
	Endpoint   string // r2 или совместимый с S3 сервер
	PublicRead bool
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// CleanKey нормализует ключ и отклоняет выход за пределы хранилища
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	return cleaned, nil
}

// joinURL склеивает базовый URL и ключ без двойных слэшей
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
