package testutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"testing"

	"github.com/fahadjdy/business-point/internal/database"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB - чистая мигрированная sqlite-база во временной директории теста
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitWithWriter("test", io.Discard)

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "не удалось открыть тестовую базу")
	require.NoError(t, database.AutoMigrate(db), "миграция тестовой базы")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewLocalStorage - локальное хранилище во временной директории
func NewLocalStorage(t *testing.T) *storage.LocalStorage {
	t.Helper()
	s, err := storage.NewLocalStorage(storage.Config{
		Type:     "local",
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost/storage",
	})
	require.NoError(t, err)
	return s
}

// JPEG - сплошная картинка заданного размера
func JPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{R: 30, G: 120, B: 200, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}))
	return buf.Bytes()
}

// webp1x1 - lossless WebP 1×1
const webp1x1 = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

// WebP - минимальная картинка WebP; кодировщика WebP в зависимостях нет
func WebP(t *testing.T) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(webp1x1)
	require.NoError(t, err)
	return data
}

// PNGWithAlpha - полупрозрачная картинка
func PNGWithAlpha(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 0})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
