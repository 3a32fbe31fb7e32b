package media

import (
	"context"
	"strings"

	"github.com/fahadjdy/business-point/internal/imageprocessor"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"

	"github.com/dustin/go-humanize"
)

type URLs struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	MediumURL    string `json:"medium_url"`
}

// View - файл в ответе API
type View struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	ThumbnailURL  string `json:"thumbnail_url"`
	MediumURL     string `json:"medium_url"`
	IsPrimary     bool   `json:"is_primary"`
	FileName      string `json:"file_name"`
	FileSize      int64  `json:"file_size"`
	HumanFileSize string `json:"human_file_size"`
	MimeType      string `json:"mime_type"`
}

// URLs каждый раз заново проверяет наличие копий в хранилище.
// Нет копии - отдаётся URL оригинала.
func (m *Manager) URLs(ctx context.Context, media *models.Media) (URLs, error) {
	original, err := m.url(ctx, media.FilePath)
	if err != nil {
		return URLs{}, err
	}

	urls := URLs{URL: original, ThumbnailURL: original, MediumURL: original}
	if !media.IsImage() {
		return urls, nil
	}

	urls.ThumbnailURL = m.variantURL(ctx, media, imageprocessor.SizeThumbnail.Name, original)
	urls.MediumURL = m.variantURL(ctx, media, imageprocessor.SizeMedium.Name, original)
	return urls, nil
}

func (m *Manager) url(ctx context.Context, key string) (string, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	return m.storage.GetURL(ctx, key)
}

func (m *Manager) variantURL(ctx context.Context, media *models.Media, size, fallback string) string {
	key := media.VariantPath(size)
	exists, err := m.storage.Exists(ctx, key)
	if err != nil {
		logger.CtxWarn(ctx, "failed to check image variant", "key", key, "error", err)
		return fallback
	}
	if !exists {
		return fallback
	}
	url, err := m.storage.GetURL(ctx, key)
	if err != nil {
		return fallback
	}
	return url
}

func (m *Manager) Present(ctx context.Context, media *models.Media) (*View, error) {
	urls, err := m.URLs(ctx, media)
	if err != nil {
		return nil, err
	}
	return &View{
		ID:            media.ID,
		URL:           urls.URL,
		ThumbnailURL:  urls.ThumbnailURL,
		MediumURL:     urls.MediumURL,
		IsPrimary:     media.IsPrimary,
		FileName:      media.FileName,
		FileSize:      media.FileSize,
		HumanFileSize: humanize.IBytes(uint64(max(media.FileSize, 0))),
		MimeType:      media.MimeType,
	}, nil
}

// PresentAll - то же для списка, порядок сохраняется
func (m *Manager) PresentAll(ctx context.Context, items []models.Media) ([]View, error) {
	views := make([]View, 0, len(items))
	for i := range items {
		v, err := m.Present(ctx, &items[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}
