package models

import (
	"path"
	"strings"
)

// Media - один файл, полиморфно привязанный к владельцу (ModelType, ModelID).
// Ресайзы (thumbnail, medium) отдельных строк не имеют.
type Media struct {
	BaseModel
	ModelType  string  `gorm:"size:50;not null;index:idx_media_owner" json:"model_type"`
	ModelID    string  `gorm:"size:36;not null;index:idx_media_owner" json:"model_id"`
	FilePath   string  `gorm:"size:500;not null" json:"file_path"`
	FileName   string  `gorm:"size:255;not null" json:"file_name"`
	MimeType   string  `gorm:"size:100" json:"mime_type"`
	FileSize   int64   `gorm:"default:0" json:"file_size"`
	IsPrimary  bool    `gorm:"not null" json:"is_primary"`
	UploadedBy *string `gorm:"size:36" json:"uploaded_by,omitempty"`
}

func (Media) TableName() string { return "media" }

func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image/")
}

// VariantPath - путь производной копии: {dir}/{size}_{filename}
func (m *Media) VariantPath(size string) string {
	return path.Join(path.Dir(m.FilePath), size+"_"+path.Base(m.FilePath))
}
