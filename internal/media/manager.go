package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/imageprocessor"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/internal/repositories"
	"github.com/fahadjdy/business-point/internal/storage"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

const DefaultCollection = models.CollectionDefault

// Owner - сущность, к которой привязываются файлы
type Owner interface {
	GetID() string
	MediaOwnerType() string
}

type ownerRef struct {
	ownerType string
	id        string
}

func (o ownerRef) GetID() string          { return o.id }
func (o ownerRef) MediaOwnerType() string { return o.ownerType }

// Ref - владелец по паре (тип, id), когда самой сущности нет под рукой
func Ref(ownerType, id string) Owner {
	return ownerRef{ownerType: ownerType, id: id}
}

type Options struct {
	Collection string
	IsPrimary  bool
	WithResize bool
}

type Config struct {
	MaxSize      int64
	AllowedTypes []string
}

type Manager struct {
	repo      repositories.MediaRepository
	storage   storage.Storage
	processor *imageprocessor.Processor
	cfg       Config
	now       func() time.Time
}

func NewManager(repo repositories.MediaRepository, store storage.Storage, processor *imageprocessor.Processor, cfg Config) *Manager {
	return &Manager{
		repo:      repo,
		storage:   store,
		processor: processor,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Storage - хранилище, в которое пишет менеджер
func (m *Manager) Storage() storage.Storage {
	return m.storage
}

// ============================================
// Загрузка
// ============================================

// Upload сохраняет оригинал, затем пишет строку (и снимает прежний основной
// файл), затем делает ресайзы. Если запись в базу не удалась, файл удаляется.
// Ошибки ресайза не фатальны.
func (m *Manager) Upload(ctx context.Context, db *gorm.DB, rc audit.RequestContext, file FileInput, owner Owner, opts Options) (*models.Media, error) {
	if owner == nil || owner.GetID() == "" {
		return nil, apperrors.ErrInvalidOperation("media", "owner must be persisted before upload")
	}

	data, err := m.read(file)
	if err != nil {
		return nil, err
	}

	mimeType := m.detectMime(file.ContentType, data)
	if !m.allowed(mimeType) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"mime_type": mimeType})
	}

	fileName := FileName(file.Name, m.now())
	key := StoragePath(opts.Collection, owner.GetID(), fileName)

	if err := m.storage.Save(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		logger.StorageLog("save", key, err)
		return nil, apperrors.StorageError(err, "Failed to store file")
	}

	media := &models.Media{
		ModelType: owner.MediaOwnerType(),
		ModelID:   owner.GetID(),
		FilePath:  key,
		FileName:  fileName,
		MimeType:  mimeType,
		FileSize:  int64(len(data)),
		IsPrimary: opts.IsPrimary,
	}
	if !rc.IsSystem() {
		actor := rc.ActorID
		media.UploadedBy = &actor
	}

	// строка и снятие прежнего основного файла - одна единица работы
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := m.repo.Create(tx, media); err != nil {
			return err
		}
		if opts.IsPrimary {
			return m.repo.UnsetPrimary(tx, media.ModelType, media.ModelID, media.ID)
		}
		return nil
	})
	if err != nil {
		if delErr := m.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "failed to clean up orphaned upload", "key", key, "error", delErr)
		}
		return nil, apperrors.DatabaseError(err)
	}

	if opts.WithResize && media.IsImage() {
		m.makeVariants(ctx, media, data)
	}

	return media, nil
}

func (m *Manager) read(file FileInput) ([]byte, error) {
	if file.Open == nil {
		return nil, apperrors.ErrEmptyFile
	}
	if m.cfg.MaxSize > 0 && file.Size > m.cfg.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	var r io.Reader = src
	if m.cfg.MaxSize > 0 {
		r = io.LimitReader(src, m.cfg.MaxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("read upload: %w", err))
	}

	if len(data) == 0 {
		return nil, apperrors.ErrEmptyFile
	}
	if m.cfg.MaxSize > 0 && int64(len(data)) > m.cfg.MaxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	return data, nil
}

// detectMime оставляет тип клиента, если он есть, иначе определяет по содержимому
func (m *Manager) detectMime(clientType string, data []byte) string {
	clientType = strings.TrimSpace(clientType)
	if clientType != "" && clientType != "application/octet-stream" {
		return baseMime(clientType)
	}
	return baseMime(mimetype.Detect(data).String())
}

func baseMime(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

func (m *Manager) allowed(mimeType string) bool {
	if len(m.cfg.AllowedTypes) == 0 {
		return true
	}
	for _, t := range m.cfg.AllowedTypes {
		if t == mimeType {
			return true
		}
		// "image/*"
		if strings.HasSuffix(t, "/*") && strings.HasPrefix(mimeType, strings.TrimSuffix(t, "*")) {
			return true
		}
	}
	return false
}

func (m *Manager) makeVariants(ctx context.Context, media *models.Media, data []byte) {
	if !m.processor.Enabled() {
		logger.CtxWarn(ctx, "image processing unavailable, skipping resize", "media_id", media.ID)
		return
	}

	for _, size := range imageprocessor.Variants {
		res, err := m.processor.Resize(bytes.NewReader(data), size)
		if err != nil {
			logger.CtxWarn(ctx, "image resize skipped",
				"media_id", media.ID,
				"size", size.Name,
				"error", err,
			)
			// формат не поддерживается - остальные размеры тоже не выйдут
			if errors.Is(err, imageprocessor.ErrUnsupportedFormat) {
				return
			}
			continue
		}

		key := media.VariantPath(size.Name)
		if err := m.storage.Save(ctx, key, bytes.NewReader(res.Data), res.ContentType); err != nil {
			logger.CtxWarn(ctx, "failed to store image variant", "key", key, "error", err)
		}
	}
}

// ============================================
// Чтение
// ============================================

func (m *Manager) Find(db *gorm.DB, id string) (*models.Media, error) {
	media, err := m.repo.FindByID(db, id)
	if err != nil {
		return nil, handleMediaError(err)
	}
	return media, nil
}

// ForOwner - файлы владельца в порядке загрузки
func (m *Manager) ForOwner(db *gorm.DB, owner Owner) ([]models.Media, error) {
	items, err := m.repo.ForOwner(db, owner.MediaOwnerType(), owner.GetID())
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return items, nil
}

// PrimaryForOwner - основной файл, а если его нет, то первый загруженный
func (m *Manager) PrimaryForOwner(db *gorm.DB, owner Owner) (*models.Media, error) {
	items, err := m.ForOwner(db, owner)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	for i := range items {
		if items[i].IsPrimary {
			return &items[i], nil
		}
	}
	return &items[0], nil
}

// ============================================
// Удаление
// ============================================

// Delete удаляет оригинал, обе копии и только потом строку
func (m *Manager) Delete(ctx context.Context, db *gorm.DB, id string) error {
	media, err := m.repo.FindByID(db, id)
	if err != nil {
		return handleMediaError(err)
	}
	return m.remove(ctx, db, media)
}

// DeleteByIDs удаляет перечисленные файлы владельца, чужие id игнорируются
func (m *Manager) DeleteByIDs(ctx context.Context, db *gorm.DB, owner Owner, ids []string) error {
	items, err := m.repo.ByIDsForOwner(db, owner.MediaOwnerType(), owner.GetID(), ids)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	for i := range items {
		if err := m.remove(ctx, db, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteForOwner - каскадное удаление всех файлов владельца
func (m *Manager) DeleteForOwner(ctx context.Context, db *gorm.DB, owner Owner) error {
	items, err := m.ForOwner(db, owner)
	if err != nil {
		return err
	}
	for i := range items {
		if err := m.remove(ctx, db, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) remove(ctx context.Context, db *gorm.DB, media *models.Media) error {
	if err := m.storage.Delete(ctx, media.FilePath); err != nil {
		logger.StorageLog("delete", media.FilePath, err)
		return apperrors.StorageError(err, "Failed to delete file")
	}

	if media.IsImage() {
		for _, size := range imageprocessor.Variants {
			key := media.VariantPath(size.Name)
			if err := m.storage.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "failed to delete image variant", "key", key, "error", err)
			}
		}
	}

	if err := m.repo.Delete(db, media.ID); err != nil {
		return handleMediaError(err)
	}
	return nil
}

func handleMediaError(err error) error {
	if errors.Is(err, repositories.ErrMediaNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.DatabaseError(err)
}
