package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/storage"
	"github.com/fahadjdy/business-point/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler отдает загруженные файлы по ключу хранилища и
// позволяет администратору удалить медиа-запись вместе с файлами
type FileHandler struct {
	*BaseHandler
	media *media.Manager
}

func NewFileHandler(base *BaseHandler, mediaManager *media.Manager) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		media:       mediaManager,
	}
}

func (h *FileHandler) RegisterRoutes(g RouteGroups) {
	files := g.Public.Group("/files")
	{
		files.GET("/*path", h.ServeFile)
		files.HEAD("/*path", h.CheckFileExists)
	}

	admin := g.Admin.Group("/media")
	{
		admin.GET("/:id", h.GetMedia)
		admin.DELETE("/:id", h.DeleteMedia)
	}
}

// ServeFile - GET /files/{collection}/{owner_id}/{filename}
func (h *FileHandler) ServeFile(c *gin.Context) {
	key, ok := h.fileKey(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	store := h.media.Storage()

	reader, err := store.Get(ctx, key)
	if err != nil {
		h.handleStorageError(c, err)
		return
	}
	defer reader.Close()

	if size, err := store.GetSize(ctx, key); err == nil {
		c.Header("Content-Length", strconv.FormatInt(size, 10))
	}
	c.Header("Content-Type", contentTypeFor(key))
	c.Header("Cache-Control", "public, max-age=31536000")
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	} else {
		c.Header("Content-Disposition", "inline")
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// заголовки уже отправлены
		logger.CtxWarn(ctx, "file streaming interrupted", "key", key, "error", err)
	}
}

func (h *FileHandler) CheckFileExists(c *gin.Context) {
	key, ok := h.fileKey(c)
	if !ok {
		return
	}
	exists, err := h.media.Storage().Exists(c.Request.Context(), key)
	if err != nil {
		h.handleStorageError(c, err)
		return
	}
	if !exists {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Content-Type", contentTypeFor(key))
	c.Status(http.StatusOK)
}

func (h *FileHandler) fileKey(c *gin.Context) (string, bool) {
	key, err := storage.CleanKey(c.Param("path"))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return "", false
	}
	return key, true
}

func (h *FileHandler) handleStorageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		apperrors.HandleError(c, apperrors.New(apperrors.CodeNotFound, "media", "File not found", http.StatusNotFound))
	case errors.Is(err, storage.ErrInvalidKey):
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
	default:
		h.HandleServiceError(c, apperrors.StorageError(err, "Failed to read file"))
	}
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ============================================
// Медиа (admin)
// ============================================

func (h *FileHandler) GetMedia(c *gin.Context) {
	ctx := c.Request.Context()
	item, err := h.media.Find(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	view, err := h.media.Present(ctx, item)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteMedia удаляет файлы (оригинал и копии), затем строку
func (h *FileHandler) DeleteMedia(c *gin.Context) {
	if err := h.media.Delete(c.Request.Context(), h.GetDB(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
