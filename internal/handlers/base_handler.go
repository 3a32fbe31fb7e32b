package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/media"
	"github.com/fahadjdy/business-point/internal/middleware"
	"github.com/fahadjdy/business-point/internal/query"
	"github.com/fahadjdy/business-point/internal/services/dto"
	"github.com/fahadjdy/business-point/internal/validator"
	"github.com/fahadjdy/business-point/pkg/apperrors"
	"github.com/fahadjdy/business-point/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// RouteGroups - группы маршрутов, в которые хэндлеры добавляют свои пути
type RouteGroups struct {
	Public *gin.RouterGroup // без авторизации
	Authed *gin.RouterGroup // любой вошедший пользователь
	Admin  *gin.RouterGroup // роль admin, префикс /admin
}

// ============================================================================
// 2. Контекст запроса
// ============================================================================

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// RequestContext - контекст аудита текущего запроса
func (h *BaseHandler) RequestContext(c *gin.Context) audit.RequestContext {
	return middleware.RequestContext(c)
}

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	return userID, true
}

// ============================================================================
// 3. Привязка и валидация
// ============================================================================

// payloadField - JSON-поле multipart-формы для запросов со вложенными данными
const payloadField = "payload"

// BindAndValidate_JSON привязывает тело запроса. Для multipart-форм
// с полем payload тело берется из него, иначе из полей формы.
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.bind(c, obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind request body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	return h.validate(c, obj)
}

func (h *BaseHandler) bind(c *gin.Context, obj interface{}) error {
	if isMultipart(c) {
		if raw := c.PostForm(payloadField); raw != "" {
			return json.Unmarshal([]byte(raw), obj)
		}
	}
	return c.ShouldBind(obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// ============================================================================
// 4. Файлы
// ============================================================================

// FormFile - необязательный файл из multipart-формы
func (h *BaseHandler) FormFile(c *gin.Context, field string) *media.FileInput {
	if !isMultipart(c) {
		return nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	file := media.FromMultipart(fh)
	return &file
}

// FormFiles - все файлы поля (field и field[])
func (h *BaseHandler) FormFiles(c *gin.Context, field string) []media.FileInput {
	if !isMultipart(c) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var files []media.FileInput
	for _, key := range []string{field, field + "[]"} {
		for _, fh := range form.File[key] {
			files = append(files, media.FromMultipart(fh))
		}
	}
	return files
}

// ============================================================================
// 5. Ошибки
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// ============================================================================
// 6. Параметры запроса
// ============================================================================

const (
	paramWithTrashed = "with_trashed"
	paramOnlyTrashed = "only_trashed"
)

// ParseSpec разбирает строку запроса в query.Spec по схеме.
// Ключи из skip не считаются фильтрами.
func (h *BaseHandler) ParseSpec(c *gin.Context, schema *query.Schema, skip ...string) (query.Spec, bool) {
	params := query.Values(c.Request.URL.Query())
	for _, key := range append(skip, paramWithTrashed, paramOnlyTrashed) {
		delete(params, key)
	}

	spec, err := query.Parse(params, schema)
	if err != nil {
		h.HandleServiceError(c, err)
		return query.Spec{}, false
	}
	return spec, true
}

// ParseAdminSpec - то же, плюс with_trashed / only_trashed
func (h *BaseHandler) ParseAdminSpec(c *gin.Context, schema *query.Schema, skip ...string) (query.Spec, bool) {
	spec, ok := h.ParseSpec(c, schema, skip...)
	if !ok {
		return spec, false
	}
	spec.IncludeDeleted = ParseQueryBool(c, paramWithTrashed)
	spec.OnlyDeleted = ParseQueryBool(c, paramOnlyTrashed)
	return spec, true
}

// DeleteReason - причина удаления из тела {"reason": ...} или ?reason=
func (h *BaseHandler) DeleteReason(c *gin.Context) string {
	if c.Request.ContentLength > 0 {
		var req dto.DeleteRequest
		if err := c.ShouldBindJSON(&req); err == nil && req.Reason != "" {
			return req.Reason
		}
	}
	return c.Query("reason")
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParseQueryBool(c *gin.Context, key string) bool {
	value, err := strconv.ParseBool(c.Query(key))
	return err == nil && value
}
