package apperrors

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - тело любого ответа с ошибкой: {"error": {...}}
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// debugMode задается из конфига при старте
var debugMode = false

// SetDebug - показывать ли клиенту причину 5xx ошибок
func SetDebug(debug bool) {
	debugMode = debug
}

// HandleError прерывает запрос и пишет ошибку. Не-AppError считаются внутренними.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 && !publicCodes[appErr.Code] {
		slog.Error("server error",
			"code", appErr.Code,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err.Error(),
		)
		appErr = publicServerError(appErr)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// publicCodes - 5xx ответы, которые клиент получает как есть, с деталями
var publicCodes = map[ErrorCode]bool{
	CodeMaintenance: true,
}

// publicServerError скрывает детали внутренних ошибок вне debug режима
func publicServerError(appErr *AppError) *AppError {
	if !debugMode {
		return New(appErr.Code, appErr.Domain, appErr.Message, appErr.HTTPCode)
	}
	if appErr.Err != nil && appErr.Details == nil {
		return appErr.WithDetails(appErr.Err.Error())
	}
	return appErr
}

// AsAppError достает *AppError из цепочки
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
