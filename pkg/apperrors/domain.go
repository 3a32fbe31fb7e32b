package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок бизнес-логики.
Репозитории возвращают свои sentinel-ошибки, сервисы переводят их сюда.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (оборачивание ошибок репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Фабричные ФУНКЦИИ (новые ошибки)
// =========================================================================

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных переходов статуса (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrUnsupportedQuery - фильтр или сортировка, которые движок запросов не поддерживает (400)
func ErrUnsupportedQuery(message string) *AppError {
	return New(CodeUnsupportedQuery, "query", message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid login or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrRegistrationClosed - самостоятельная регистрация выключена настройкой
var ErrRegistrationClosed = New(
	CodeRegistrationClosed,
	"auth",
	"Self registration is disabled",
	http.StatusForbidden,
)

var ErrAccountDeactivated = New(
	CodeAccountDeactivated,
	"auth",
	"Account is deactivated",
	http.StatusForbidden,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token has expired",
	http.StatusUnauthorized,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"user",
	"Email is already in use",
	http.StatusConflict,
)

// --- Vendors ---

// ErrVendorAlreadyRegistered - у пользователя уже есть профиль вендора
var ErrVendorAlreadyRegistered = New(
	CodeAlreadyExists,
	"vendor",
	"Vendor profile already exists for this user",
	http.StatusConflict,
)

// ErrSameVerificationStatus - повторная установка того же статуса
var ErrSameVerificationStatus = New(
	CodeInvalidStatus,
	"vendor",
	"Vendor already has this verification status",
	http.StatusBadRequest,
)

// --- Media & Files ---

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"media",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"media",
	"File type is not allowed",
	http.StatusUnsupportedMediaType,
)

var ErrEmptyFile = New(
	CodeValidationFailed,
	"media",
	"File is empty",
	http.StatusBadRequest,
)

// --- Tags ---

var ErrTagSlugTaken = New(
	CodeAlreadyExists,
	"tag",
	"Tag slug is already taken",
	http.StatusConflict,
)

// --- Categories ---

var ErrCategorySlugTaken = New(
	CodeAlreadyExists,
	"category",
	"Category slug is already taken",
	http.StatusConflict,
)

// --- Settings ---

// ErrMaintenance - сайт на обслуживании; Details содержит заметку для пользователя
var ErrMaintenance = New(
	CodeMaintenance,
	"settings",
	"Service is under maintenance",
	http.StatusServiceUnavailable,
)
