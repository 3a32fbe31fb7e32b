package apperrors

// ErrorCode - машинно-читаемый код в поле error.code ответа
type ErrorCode string

// Инфраструктура
const (
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeStorageError  ErrorCode = "STORAGE_ERROR"
)

// Данные и запросы
const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeUnsupportedQuery ErrorCode = "UNSUPPORTED_QUERY"
)

// Доступ
const (
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	CodeRegistrationClosed ErrorCode = "REGISTRATION_CLOSED"
	CodeAccountDeactivated ErrorCode = "ACCOUNT_DEACTIVATED"
)

// CodeMaintenance - сайт закрыт на обслуживание (503)
const CodeMaintenance ErrorCode = "MAINTENANCE"
