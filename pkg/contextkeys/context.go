package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - *gorm.DB (или открытая транзакция) текущего запроса
	DBContextKey = contextKey("db")
	// RequestContextKey - audit.RequestContext текущего запроса
	RequestContextKey = contextKey("request_context")
)

// Ключи gin.Context, которые выставляет AuthMiddleware
const (
	UserIDKey = "userID"
	RoleKey   = "role"
)
