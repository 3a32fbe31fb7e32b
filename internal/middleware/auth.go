package middleware

import (
	"errors"
	"strings"

	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/pkg/apperrors"
	"github.com/fahadjdy/business-point/pkg/contextkeys"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Ключ сессии, в котором лежит access-токен веб-клиента
const sessionTokenKey = "access_token"

// AuthMiddleware - middleware проверки JWT.
// Токен берется из заголовка Authorization, иначе из сессии.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, tokens)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		if claims == nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth выставляет пользователя, если токен есть и валиден,
// и пропускает запрос дальше в любом случае
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := authenticate(c, tokens); err == nil && claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// authenticate возвращает (nil, nil), если токена нет совсем
func authenticate(c *gin.Context, tokens *auth.TokenManager) (*auth.Claims, error) {
	tokenStr := bearerToken(c)
	if tokenStr == "" {
		tokenStr = sessionToken(c)
	}
	if tokenStr == "" {
		return nil, nil
	}

	claims, err := tokens.ParseToken(tokenStr)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func sessionToken(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	token, _ := sessions.Default(c).Get(sessionTokenKey).(string)
	return token
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(contextkeys.UserIDKey, claims.UserID)
	c.Set(contextkeys.RoleKey, claims.Role)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

// RequireRoles - пропускает только указанные роли
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: no role"))
			return
		}
		if !roleSet[role] {
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// AdminMiddleware - сокращение для RequireRoles(admin)
func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles(models.UserRoleAdmin)
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	id, _ := c.Get(contextkeys.UserIDKey)
	s, _ := id.(string)
	return s
}

func GetRole(c *gin.Context) models.UserRole {
	role, _ := c.Get(contextkeys.RoleKey)
	s, _ := role.(string)
	return models.UserRole(s)
}

// SaveSessionToken кладет токен в cookie-сессию (веб-клиент)
func SaveSessionToken(c *gin.Context, token string) error {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	sess := sessions.Default(c)
	sess.Set(sessionTokenKey, token)
	return sess.Save()
}

func ClearSession(c *gin.Context) error {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}
