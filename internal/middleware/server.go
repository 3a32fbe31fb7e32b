package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fahadjdy/business-point/internal/audit"
	"github.com/fahadjdy/business-point/internal/config"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/pkg/apperrors"
	"github.com/fahadjdy/business-point/pkg/contextkeys"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware берет X-Request-ID клиента, если это UUID, иначе создает новый
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		log := logger.FromContext(c.Request.Context())
		fields := []any{
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", duration),
			slog.Int("size_bytes", c.Writer.Size()),
		}
		if c.Writer.Status() >= 500 {
			log.Error("HTTP Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			log.Warn("HTTP Client Error", fields...)
		} else {
			log.Info("HTTP Request", fields...)
		}
	}
}

// RecoveryMiddleware превращает panic в INTERNAL_ERROR с записью в лог
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.CtxError(c.Request.Context(), "panic recovered",
					"panic", fmt.Sprint(r),
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				apperrors.HandleError(c, apperrors.InternalError(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}

func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowAll := len(cfg.AllowedOrigins) == 0
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbKey := string(contextkeys.DBContextKey)
		tx, ok := c.Request.Context().Value(contextkeys.DBContextKey).(*gorm.DB)

		if ok && tx != nil {
			c.Set(dbKey, tx)
		} else {
			c.Set(dbKey, db.WithContext(c.Request.Context()))
		}

		c.Next()
	}
}

// SessionMiddleware - cookie-сессия веб-клиента (переносит access-токен)
func SessionMiddleware(cfg config.SessionConfig, secure bool) gin.HandlerFunc {
	secret := cfg.Secret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("SESSION_SECRET is not set, sessions will not survive restart")
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cfg.Name, store)
}

// MaintenanceChecker - источник режима обслуживания (SettingService)
type MaintenanceChecker interface {
	Maintenance(ctx context.Context, db *gorm.DB) (enabled bool, note string, err error)
}

// MaintenanceMiddleware отвечает 503 всем, кроме администраторов и
// путей из allow (вход, статус обслуживания)
func MaintenanceMiddleware(checker MaintenanceChecker, allow ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) == "admin" || hasAnyPrefix(c.Request.URL.Path, allow) {
			c.Next()
			return
		}

		db, _ := c.Get(string(contextkeys.DBContextKey))
		gdb, ok := db.(*gorm.DB)
		if !ok {
			c.Next()
			return
		}

		enabled, note, err := checker.Maintenance(c.Request.Context(), gdb)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "maintenance check failed", "error", err)
			c.Next()
			return
		}
		if enabled {
			apperrors.HandleError(c, apperrors.ErrMaintenance.WithDetails(gin.H{"maintenance_note": note}))
			return
		}
		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RequestContext собирает неизменяемый контекст запроса для аудита
func RequestContext(c *gin.Context) audit.RequestContext {
	return audit.RequestContext{
		RequestID: logger.GetRequestID(c.Request.Context()),
		ActorID:   GetUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		URL:       c.Request.URL.RequestURI(),
		Method:    c.Request.Method,
	}
}
