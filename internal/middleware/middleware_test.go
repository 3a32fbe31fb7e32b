package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fahadjdy/business-point/internal/auth"
	"github.com/fahadjdy/business-point/internal/logger"
	"github.com/fahadjdy/business-point/internal/middleware"
	"github.com/fahadjdy/business-point/internal/models"
	"github.com/fahadjdy/business-point/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubMaintenance struct {
	enabled bool
	err     error
}

func (s stubMaintenance) Maintenance(context.Context, *gorm.DB) (bool, string, error) {
	return s.enabled, "back soon", s.err
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetUserID(c)})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(tokens), ok)

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/me", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := tokens.GenerateToken("user-1", auth.RoleUser)
		require.NoError(t, err)

		w := serve(r, http.MethodGet, "/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-1")
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.GET("/admin", middleware.AuthMiddleware(tokens), middleware.RequireRoles(models.UserRoleAdmin), ok)

	userToken, _, err := tokens.GenerateToken("user-1", auth.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tokens.GenerateToken("admin-1", auth.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", userToken).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", adminToken).Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.GetRequestID(c.Request.Context()))
	})

	t.Run("keeps client uuid", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", id)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, id, w.Header().Get("X-Request-ID"))
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("replaces junk", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "<script>")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get("X-Request-ID")
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
		assert.Equal(t, got, w.Body.String())
	})
}

func TestMaintenanceMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	newRouter := func(checker middleware.MaintenanceChecker) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
			c.Next()
		})
		r.Use(middleware.OptionalAuth(tokens))
		r.Use(middleware.MaintenanceMiddleware(checker, "/auth/login"))
		r.GET("/contacts", ok)
		r.POST("/auth/login", ok)
		return r
	}

	t.Run("blocks guests", func(t *testing.T) {
		w := serve(newRouter(stubMaintenance{enabled: true}), http.MethodGet, "/contacts", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "back soon")
	})

	t.Run("allow list passes", func(t *testing.T) {
		w := serve(newRouter(stubMaintenance{enabled: true}), http.MethodPost, "/auth/login", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admins pass", func(t *testing.T) {
		token, _, err := tokens.GenerateToken("admin-1", auth.RoleAdmin)
		require.NoError(t, err)
		w := serve(newRouter(stubMaintenance{enabled: true}), http.MethodGet, "/contacts", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("checker failure lets request through", func(t *testing.T) {
		w := serve(newRouter(stubMaintenance{err: errors.New("db down")}), http.MethodGet, "/contacts", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		w := serve(newRouter(stubMaintenance{}), http.MethodGet, "/contacts", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
