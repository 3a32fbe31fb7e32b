package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/contacts", nil)
	HandleError(c, err)
	return w
}

func TestHandleError(t *testing.T) {
	SetDebug(false)
	t.Cleanup(func() { SetDebug(false) })

	t.Run("maintenance keeps its note", func(t *testing.T) {
		w := respond(ErrMaintenance.WithDetails(map[string]string{"maintenance_note": "back soon"}))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"MAINTENANCE"`)
		assert.Contains(t, w.Body.String(), "back soon")
	})

	t.Run("database error hides details", func(t *testing.T) {
		w := respond(DatabaseError(errors.New("pq: relation users does not exist")).WithDetails("select * from users"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "DATABASE_ERROR")
		assert.NotContains(t, w.Body.String(), "select")
		assert.NotContains(t, w.Body.String(), "pq:")
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		w := respond(errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.NotContains(t, w.Body.String(), "boom")
	})

	t.Run("client errors pass through", func(t *testing.T) {
		w := respond(FieldError("name", "name is required"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name is required")
	})

	t.Run("debug shows cause", func(t *testing.T) {
		SetDebug(true)
		defer SetDebug(false)

		w := respond(InternalError(errors.New("boom")))
		assert.Contains(t, w.Body.String(), "boom")
	})
}
