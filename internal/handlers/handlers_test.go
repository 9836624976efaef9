package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/middleware"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

// Shared test plumbing for the handler suites.

func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Handlers{
		DB:        db,
		JWTSecret: []byte("test-secret"),
		Env:       "development",
	}, mock
}

// asUser injects an already-authenticated user, standing in for the
// access-control gate.
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, user)
		c.Next()
	}
}

func storeUser(id int64) *models.User {
	name := "City Medical"
	return &models.User{ID: id, Role: models.RoleStore, Name: "Chris", Email: "c@x.com", StoreName: &name, IsActive: true}
}

func adminUser(id int64) *models.User {
	return &models.User{ID: id, Role: models.RoleMainAdmin, Name: "Admin", Email: "a@x.com", IsActive: true}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func jsonRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
