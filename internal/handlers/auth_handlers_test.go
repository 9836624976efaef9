package handlers

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/auth"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

const loginSelectPattern = `SELECT id, role, name, email, password_hash, store_name, phone, address, is_active, created_at, updated_at\s+FROM users WHERE email = \?`

func loginRow(t *testing.T, id int64, role models.Role, plaintext string, active bool) *sqlmock.Rows {
	t.Helper()
	var p models.Password
	require.NoError(t, p.Set(plaintext))

	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "role", "name", "email", "password_hash", "store_name",
		"phone", "address", "is_active", "created_at", "updated_at",
	}).AddRow(id, role, "Chris", "c@x.com", p.Hash, "City Medical", nil, nil, active, now, now)
}

func TestRegisterCreatesStoreAccount(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/register", h.Register)

	mock.ExpectQuery(`SELECT id FROM users WHERE email = \?`).
		WithArgs("c@x.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(models.RoleStore, "Chris", "c@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name":      "Chris",
		"email":     "c@x.com",
		"password":  "password1",
		"storeName": "City Medical",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "store", user["role"])
	assert.Equal(t, "City Medical", user["storeName"])
	assert.NoError(t, mock.ExpectationsWereMet())

	// The issued token resolves back to the new account.
	userID, err := auth.ValidateToken(body["token"].(string), h.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(1), userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/register", h.Register)

	mock.ExpectQuery(`SELECT id FROM users WHERE email = \?`).
		WithArgs("c@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name":      "Chris",
		"email":     "c@x.com",
		"password":  "password1",
		"storeName": "City Medical",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/register", h.Register)

	// Password under the minimum length never reaches the database.
	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name":      "Chris",
		"email":     "c@x.com",
		"password":  "short",
		"storeName": "City Medical",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginSuccess(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/login", h.Login)

	mock.ExpectQuery(loginSelectPattern).WithArgs("c@x.com").
		WillReturnRows(loginRow(t, 7, models.RoleStore, "password1", true))

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "c@x.com",
		"password": "password1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])

	userID, err := auth.ValidateToken(body["token"].(string), h.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/login", h.Login)

	mock.ExpectQuery(loginSelectPattern).WithArgs("c@x.com").
		WillReturnRows(loginRow(t, 7, models.RoleStore, "password1", true))

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "c@x.com",
		"password": "not-the-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLoginUnknownEmail(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/login", h.Login)

	mock.ExpectQuery(loginSelectPattern).WithArgs("nobody@x.com").WillReturnError(sql.ErrNoRows)

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "nobody@x.com",
		"password": "password1",
	})

	// Same message as a bad password.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestLoginDeactivatedAccount(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/login", h.Login)

	mock.ExpectQuery(loginSelectPattern).WithArgs("c@x.com").
		WillReturnRows(loginRow(t, 7, models.RoleStore, "password1", false))

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"email":    "c@x.com",
		"password": "password1",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Account is deactivated")
}

func TestMeReturnsCurrentUser(t *testing.T) {
	h, _ := newTestHandlers(t)
	router := newTestRouter()
	router.GET("/api/auth/me", asUser(storeUser(7)), h.Me)

	w := jsonRequest(t, router, http.MethodGet, "/api/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, float64(7), user["id"])
	assert.Equal(t, "store", user["role"])
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.POST("/api/auth/register", h.Register)

	// A concurrent registration can slip in between the email check and the
	// INSERT; the unique index violation is reported like any duplicate.
	mock.ExpectQuery(`SELECT id FROM users WHERE email = \?`).
		WithArgs("c@x.com").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	w := jsonRequest(t, router, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name":      "Chris",
		"email":     "c@x.com",
		"password":  "password1",
		"storeName": "City Medical",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}
