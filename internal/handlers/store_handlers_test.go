package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeRow(active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "role", "name", "email", "password_hash", "store_name",
		"phone", "address", "is_active", "created_at", "updated_at",
	}).AddRow(3, "store", "Chris", "c@x.com", []byte("hash"), "City Medical", nil, nil, active, now, now)
}

func TestGetStoresListsStoreRoleOnly(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.GET("/api/stores", asUser(adminUser(1)), h.GetStores)

	mock.ExpectQuery(`FROM users WHERE role = \?`).
		WithArgs("store").
		WillReturnRows(storeRow(true))

	w := jsonRequest(t, router, http.MethodGet, "/api/stores", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "City Medical")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStoreRejectsNonStoreAccount(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.GET("/api/stores/:id", asUser(adminUser(1)), h.GetStore)

	now := time.Now()
	adminRow := sqlmock.NewRows([]string{
		"id", "role", "name", "email", "password_hash", "store_name",
		"phone", "address", "is_active", "created_at", "updated_at",
	}).AddRow(2, "sub_admin", "Sam", "s@x.com", []byte("hash"), nil, nil, nil, true, now, now)

	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WillReturnRows(adminRow)

	// The row exists but is an admin account, not a store.
	w := jsonRequest(t, router, http.MethodGet, "/api/stores/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Store not found")
}

func TestUpdateStoreUnchangedValuesStillSucceeds(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.PUT("/api/stores/:id", asUser(adminUser(1)), h.UpdateStore)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("3", "store").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	// Resubmitting the same profile affects 0 rows; still a 200.
	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WillReturnRows(storeRow(true))

	w := jsonRequest(t, router, http.MethodPut, "/api/stores/3", map[string]interface{}{
		"name":      "Chris",
		"email":     "c@x.com",
		"storeName": "City Medical",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "City Medical")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStoreNotFound(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.PUT("/api/stores/:id", asUser(adminUser(1)), h.UpdateStore)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := jsonRequest(t, router, http.MethodPut, "/api/stores/99", map[string]interface{}{
		"name":      "Ghost",
		"email":     "g@x.com",
		"storeName": "Nowhere",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStoreStatusDeactivationIsIdempotent(t *testing.T) {
	h, mock := newTestHandlers(t)
	router := newTestRouter()
	router.PUT("/api/stores/:id/status", asUser(adminUser(1)), h.UpdateStoreStatus)

	// Deactivating an already inactive store still succeeds.
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("3", "store").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectExec(`UPDATE users SET is_active = \?`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`FROM users WHERE id = \?`).
			WillReturnRows(storeRow(false))

		w := jsonRequest(t, router, http.MethodPut, "/api/stores/3/status", map[string]interface{}{
			"isActive": false,
		})

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.False(t, body["isActive"].(bool))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
