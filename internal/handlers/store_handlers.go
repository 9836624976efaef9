package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

//
// --- Store Handlers (Admin-Only) ---
//
// Stores are user rows with role = 'store'. These endpoints manage them
// without ever touching passwords; credential changes go through the admin
// user management endpoints.
//

const userColumns = "id, role, name, email, password_hash, store_name, phone, address, is_active, created_at, updated_at"

func scanUser(row interface{ Scan(...interface{}) error }, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Role, &u.Name, &u.Email, &u.PasswordHash, &u.StoreName,
		&u.Phone, &u.Address, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
}

// GetStores is the handler for GET /api/stores.
func (h *Handlers) GetStores(c *gin.Context) {
	rows, err := h.DB.Query("SELECT "+userColumns+" FROM users WHERE role = ? ORDER BY name ASC", models.RoleStore)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	stores := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			h.serverError(c, err)
			return
		}
		stores = append(stores, u)
	}

	c.JSON(http.StatusOK, stores)
}

// GetStore is the handler for GET /api/stores/:id.
func (h *Handlers) GetStore(c *gin.Context) {
	var u models.User
	err := scanUser(h.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", c.Param("id")), &u)
	if err != nil && err != sql.ErrNoRows {
		h.serverError(c, err)
		return
	}
	if err == sql.ErrNoRows || u.Role != models.RoleStore {
		c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateStoreInput defines the JSON body for editing a store's profile.
type UpdateStoreInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	StoreName string `json:"storeName" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// UpdateStore is the handler for PUT /api/stores/:id.
func (h *Handlers) UpdateStore(c *gin.Context) {
	var input UpdateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Existence is checked first; MySQL reports 0 affected rows for a
	// value-identical update, so RowsAffected is not a not-found signal.
	var exists bool
	if err := h.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = ? AND role = ?)",
		c.Param("id"), models.RoleStore).Scan(&exists); err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
		return
	}

	var phone, address *string
	if input.Phone != "" {
		phone = &input.Phone
	}
	if input.Address != "" {
		address = &input.Address
	}

	if _, err := h.DB.Exec(`
		UPDATE users
		SET name = ?, email = ?, store_name = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ? AND role = ?`,
		input.Name, input.Email, input.StoreName, phone, address,
		time.Now(), c.Param("id"), models.RoleStore,
	); err != nil {
		if isDuplicateEntry(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
			return
		}
		h.serverError(c, err)
		return
	}

	var u models.User
	if err := scanUser(h.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", c.Param("id")), &u); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateStoreStatusInput toggles a store's activation flag.
type UpdateStoreStatusInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UpdateStoreStatus is the handler for PUT /api/stores/:id/status.
// Deactivation is the soft delete for accounts; re-running it on an already
// inactive store is a no-op that still succeeds.
func (h *Handlers) UpdateStoreStatus(c *gin.Context) {
	var input UpdateStoreStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var exists bool
	err := h.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = ? AND role = ?)",
		c.Param("id"), models.RoleStore).Scan(&exists)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
		return
	}

	if _, err := h.DB.Exec(
		"UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?",
		*input.IsActive, time.Now(), c.Param("id"),
	); err != nil {
		h.serverError(c, err)
		return
	}

	var u models.User
	if err := scanUser(h.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", c.Param("id")), &u); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}
