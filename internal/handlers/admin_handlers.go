package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

//
// --- Admin User Management ---
//
// Unlike self-registration, these endpoints can create and edit accounts of
// any role, including the admin tiers.
//

// GetUsers is the handler for GET /api/admin/users.
func (h *Handlers) GetUsers(c *gin.Context) {
	rows, err := h.DB.Query("SELECT " + userColumns + " FROM users ORDER BY created_at DESC")
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			h.serverError(c, err)
			return
		}
		users = append(users, u)
	}

	c.JSON(http.StatusOK, users)
}

// CreateUserInput defines the JSON body for admin user creation.
type CreateUserInput struct {
	Name      string      `json:"name" binding:"required"`
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=8"`
	Role      models.Role `json:"role" binding:"required"`
	StoreName string      `json:"storeName"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
}

// CreateUser is the handler for POST /api/admin/users.
func (h *Handlers) CreateUser(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !input.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
		return
	}

	// 2. --- Check for Duplicate Email ---
	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM users WHERE email = ?", input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
		return
	}
	if err != sql.ErrNoRows {
		h.serverError(c, err)
		return
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		h.serverError(c, err)
		return
	}

	// 4. --- Insert ---
	now := time.Now()
	u := models.User{
		Role:         input.Role,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: password.Hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.StoreName != "" {
		u.StoreName = &input.StoreName
	}
	if input.Phone != "" {
		u.Phone = &input.Phone
	}
	if input.Address != "" {
		u.Address = &input.Address
	}

	result, err := h.DB.Exec(`
		INSERT INTO users (role, name, email, password_hash, store_name, phone, address, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Role, u.Name, u.Email, u.PasswordHash, u.StoreName, u.Phone,
		u.Address, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
			return
		}
		h.serverError(c, err)
		return
	}

	u.ID, err = result.LastInsertId()
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// UpdateUserInput defines the JSON body for admin user edits.
// Password is optional; when present it is rehashed.
type UpdateUserInput struct {
	Name      string      `json:"name" binding:"required"`
	Email     string      `json:"email" binding:"required,email"`
	Role      models.Role `json:"role" binding:"required"`
	Password  string      `json:"password"`
	StoreName string      `json:"storeName"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
}

// UpdateUser is the handler for PUT /api/admin/users/:id.
func (h *Handlers) UpdateUser(c *gin.Context) {
	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !input.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
		return
	}

	// Checked before the update: a value-identical update also affects 0
	// rows, so RowsAffected cannot distinguish missing from unchanged.
	var exists bool
	if err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", c.Param("id")).Scan(&exists); err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	var storeName, phone, address *string
	if input.StoreName != "" {
		storeName = &input.StoreName
	}
	if input.Phone != "" {
		phone = &input.Phone
	}
	if input.Address != "" {
		address = &input.Address
	}

	var err error
	if input.Password != "" {
		var password models.Password
		if err := password.Set(input.Password); err != nil {
			h.serverError(c, err)
			return
		}
		_, err = h.DB.Exec(`
			UPDATE users
			SET role = ?, name = ?, email = ?, password_hash = ?, store_name = ?, phone = ?, address = ?, updated_at = ?
			WHERE id = ?`,
			input.Role, input.Name, input.Email, password.Hash,
			storeName, phone, address, time.Now(), c.Param("id"),
		)
	} else {
		_, err = h.DB.Exec(`
			UPDATE users
			SET role = ?, name = ?, email = ?, store_name = ?, phone = ?, address = ?, updated_at = ?
			WHERE id = ?`,
			input.Role, input.Name, input.Email,
			storeName, phone, address, time.Now(), c.Param("id"),
		)
	}
	if err != nil {
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

// DeleteUser is the handler for DELETE /api/admin/users/:id.
// Accounts are never hard-deleted: this flips is_active false and is
// idempotent on already-deactivated accounts.
func (h *Handlers) DeleteUser(c *gin.Context) {
	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", c.Param("id")).Scan(&exists)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if _, err := h.DB.Exec("UPDATE users SET is_active = FALSE, updated_at = ? WHERE id = ?", time.Now(), c.Param("id")); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}
