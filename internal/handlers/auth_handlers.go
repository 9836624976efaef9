package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/auth"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/middleware"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

//
// --- Auth Handlers ---
//

// RegisterInput defines the expected JSON data for store registration.
// The 'binding' tags are validated by Gin before the handler body runs.
type RegisterInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	StoreName string `json:"storeName" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// userResponse is the trimmed user shape returned alongside tokens.
// The password hash never leaves the server.
type userResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	StoreName *string     `json:"storeName,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		StoreName: u.StoreName,
	}
}

// Register is the handler for POST /api/auth/register.
// Self-registration always creates a store-owner account; admin accounts are
// only created through the admin user management endpoints.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// 2. --- Check for Duplicate Email ---
	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM users WHERE email = ?", input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
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

	// 4. --- Create the User ---
	now := time.Now()
	user := &models.User{
		Role:         models.RoleStore,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: password.Hash,
		StoreName:    &input.StoreName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}
	if input.Address != "" {
		user.Address = &input.Address
	}

	query := `
		INSERT INTO users (role, name, email, password_hash, store_name, phone, address, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query,
		user.Role, user.Name, user.Email, user.PasswordHash,
		user.StoreName, user.Phone, user.Address, user.IsActive,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		// Two concurrent registrations can both pass the existence check;
		// the unique index on email catches the loser.
		if isDuplicateEntry(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
			return
		}
		h.serverError(c, err)
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		h.serverError(c, err)
		return
	}
	user.ID = id

	// 5. --- Issue a Token ---
	token, err := auth.GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// LoginInput defines the expected JSON data for login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// 2. --- Look Up the User ---
	var user models.User
	query := `
		SELECT id, role, name, email, password_hash, store_name, phone, address, is_active, created_at, updated_at
		FROM users WHERE email = ?`
	err := h.DB.QueryRow(query, input.Email).Scan(
		&user.ID, &user.Role, &user.Name, &user.Email, &user.PasswordHash,
		&user.StoreName, &user.Phone, &user.Address, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Same message as a bad password, so the endpoint does not leak
			// which emails exist.
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.serverError(c, err)
		return
	}

	// 3. --- Verify the Password ---
	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	// 4. --- Reject Deactivated Accounts ---
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Account is deactivated"})
		return
	}

	// 5. --- Issue a Token ---
	token, err := auth.GenerateToken(user.ID, h.JWTSecret)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toUserResponse(&user),
	})
}

// Me is the handler for GET /api/auth/me. The access-control gate has
// already resolved and attached the caller.
func (h *Handlers) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
