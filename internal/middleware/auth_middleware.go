package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/auth"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

// Context key under which the authenticated user is stored.
const ContextUserKey = "currentUser"

// CurrentUser pulls the authenticated user out of the Gin context.
// It only returns ok=false if AuthMiddleware did not run.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok
}

// AuthMiddleware is the access-control gate run on every protected route.
//
// It extracts the bearer token, verifies signature and expiry, resolves the
// claimed user against the users table, rejects deactivated accounts, and
// attaches the loaded user to the request context for downstream handlers.
func AuthMiddleware(db *sql.DB, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 2. --- Validate Token ---
		userID, err := auth.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			c.Abort()
			return
		}

		// 3. --- Resolve the User ---
		var user models.User
		query := `
			SELECT id, role, name, email, password_hash, store_name, phone, address, is_active, created_at, updated_at
			FROM users WHERE id = ?`
		err = db.QueryRow(query, userID).Scan(
			&user.ID, &user.Role, &user.Name, &user.Email, &user.PasswordHash,
			&user.StoreName, &user.Phone, &user.Address, &user.IsActive,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			}
			c.Abort()
			return
		}

		// 4. --- Reject Deactivated Accounts ---
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Account is deactivated"})
			c.Abort()
			return
		}

		// 5. --- Success ---
		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// RequireAdmin rejects any authenticated request whose role is not an admin
// tier. Must be mounted after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		if !user.Role.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
