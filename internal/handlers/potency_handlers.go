package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

//
// --- Potency Handlers ---
//
// Potencies are a small lookup table (e.g. "30C", "200C", "1M") following the
// same soft-delete lifecycle as products.
//

// GetPotencies is the handler for GET /api/potencies.
func (h *Handlers) GetPotencies(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, name, description, is_active, created_at, updated_at
		FROM potencies WHERE is_active = TRUE ORDER BY name ASC`)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	potencies := []models.Potency{}
	for rows.Next() {
		var p models.Potency
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			h.serverError(c, err)
			return
		}
		potencies = append(potencies, p)
	}

	c.JSON(http.StatusOK, potencies)
}

// PotencyInput defines the JSON body for creating or updating a potency.
type PotencyInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreatePotency is the handler for POST /api/potencies (admin-only).
func (h *Handlers) CreatePotency(c *gin.Context) {
	var input PotencyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	now := time.Now()
	p := models.Potency{
		Name:      input.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != "" {
		p.Description = &input.Description
	}

	result, err := h.DB.Exec(`
		INSERT INTO potencies (name, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		h.serverError(c, err)
		return
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// UpdatePotency is the handler for PUT /api/potencies/:id (admin-only).
func (h *Handlers) UpdatePotency(c *gin.Context) {
	var input PotencyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Checked up front: a value-identical update also affects 0 rows, so
	// RowsAffected cannot be used as a not-found signal.
	var exists bool
	if err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM potencies WHERE id = ?)", c.Param("id")).Scan(&exists); err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Potency not found"})
		return
	}

	var description *string
	if input.Description != "" {
		description = &input.Description
	}

	if _, err := h.DB.Exec(`
		UPDATE potencies SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		input.Name, description, time.Now(), c.Param("id"),
	); err != nil {
		h.serverError(c, err)
		return
	}

	var p models.Potency
	err := h.DB.QueryRow(`
		SELECT id, name, description, is_active, created_at, updated_at
		FROM potencies WHERE id = ?`, c.Param("id")).
		Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeletePotency is the handler for DELETE /api/potencies/:id (admin-only).
// Soft delete, idempotent like the other catalog deletes.
func (h *Handlers) DeletePotency(c *gin.Context) {
	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM potencies WHERE id = ?)", c.Param("id")).Scan(&exists)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Potency not found"})
		return
	}

	if _, err := h.DB.Exec("UPDATE potencies SET is_active = FALSE, updated_at = ? WHERE id = ?", time.Now(), c.Param("id")); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Potency deleted"})
}
