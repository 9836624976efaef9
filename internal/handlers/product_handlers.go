package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

//
// --- Product Handlers ---
//

const productColumns = "id, name, slug, category, potency, quantity, price, description, is_active, created_at, updated_at"

func scanProduct(row interface{ Scan(...interface{}) error }, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Category, &p.Potency, &p.Quantity,
		&p.Price, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
}

// GetProducts is the handler for GET /api/products.
// Only active products are listed; soft-deleted ones stay hidden.
func (h *Handlers) GetProducts(c *gin.Context) {
	rows, err := h.DB.Query("SELECT " + productColumns + " FROM products WHERE is_active = TRUE ORDER BY name ASC")
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			h.serverError(c, err)
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct is the handler for GET /api/products/:id.
// Inactive products are still fetchable by ID so historical order lines can
// resolve their product.
func (h *Handlers) GetProduct(c *gin.Context) {
	var p models.Product
	err := scanProduct(h.DB.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", c.Param("id")), &p)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ProductInput defines the JSON body for creating or updating a product.
type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Potency     string  `json:"potency"`
	Quantity    int     `json:"quantity" binding:"min=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// CreateProduct is the handler for POST /api/products (admin-only).
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	now := time.Now()
	p := models.Product{
		Name:      input.Name,
		Slug:      slug.Make(input.Name),
		Category:  input.Category,
		Quantity:  input.Quantity,
		Price:     input.Price,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Potency != "" {
		p.Potency = &input.Potency
	}
	if input.Description != "" {
		p.Description = &input.Description
	}

	query := `
		INSERT INTO products (name, slug, category, potency, quantity, price, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := h.DB.Exec(query,
		p.Name, p.Slug, p.Category, p.Potency, p.Quantity, p.Price,
		p.Description, p.IsActive, p.CreatedAt, p.UpdatedAt,
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

// UpdateProduct is the handler for PUT /api/products/:id (admin-only).
// Full-document update: every field comes from the request body.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// Existence is checked separately: MySQL reports 0 affected rows for a
	// value-identical update, so RowsAffected cannot distinguish "missing"
	// from "nothing changed".
	var exists bool
	if err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", c.Param("id")).Scan(&exists); err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	var potency, description *string
	if input.Potency != "" {
		potency = &input.Potency
	}
	if input.Description != "" {
		description = &input.Description
	}

	query := `
		UPDATE products
		SET name = ?, slug = ?, category = ?, potency = ?, quantity = ?, price = ?, description = ?, updated_at = ?
		WHERE id = ?`
	if _, err := h.DB.Exec(query,
		input.Name, slug.Make(input.Name), input.Category, potency,
		input.Quantity, input.Price, description, time.Now(), c.Param("id"),
	); err != nil {
		h.serverError(c, err)
		return
	}

	var p models.Product
	if err := scanProduct(h.DB.QueryRow("SELECT "+productColumns+" FROM products WHERE id = ?", c.Param("id")), &p); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// DeleteProduct is the handler for DELETE /api/products/:id (admin-only).
// Soft delete: flips is_active false and nothing else. Deleting an already
// inactive product succeeds and leaves it inactive.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	var exists bool
	err := h.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)", c.Param("id")).Scan(&exists)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	if _, err := h.DB.Exec("UPDATE products SET is_active = FALSE, updated_at = ? WHERE id = ?", time.Now(), c.Param("id")); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
