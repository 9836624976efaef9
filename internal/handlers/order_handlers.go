package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/middleware"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

//
// --- Order Handlers ---
//

// OrderLineInput is one requested line item. The price is never taken from
// the client; it is snapshotted from the catalog at order time.
type OrderLineInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderInput defines the JSON body for placing an order.
type CreateOrderInput struct {
	Items []OrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// OrderWithUser decorates an order with the owning store's display fields
// for admin listings.
type OrderWithUser struct {
	models.Order
	UserName  string  `json:"userName"`
	StoreName *string `json:"storeName,omitempty"`
}

// OrderItemDetail extends the base OrderItem with product info.
type OrderItemDetail struct {
	models.OrderItem
	ProductName string `json:"productName"`
}

// CreateOrder is the handler for POST /api/orders.
// The whole creation runs in one transaction: prices are read from the
// catalog, the total is computed server-side, and the order starts 'pending'.
func (h *Handlers) CreateOrder(c *gin.Context) {
	// 1. --- Get the Caller ---
	user, _ := middleware.CurrentUser(c)

	// 2. --- Bind & Validate JSON ---
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// 3. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer tx.Rollback() // Safety net

	// 4. --- Price Each Line from the Catalog ---
	var total float64
	type pricedLine struct {
		productID int64
		quantity  int
		unitPrice float64
	}
	lines := make([]pricedLine, 0, len(input.Items))

	for _, item := range input.Items {
		var price float64
		err := tx.QueryRow(
			"SELECT price FROM products WHERE id = ? AND is_active = TRUE",
			item.ProductID).Scan(&price)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Product %d not found or inactive", item.ProductID)})
				return
			}
			h.serverError(c, err)
			return
		}
		total += price * float64(item.Quantity)
		lines = append(lines, pricedLine{item.ProductID, item.Quantity, price})
	}

	// 5. --- Insert the Order ---
	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO orders (user_id, status, total_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, models.OrderPending, total, now, now,
	)
	if err != nil {
		h.serverError(c, err)
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		h.serverError(c, err)
		return
	}

	// 6. --- Insert the Line Items ---
	for _, line := range lines {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			orderID, line.productID, line.quantity, line.unitPrice, now,
		)
		if err != nil {
			h.serverError(c, err)
			return
		}
	}

	// 7. --- Commit ---
	if err := tx.Commit(); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Order{
		ID:          orderID,
		UserID:      user.ID,
		Status:      models.OrderPending,
		TotalAmount: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// GetOrders is the handler for GET /api/orders.
// Admins see every order; store owners only see their own.
func (h *Handlers) GetOrders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	query := `
		SELECT o.id, o.user_id, o.status, o.total_amount, o.created_at, o.updated_at,
		       u.name, u.store_name
		FROM orders o
		JOIN users u ON o.user_id = u.id`
	args := []interface{}{}

	if !user.Role.IsAdmin() {
		query += " WHERE o.user_id = ?"
		args = append(args, user.ID)
	}
	query += " ORDER BY o.created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	orders := []OrderWithUser{}
	for rows.Next() {
		var o OrderWithUser
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
			&o.UserName, &o.StoreName,
		); err != nil {
			h.serverError(c, err)
			return
		}
		orders = append(orders, o)
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder is the handler for GET /api/orders/:id.
// Returns the order plus its line items with product names. Store owners can
// only fetch orders they placed.
func (h *Handlers) GetOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var o OrderWithUser
	err := h.DB.QueryRow(`
		SELECT o.id, o.user_id, o.status, o.total_amount, o.created_at, o.updated_at,
		       u.name, u.store_name
		FROM orders o
		JOIN users u ON o.user_id = u.id
		WHERE o.id = ?`, c.Param("id")).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
		&o.UserName, &o.StoreName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	if !user.Role.IsAdmin() && o.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.created_at, p.name
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?`, o.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	items := []OrderItemDetail{}
	for rows.Next() {
		var item OrderItemDetail
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.CreatedAt, &item.ProductName,
		); err != nil {
			h.serverError(c, err)
			return
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"order": o,
		"items": items,
	})
}

// UpdateOrderStatusInput defines the JSON body for a status transition.
type UpdateOrderStatusInput struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PUT /api/orders/:id/status (admin-only).
// Transitions are checked against the allowed-transition table; an illegal
// move is a 400, not a silent write.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order status"})
		return
	}

	// 2. --- Begin Transaction ---
	// The row lock keeps two concurrent transitions from both reading the
	// same starting state.
	tx, err := h.DB.Begin()
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer tx.Rollback()

	// 3. --- Fetch the Current Status ---
	var current models.OrderStatus
	err = tx.QueryRow("SELECT status FROM orders WHERE id = ? FOR UPDATE", c.Param("id")).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	// 4. --- Check the Transition ---
	if !current.CanTransitionTo(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("Cannot transition order from '%s' to '%s'", current, input.Status),
		})
		return
	}

	// 5. --- Apply & Commit ---
	if _, err := tx.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?", input.Status, time.Now(), c.Param("id")); err != nil {
		h.serverError(c, err)
		return
	}
	if err := tx.Commit(); err != nil {
		h.serverError(c, err)
		return
	}

	var o models.Order
	err = h.DB.QueryRow(`
		SELECT id, user_id, status, total_amount, created_at, updated_at
		FROM orders WHERE id = ?`, c.Param("id")).Scan(
		&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}
