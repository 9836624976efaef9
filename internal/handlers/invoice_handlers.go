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
// --- Invoice Handlers ---
//
// Invoices are generated explicitly by an admin against an existing order.
// Order creation and invoice creation are deliberately two independent
// writes; there is no implicit linkage and no cross-table transaction.
//

// InvoiceWithUser decorates an invoice with the owning store's display
// fields for listings.
type InvoiceWithUser struct {
	models.Invoice
	UserName  string  `json:"userName"`
	StoreName *string `json:"storeName,omitempty"`
}

// CreateInvoiceInput defines the JSON body for generating an invoice.
type CreateInvoiceInput struct {
	OrderID int64 `json:"orderId" binding:"required"`
}

// CreateInvoice is the handler for POST /api/invoices (admin-only).
// The invoice copies the order's total; it starts unpaid with nothing paid.
func (h *Handlers) CreateInvoice(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// 2. --- Fetch the Order ---
	var orderUserID int64
	var orderTotal float64
	err := h.DB.QueryRow("SELECT user_id, total_amount FROM orders WHERE id = ?", input.OrderID).
		Scan(&orderUserID, &orderTotal)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	// 3. --- Generate & Insert ---
	now := time.Now()
	inv := models.Invoice{
		OrderID:       input.OrderID,
		UserID:        orderUserID,
		InvoiceNumber: fmt.Sprintf("INV-%d", now.UnixMilli()),
		TotalAmount:   orderTotal,
		PaidAmount:    0,
		Status:        models.InvoiceUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := h.DB.Exec(`
		INSERT INTO invoices (order_id, user_id, invoice_number, total_amount, paid_amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.OrderID, inv.UserID, inv.InvoiceNumber, inv.TotalAmount,
		inv.PaidAmount, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		// Two invoices created in the same millisecond collide on the
		// unique invoice_number index.
		if isDuplicateEntry(err) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invoice number already exists, please retry"})
			return
		}
		h.serverError(c, err)
		return
	}

	inv.ID, err = result.LastInsertId()
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// GetInvoices is the handler for GET /api/invoices.
// Scoped exactly like orders: admins see all, store owners see their own.
func (h *Handlers) GetInvoices(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	query := `
		SELECT i.id, i.order_id, i.user_id, i.invoice_number, i.total_amount, i.paid_amount, i.status, i.created_at, i.updated_at,
		       u.name, u.store_name
		FROM invoices i
		JOIN users u ON i.user_id = u.id`
	args := []interface{}{}

	if !user.Role.IsAdmin() {
		query += " WHERE i.user_id = ?"
		args = append(args, user.ID)
	}
	query += " ORDER BY i.created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	invoices := []InvoiceWithUser{}
	for rows.Next() {
		var inv InvoiceWithUser
		if err := rows.Scan(
			&inv.ID, &inv.OrderID, &inv.UserID, &inv.InvoiceNumber,
			&inv.TotalAmount, &inv.PaidAmount, &inv.Status,
			&inv.CreatedAt, &inv.UpdatedAt, &inv.UserName, &inv.StoreName,
		); err != nil {
			h.serverError(c, err)
			return
		}
		invoices = append(invoices, inv)
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice is the handler for GET /api/invoices/:id.
func (h *Handlers) GetInvoice(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var inv InvoiceWithUser
	err := h.DB.QueryRow(`
		SELECT i.id, i.order_id, i.user_id, i.invoice_number, i.total_amount, i.paid_amount, i.status, i.created_at, i.updated_at,
		       u.name, u.store_name
		FROM invoices i
		JOIN users u ON i.user_id = u.id
		WHERE i.id = ?`, c.Param("id")).Scan(
		&inv.ID, &inv.OrderID, &inv.UserID, &inv.InvoiceNumber,
		&inv.TotalAmount, &inv.PaidAmount, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.UserName, &inv.StoreName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	if !user.Role.IsAdmin() && inv.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// RecordPaymentInput defines the JSON body for recording a payment.
// Zero and negative amounts never reach the handler body.
type RecordPaymentInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RecordPayment is the handler for PUT /api/invoices/:id/payment (admin-only).
//
// The paid amount is incremented, never set, inside a transaction holding a
// row lock, so two concurrent payments serialize instead of losing one.
// Status is recomputed from the amounts on every payment. Overpayment is
// accepted; status simply clamps to 'paid'.
func (h *Handlers) RecordPayment(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// 2. --- Begin Transaction & Lock the Row ---
	tx, err := h.DB.Begin()
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer tx.Rollback()

	var inv models.Invoice
	err = tx.QueryRow(`
		SELECT id, order_id, user_id, invoice_number, total_amount, paid_amount, status, created_at, updated_at
		FROM invoices WHERE id = ? FOR UPDATE`, c.Param("id")).Scan(
		&inv.ID, &inv.OrderID, &inv.UserID, &inv.InvoiceNumber,
		&inv.TotalAmount, &inv.PaidAmount, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		h.serverError(c, err)
		return
	}

	// 3. --- Increment & Recompute ---
	inv.PaidAmount += input.Amount
	inv.Status = models.ComputeInvoiceStatus(inv.PaidAmount, inv.TotalAmount)
	inv.UpdatedAt = time.Now()

	if _, err := tx.Exec(
		"UPDATE invoices SET paid_amount = ?, status = ?, updated_at = ? WHERE id = ?",
		inv.PaidAmount, inv.Status, inv.UpdatedAt, inv.ID,
	); err != nil {
		h.serverError(c, err)
		return
	}

	// 4. --- Commit ---
	if err := tx.Commit(); err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}
