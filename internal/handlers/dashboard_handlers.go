package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/models"
)

//
// --- Dashboard Stats ---
//

type DashboardStats struct {
	TotalStores   int     `json:"totalStores"`
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalInvoices int     `json:"totalInvoices"`
	PendingOrders int     `json:"pendingOrders"`
	TotalRevenue  float64 `json:"totalRevenue"` // Sum of fully paid invoices
}

// GetDashboardStats is the handler for GET /api/dashboard/stats.
// Aggregated counts, paid-invoice revenue, and the five most recent orders.
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	stats := DashboardStats{}

	// 1. --- Entity Counts ---
	err := h.DB.QueryRow("SELECT COUNT(*) FROM users WHERE role = ?", models.RoleStore).Scan(&stats.TotalStores)
	if err != nil {
		h.serverError(c, err)
		return
	}

	err = h.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&stats.TotalProducts)
	if err != nil {
		h.serverError(c, err)
		return
	}

	err = h.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders)
	if err != nil {
		h.serverError(c, err)
		return
	}

	err = h.DB.QueryRow("SELECT COUNT(*) FROM invoices").Scan(&stats.TotalInvoices)
	if err != nil {
		h.serverError(c, err)
		return
	}

	err = h.DB.QueryRow("SELECT COUNT(*) FROM orders WHERE status = ?", models.OrderPending).Scan(&stats.PendingOrders)
	if err != nil {
		h.serverError(c, err)
		return
	}

	// 2. --- Revenue ---
	// COALESCE so an empty invoices table yields 0 instead of NULL.
	err = h.DB.QueryRow(
		"SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE status = ?",
		models.InvoicePaid).Scan(&stats.TotalRevenue)
	if err != nil {
		h.serverError(c, err)
		return
	}

	// 3. --- Recent Orders ---
	rows, err := h.DB.Query(`
		SELECT o.id, o.user_id, o.status, o.total_amount, o.created_at, o.updated_at,
		       u.name, u.store_name
		FROM orders o
		JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC
		LIMIT 5`)
	if err != nil {
		h.serverError(c, err)
		return
	}
	defer rows.Close()

	recentOrders := []OrderWithUser{}
	for rows.Next() {
		var o OrderWithUser
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
			&o.UserName, &o.StoreName,
		); err != nil {
			h.serverError(c, err)
			return
		}
		recentOrders = append(recentOrders, o)
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"recentOrders": recentOrders,
	})
}
