package models

import "time"

// InvoiceStatus is derived from paid-vs-total amounts, never set directly.
type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "unpaid"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
)

// ComputeInvoiceStatus is the single place invoice status is calculated:
// paid iff paidAmount >= totalAmount, partial iff 0 < paidAmount < totalAmount,
// unpaid otherwise. Overpayment clamps to paid.
func ComputeInvoiceStatus(paidAmount, totalAmount float64) InvoiceStatus {
	switch {
	case paidAmount >= totalAmount:
		return InvoicePaid
	case paidAmount > 0:
		return InvoicePartial
	default:
		return InvoiceUnpaid
	}
}

// Invoice is the model for the 'invoices' table. TotalAmount is copied from
// the order at generation time; PaidAmount only ever increases.
type Invoice struct {
	ID            int64         `json:"id" db:"id"`
	OrderID       int64         `json:"orderId" db:"order_id"`
	UserID        int64         `json:"userId" db:"user_id"`
	InvoiceNumber string        `json:"invoiceNumber" db:"invoice_number"`
	TotalAmount   float64       `json:"totalAmount" db:"total_amount"`
	PaidAmount    float64       `json:"paidAmount" db:"paid_amount"`
	Status        InvoiceStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}
