package invoices

import (
	"time"
)

// Status enumerates invoice lifecycle states.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusPaid      Status = "PAID"
	StatusPartial   Status = "PARTIAL"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// AllStatuses lists every status in breakdown order.
var AllStatuses = []Status{StatusDraft, StatusSent, StatusPaid, StatusPartial, StatusOverdue, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Invoice model.
type Invoice struct {
	ID          int64     `json:"id"`
	Number      string    `json:"number"`
	CustomerID  int64     `json:"customer_id"`
	IssueDate   time.Time `json:"issue_date"`
	DueDate     time.Time `json:"due_date"`
	TotalAmount float64   `json:"total_amount"`
	Tax         float64   `json:"tax"`
	Discount    float64   `json:"discount"`
	PaidAmount  float64   `json:"paid_amount"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Balance returns the remaining amount due.
func (i Invoice) Balance() float64 {
	return i.TotalAmount - i.PaidAmount
}

// Line is a single product row attached to an invoice.
type Line struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	ProductID   int64   `json:"product_id"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description,omitempty"`
}

// Payment is an append-only record applied against an invoice.
type Payment struct {
	ID        int64     `json:"id"`
	InvoiceID int64     `json:"invoice_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	Note      string    `json:"note,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceWithLines is the explicit result shape for detail fetches.
type InvoiceWithLines struct {
	Invoice
	Lines []Line `json:"line_items"`
}

// CreateInvoiceInput carries everything needed to create an invoice.
type CreateInvoiceInput struct {
	CustomerID  int64
	Number      string
	IssueDate   time.Time
	DueDate     time.Time
	TotalAmount float64
	Tax         float64
	Discount    float64
	Notes       string
	Lines       []LineInput
}

// LineInput describes one submitted line item.
type LineInput struct {
	ProductID   int64
	Quantity    float64
	UnitPrice   float64
	Description string
}

// UpdateInvoiceInput carries mutable header fields.
type UpdateInvoiceInput struct {
	CustomerID  int64
	IssueDate   time.Time
	DueDate     time.Time
	TotalAmount float64
	Tax         float64
	Discount    float64
	Notes       string
}

// PaymentInput describes a payment to record.
type PaymentInput struct {
	Amount    float64
	Method    string
	Reference string
	Note      string
	PaidAt    time.Time
}

// ListFilter narrows invoice listings.
type ListFilter struct {
	Status     Status
	CustomerID int64
	From       time.Time
	To         time.Time
	Limit      int
}

// Summary aggregates invoices over a period.
type Summary struct {
	TotalInvoices int            `json:"totalInvoices"`
	TotalAmount   float64        `json:"totalAmount"`
	AvgAmount     float64        `json:"avgAmount"`
	ByStatus      map[Status]int `json:"byStatus"`
}
