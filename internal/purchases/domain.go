package purchases

import (
	"time"
)

// Status enumerates purchase states.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReceived  Status = "RECEIVED"
	StatusCancelled Status = "CANCELLED"
)

// Purchase records goods ordered from a supplier.
type Purchase struct {
	ID           int64      `json:"id"`
	SupplierID   int64      `json:"supplier_id"`
	ProductID    int64      `json:"product_id"`
	Quantity     int64      `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	Total        float64    `json:"total"`
	Status       Status     `json:"status"`
	PurchaseDate time.Time  `json:"purchase_date"`
	ReceivedAt   *time.Time `json:"received_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreatePurchaseInput carries a new purchase order.
type CreatePurchaseInput struct {
	SupplierID   int64
	ProductID    int64
	Quantity     int64
	UnitPrice    float64
	Total        *float64
	PurchaseDate time.Time
}

// ListFilter narrows purchase listings.
type ListFilter struct {
	SupplierID int64
	Status     Status
	From       time.Time
	To         time.Time
	Limit      int
}

// Summary aggregates purchases over a period.
type Summary struct {
	TotalPurchases int     `json:"totalPurchases"`
	TotalAmount    float64 `json:"totalAmount"`
	AvgAmount      float64 `json:"avgAmount"`
}
