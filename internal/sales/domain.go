package sales

import (
	"time"
)

// Sale records one product sold to a customer.
type Sale struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	ProductID  int64     `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	Discount   float64   `json:"discount"`
	Tax        float64   `json:"tax"`
	RoundOff   float64   `json:"round_off"`
	Total      float64   `json:"total"`
	SaleDate   time.Time `json:"sale_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateSaleInput carries a new sale. Total, when nil, is computed as
// quantity*unitPrice - discount + tax + roundOff.
type CreateSaleInput struct {
	CustomerID int64
	ProductID  int64
	Quantity   int64
	UnitPrice  float64
	Discount   float64
	Tax        float64
	RoundOff   float64
	Total      *float64
	SaleDate   time.Time
}

// UpdateSaleInput mutates an existing sale. The correlated stock
// movement recorded at creation time is not adjusted.
type UpdateSaleInput struct {
	CustomerID int64
	ProductID  int64
	Quantity   int64
	UnitPrice  float64
	Discount   float64
	Tax        float64
	RoundOff   float64
	Total      *float64
	SaleDate   time.Time
}

// ListFilter narrows sale listings.
type ListFilter struct {
	CustomerID int64
	ProductID  int64
	From       time.Time
	To         time.Time
	Limit      int
}

// Summary aggregates sales over a period.
type Summary struct {
	TotalSales  int     `json:"totalSales"`
	TotalAmount float64 `json:"totalAmount"`
	AvgAmount   float64 `json:"avgAmount"`
}

// ComputeTotal applies the sale total formula.
func ComputeTotal(quantity int64, unitPrice, discount, tax, roundOff float64) float64 {
	return float64(quantity)*unitPrice - discount + tax + roundOff
}
