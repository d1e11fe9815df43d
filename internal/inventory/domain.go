package inventory

import (
	"time"
)

// Direction enumerates supported stock movement directions.
type Direction string

const (
	// DirectionIn represents an inbound movement.
	DirectionIn Direction = "IN"
	// DirectionOut represents an outbound movement.
	DirectionOut Direction = "OUT"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Movement is a single quantity change against a product's inventory.
// History is append-only; updates only correct mistaken entries.
type Movement struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Direction Direction `json:"type"`
	Quantity  int64     `json:"quantity"`
	TxDate    time.Time `json:"transaction_date"`
	Reference string    `json:"reference,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovementInput describes a manual stock adjustment.
type MovementInput struct {
	ProductID int64
	Direction Direction
	Quantity  int64
	TxDate    time.Time
	Reference string
	Note      string
}

// MovementFilter narrows movement listings.
type MovementFilter struct {
	ProductID int64
	From      time.Time
	To        time.Time
	Limit     int
}

// ProductOpening carries the static product fields needed for the
// stock snapshot.
type ProductOpening struct {
	ProductID  int64
	Name       string
	SKU        string
	OpeningQty int64
}

// StockLevel is one row of the current-stock snapshot. Closing stock
// is always derived, never stored.
type StockLevel struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	OpeningQty int64  `json:"opening_qty"`
	TotalIn    int64  `json:"total_in"`
	TotalOut   int64  `json:"total_out"`
	ClosingQty int64  `json:"closing_qty"`
}
