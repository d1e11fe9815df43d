package products

import (
	"time"
)

// Product represents a sellable or stockable item.
type Product struct {
	ID         int64     `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Unit       string    `json:"unit"`
	Price      float64   `json:"price"`
	Cost       float64   `json:"cost"`
	TaxID      int64     `json:"tax_id"`
	OpeningQty int64     `json:"opening_qty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
