package invoices

import "time"

type lineForm struct {
	ProductID   int64   `json:"product_id" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description"`
}

type createInvoiceForm struct {
	CustomerID  int64      `json:"customer_id" validate:"required"`
	Number      string     `json:"number"`
	IssueDate   *time.Time `json:"issue_date"`
	DueDate     time.Time  `json:"due_date" validate:"required"`
	TotalAmount float64    `json:"total_amount"`
	Tax         float64    `json:"tax"`
	Discount    float64    `json:"discount"`
	Notes       string     `json:"notes"`
	Items       []lineForm `json:"items" validate:"dive"`
}

type updateInvoiceForm struct {
	CustomerID  int64     `json:"customer_id" validate:"required"`
	IssueDate   time.Time `json:"issue_date" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	TotalAmount float64   `json:"total_amount"`
	Tax         float64   `json:"tax"`
	Discount    float64   `json:"discount"`
	Notes       string    `json:"notes"`
}

type statusForm struct {
	Status string `json:"status" validate:"required"`
}

type paymentForm struct {
	Amount    float64    `json:"amount" validate:"required,gt=0"`
	Method    string     `json:"method" validate:"required"`
	Reference string     `json:"reference"`
	Note      string     `json:"note"`
	PaidAt    *time.Time `json:"paid_at"`
}
